// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"
)

// SetupError is a fatal socket configuration failure, carrying the step that
// failed. Without a working socket the endpoint is useless.
type SetupError struct {
	Step string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("socket setup failed at %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ListenSubscriber opens and configures this endpoint's receiving socket:
// address reuse, best-effort TTL delivery, an optional receive buffer size,
// binding to (group, port), and finally the multicast membership on the
// resolved interface. The buffer must be sized before bind so the kernel
// honors it before any traffic queues up.
//
// A rcvbuf of zero keeps the system default.
func (ep *Endpoint) ListenSubscriber(rcvbuf int) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return &SetupError{Step: "socket", Err: err}
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return &SetupError{Step: "SO_REUSEADDR", Err: err}
	}

	// Ask the kernel to attach each datagram's Time-To-Live as ancillary
	// data. Platforms without it degrade the output to "N/A" instead of
	// stopping the subscriber.
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_IP, unix.IP_RECVTTL, 1); err != nil {
		log.WithError(err).WithField("endpoint", ep).Warn(
			"Unable to request Time-To-Live information")
	}

	if rcvbuf > 0 {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, rcvbuf); err != nil {
			unix.Close(fd)
			return &SetupError{Step: "SO_RCVBUF", Err: err}
		}
	}

	sa := &unix.SockaddrInet4{Port: ep.Port}
	copy(sa.Addr[:], ep.Group.To4())
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return &SetupError{Step: "bind", Err: err}
	}

	mreq := &unix.IPMreq{}
	copy(mreq.Multiaddr[:], ep.Group.To4())
	copy(mreq.Interface[:], ep.Addr.To4())
	if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq); err != nil {
		unix.Close(fd)
		return &SetupError{Step: "IP_ADD_MEMBERSHIP", Err: err}
	}

	ep.Sock = fd
	return nil
}

// Close releases the endpoint's socket. Closing an endpoint that never bound
// or was already closed is a no-op.
func (ep *Endpoint) Close() error {
	if ep.Sock < 0 {
		return nil
	}

	err := unix.Close(ep.Sock)
	ep.Sock = -1
	return err
}

// CloseAll releases every endpoint socket and aggregates the failures.
func CloseAll(eps []*Endpoint) error {
	var result *multierror.Error

	for _, ep := range eps {
		if err := ep.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing %v: %w", ep, err))
		}
	}

	return result.ErrorOrNil()
}
