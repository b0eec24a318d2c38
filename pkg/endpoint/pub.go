// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"github.com/hashicorp/go-multierror"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// PubOptions configure one publisher socket.
type PubOptions struct {
	// TTL applies to every outgoing multicast datagram.
	TTL int

	// Loop delivers copies of outgoing datagrams to local listeners.
	Loop bool

	// SndBuf sizes the socket send buffer; zero keeps the system default.
	SndBuf int
}

// PubConn is one endpoint's outbound multicast connection.
type PubConn struct {
	Endpoint *Endpoint

	conn net.PacketConn
	pc   *ipv4.PacketConn
	dst  *net.UDPAddr
}

// DialPublisher opens and configures this endpoint's sending socket. The
// send buffer is applied before bind; the outbound interface, loopback
// policy and TTL are all pinned before the connection is handed out for its
// first send.
func (ep *Endpoint) DialPublisher(opts PubOptions) (*PubConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var soErr error
			err := c.Control(func(fd uintptr) {
				if soErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); soErr != nil {
					return
				}
				if opts.SndBuf > 0 {
					soErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, opts.SndBuf)
				}
			})
			if err != nil {
				return err
			}
			return soErr
		},
	}

	conn, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		return nil, &SetupError{Step: "listen", Err: err}
	}

	iface, err := net.InterfaceByName(ep.Name)
	if err != nil {
		conn.Close()
		return nil, &SetupError{Step: "interface", Err: err}
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastInterface(iface); err != nil {
		conn.Close()
		return nil, &SetupError{Step: "IP_MULTICAST_IF", Err: err}
	}
	if err := pc.SetMulticastLoopback(opts.Loop); err != nil {
		conn.Close()
		return nil, &SetupError{Step: "IP_MULTICAST_LOOP", Err: err}
	}
	if err := pc.SetMulticastTTL(opts.TTL); err != nil {
		conn.Close()
		return nil, &SetupError{Step: "IP_MULTICAST_TTL", Err: err}
	}

	return &PubConn{
		Endpoint: ep,
		conn:     conn,
		pc:       pc,
		dst:      &net.UDPAddr{IP: ep.Group, Port: ep.Port},
	}, nil
}

// Send transmits one encoded payload to the endpoint's group. A short write
// is an error; datagrams are all or nothing.
func (pc *PubConn) Send(data []byte) error {
	n, err := pc.pc.WriteTo(data, nil, pc.dst)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("short write to %v: %d of %d bytes", pc.Endpoint, n, len(data))
	}

	return nil
}

// Close releases the connection. Double close is a no-op.
func (pc *PubConn) Close() error {
	if pc.conn == nil {
		return nil
	}

	err := pc.conn.Close()
	pc.conn = nil
	return err
}

// CloseConns releases every publisher connection and aggregates the failures.
func CloseConns(conns []*PubConn) error {
	var result *multierror.Error

	for _, pc := range conns {
		if err := pc.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing %v: %w", pc.Endpoint, err))
		}
	}

	return result.ErrorOrNil()
}
