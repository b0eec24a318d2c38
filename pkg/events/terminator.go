// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package events

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hashicorp/go-multierror"

	"golang.org/x/sys/unix"
)

// Terminator turns termination signals into queue events through a
// self-pipe. SIGINT and SIGHUP are forwarded as single reason bytes; an
// optional wall-clock timeout writes its own reason when it fires. The read
// end is registered with a Queue, which consumes one byte per termination
// event it reports.
type Terminator struct {
	r, w int

	sigc  chan os.Signal
	timer *time.Timer
}

// NewTerminator arms SIGINT and SIGHUP forwarding and, for a positive
// timeout, the wall-clock alarm.
func NewTerminator(timeout time.Duration) (*Terminator, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("creating termination pipe: %w", err)
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, fmt.Errorf("marking termination pipe non-blocking: %w", err)
		}
	}

	t := &Terminator{
		r:    fds[0],
		w:    fds[1],
		sigc: make(chan os.Signal, 2),
	}

	signal.Notify(t.sigc, unix.SIGINT, unix.SIGHUP)
	go t.forward()

	if timeout > 0 {
		t.timer = time.AfterFunc(timeout, func() {
			t.raise(Timeout)
		})
	}

	return t, nil
}

// forward runs until Close and maps each received signal to its reason.
func (t *Terminator) forward() {
	for sig := range t.sigc {
		switch sig {
		case unix.SIGINT:
			t.raise(Interrupt)
		case unix.SIGHUP:
			t.raise(Hangup)
		}
	}
}

// raise writes one reason byte. The pipe is non-blocking; when it is full a
// termination request is already pending and this one may be dropped.
func (t *Terminator) raise(r Reason) {
	_, _ = unix.Write(t.w, []byte{byte(r)})
}

// FD is the pipe's read end, for queue registration.
func (t *Terminator) FD() int {
	return t.r
}

// Consume reads one pending reason byte.
func (t *Terminator) Consume() (Reason, error) {
	var b [1]byte
	for {
		n, err := unix.Read(t.r, b[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("reading termination reason: %w", err)
		}
		if n != 1 {
			return 0, fmt.Errorf("termination pipe returned %d bytes", n)
		}

		return Reason(b[0]), nil
	}
}

// Close detaches the signal forwarding, stops the alarm and releases the
// pipe.
func (t *Terminator) Close() error {
	if t.r < 0 {
		return nil
	}

	signal.Stop(t.sigc)
	close(t.sigc)
	if t.timer != nil {
		t.timer.Stop()
	}

	var result *multierror.Error
	if err := unix.Close(t.r); err != nil {
		result = multierror.Append(result, err)
	}
	if err := unix.Close(t.w); err != nil {
		result = multierror.Append(result, err)
	}
	t.r, t.w = -1, -1

	return result.ErrorOrNil()
}
