// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package events

import (
	"fmt"
	"os"
)

// BatchSize is the number of events one Wait call hands back at most. A
// bounded batch amortizes the wait syscall without starving termination
// handling behind an endless readiness stream.
const BatchSize = 64

// ForceEnv is the environment variable overriding the backend selection.
// The only recognized value is "select".
const ForceEnv = "MBEAT_EVENT_QUEUE"

// Reason says why termination was requested.
type Reason uint8

const (
	// Interrupt is a user interrupt, SIGINT.
	Interrupt Reason = iota + 1
	// Hangup is a lost session, SIGHUP.
	Hangup
	// Timeout is the wall-clock alarm a subscriber may arm.
	Timeout
)

func (r Reason) String() string {
	switch r {
	case Interrupt:
		return "interrupt"
	case Hangup:
		return "hangup"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown (%d)", uint8(r))
	}
}

// Event is one readiness notification: either a registered socket became
// readable, or termination was requested.
type Event struct {
	// Tag is the registration tag of the readable socket. It is only
	// meaningful when Termination is false.
	Tag int

	// Termination reports a termination request; Reason says why.
	Termination bool
	Reason      Reason
}

// Queue waits for readiness on registered sockets and for termination
// requests. The lifecycle is: create, register sockets and the termination
// source, then alternate Wait and drain until a termination event, then
// Close. Exactly one goroutine drives a Queue.
type Queue interface {
	// AddSocket registers a socket for readable-readiness under a caller
	// chosen tag, reported back in the matching events.
	AddSocket(fd int, tag int) error

	// AddTermination arms the queue's termination source.
	AddTermination(term *Terminator) error

	// Wait blocks until at least one registered socket is readable or
	// termination is requested, then fills evs with everything the OS
	// reported in one notification, up to len(evs). Interruption by
	// signals that are not termination signals is retried transparently;
	// every other failure is fatal to the queue.
	Wait(evs []Event) (int, error)

	// Close releases the queue's OS resources. Registered sockets stay
	// open; they belong to their endpoints.
	Close() error
}

// New selects the best backend the platform offers: epoll on Linux, kqueue
// on macOS and the BSDs, select anywhere else or when forced through
// MBEAT_EVENT_QUEUE.
func New() (Queue, error) {
	if os.Getenv(ForceEnv) == "select" {
		return newSelectQueue()
	}

	return newPlatformQueue()
}
