// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package events

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"
)

// kqueueQueue is the backend for macOS and the BSD family.
type kqueueQueue struct {
	fd   int
	tags map[int]int
	term *Terminator

	scratch []unix.Kevent_t
}

func newKqueueQueue() (Queue, error) {
	fd, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("creating kqueue: %w", err)
	}

	log.Debug("Using the kqueue event queue")
	return &kqueueQueue{fd: fd, tags: make(map[int]int)}, nil
}

func (q *kqueueQueue) add(fd int) error {
	var ev unix.Kevent_t
	unix.SetKevent(&ev, fd, unix.EVFILT_READ, unix.EV_ADD)

	_, err := unix.Kevent(q.fd, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (q *kqueueQueue) AddSocket(fd, tag int) error {
	if err := q.add(fd); err != nil {
		return fmt.Errorf("registering socket %d: %w", fd, err)
	}

	q.tags[fd] = tag
	return nil
}

func (q *kqueueQueue) AddTermination(term *Terminator) error {
	if err := q.add(term.FD()); err != nil {
		return fmt.Errorf("registering termination pipe: %w", err)
	}

	q.term = term
	return nil
}

func (q *kqueueQueue) Wait(evs []Event) (int, error) {
	if len(q.scratch) < len(evs) {
		q.scratch = make([]unix.Kevent_t, len(evs))
	}
	scratch := q.scratch[:len(evs)]

	for {
		n, err := unix.Kevent(q.fd, nil, scratch, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("kevent wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(scratch[i].Ident)
			if q.term != nil && fd == q.term.FD() {
				reason, err := q.term.Consume()
				if err != nil {
					return 0, err
				}
				evs[i] = Event{Termination: true, Reason: reason}
				continue
			}

			evs[i] = Event{Tag: q.tags[fd]}
		}

		return n, nil
	}
}

func (q *kqueueQueue) Close() error {
	if q.fd < 0 {
		return nil
	}

	err := unix.Close(q.fd)
	q.fd = -1
	return err
}
