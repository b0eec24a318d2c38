// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build linux

package events

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"
)

// epollQueue is the Linux backend.
type epollQueue struct {
	fd   int
	tags map[int]int
	term *Terminator

	scratch []unix.EpollEvent
}

func newEpollQueue() (Queue, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("creating epoll queue: %w", err)
	}

	log.Debug("Using the epoll event queue")
	return &epollQueue{fd: fd, tags: make(map[int]int)}, nil
}

func (q *epollQueue) add(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	return unix.EpollCtl(q.fd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (q *epollQueue) AddSocket(fd, tag int) error {
	if err := q.add(fd); err != nil {
		return fmt.Errorf("registering socket %d: %w", fd, err)
	}

	q.tags[fd] = tag
	return nil
}

func (q *epollQueue) AddTermination(term *Terminator) error {
	if err := q.add(term.FD()); err != nil {
		return fmt.Errorf("registering termination pipe: %w", err)
	}

	q.term = term
	return nil
}

func (q *epollQueue) Wait(evs []Event) (int, error) {
	if len(q.scratch) < len(evs) {
		q.scratch = make([]unix.EpollEvent, len(evs))
	}
	scratch := q.scratch[:len(evs)]

	for {
		n, err := unix.EpollWait(q.fd, scratch, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("epoll wait: %w", err)
		}

		for i := 0; i < n; i++ {
			fd := int(scratch[i].Fd)
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

func (q *epollQueue) Close() error {
	if q.fd < 0 {
		return nil
	}

	err := unix.Close(q.fd)
	q.fd = -1
	return err
}
