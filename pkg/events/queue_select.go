// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build unix

package events

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"
)

// fdSetSize bounds the descriptors a select(2) set can hold.
const fdSetSize = 1024

// selectQueue is the portable fallback backend. It rebuilds the
// descriptor set before every wait and scans it in ascending order
// afterwards, so batches come out deterministic.
type selectQueue struct {
	fds  []int
	tags map[int]int
	term *Terminator
	nfds int
}

func newSelectQueue() (Queue, error) {
	log.Debug("Using the select event queue")
	return &selectQueue{tags: make(map[int]int)}, nil
}

func (q *selectQueue) add(fd int) error {
	if fd < 0 || fd >= fdSetSize {
		return fmt.Errorf("descriptor %d outside the select set bounds", fd)
	}

	if fd >= q.nfds {
		q.nfds = fd + 1
	}
	return nil
}

func (q *selectQueue) AddSocket(fd, tag int) error {
	if err := q.add(fd); err != nil {
		return err
	}

	q.fds = append(q.fds, fd)
	sort.Ints(q.fds)
	q.tags[fd] = tag
	return nil
}

func (q *selectQueue) AddTermination(term *Terminator) error {
	if err := q.add(term.FD()); err != nil {
		return err
	}

	q.term = term
	return nil
}

func (q *selectQueue) Wait(evs []Event) (int, error) {
	for {
		var rset unix.FdSet
		rset.Zero()
		for _, fd := range q.fds {
			rset.Set(fd)
		}
		if q.term != nil {
			rset.Set(q.term.FD())
		}

		if _, err := unix.Select(q.nfds, &rset, nil, nil, nil); err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, fmt.Errorf("select wait: %w", err)
		}

		n := 0
		if q.term != nil && rset.IsSet(q.term.FD()) && n < len(evs) {
			reason, err := q.term.Consume()
			if err != nil {
				return 0, err
			}

			evs[n] = Event{Termination: true, Reason: reason}
			n++
		}
		for _, fd := range q.fds {
			if n == len(evs) {
				break
			}
			if rset.IsSet(fd) {
				evs[n] = Event{Tag: q.tags[fd]}
				n++
			}
		}

		if n == 0 {
			continue
		}
		return n, nil
	}
}

func (q *selectQueue) Close() error {
	return nil
}
