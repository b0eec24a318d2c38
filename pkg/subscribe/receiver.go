// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package subscribe

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"golang.org/x/sys/unix"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
	"github.com/mbeat-io/mbeat-go/pkg/endpoint"
	"github.com/mbeat-io/mbeat-go/pkg/events"
	"github.com/mbeat-io/mbeat-go/pkg/sink"
)

const (
	// readBufSize is well above PayloadSize, so oversized datagrams
	// surface as decode warnings instead of silent truncation.
	readBufSize = 512

	// oobBufSize holds the ancillary data of one datagram.
	oobBufSize = 128
)

// Options are the receiver's filters and policies.
type Options struct {
	// Key accepts only beats carrying this run key. Zero accepts all.
	Key uint64

	// Offset is subtracted from accepted sequence numbers; beats below
	// the offset are dropped.
	Offset uint64

	// Expect ends the run successfully once this many beats were
	// accepted. Zero keeps the receiver running until termination.
	Expect uint64

	// FailFast aborts the run on the first receive error instead of
	// logging and carrying on.
	FailFast bool
}

// Receiver owns the subscriber pipeline: endpoints, event queue, filters
// and the output sink.
type Receiver struct {
	queue     events.Queue
	endpoints []*endpoint.Endpoint
	out       sink.Sink
	opts      Options

	hostname string
	accepted uint64

	buf []byte
	oob []byte
}

// New wires a Receiver: every endpoint socket is registered with the queue
// under its slice index and the terminator arms the termination path. The
// endpoints must already be listening.
func New(queue events.Queue, eps []*endpoint.Endpoint, term *events.Terminator, out sink.Sink, opts Options) (*Receiver, error) {
	hostname, err := beat.Hostname()
	if err != nil {
		return nil, err
	}

	for i, ep := range eps {
		if err := queue.AddSocket(ep.Sock, i); err != nil {
			return nil, fmt.Errorf("registering %v: %w", ep, err)
		}
	}
	if err := queue.AddTermination(term); err != nil {
		return nil, fmt.Errorf("registering the terminator: %w", err)
	}

	return &Receiver{
		queue:     queue,
		endpoints: eps,
		out:       out,
		opts:      opts,
		hostname:  hostname,
		buf:       make([]byte, readBufSize),
		oob:       make([]byte, oobBufSize),
	}, nil
}

// Accepted is the number of beats that passed the filters and reached the
// sink so far.
func (r *Receiver) Accepted() uint64 {
	return r.accepted
}

// Run alternates waiting and draining until termination is requested or the
// expected number of beats arrived. Each event batch is processed strictly
// in order and processing stops at the first termination event; later
// readiness in that batch is left for the kernel to report again.
//
// The returned reason is zero when the run ended through the expected
// count.
func (r *Receiver) Run() (events.Reason, error) {
	evs := make([]events.Event, events.BatchSize)

	for {
		n, err := r.queue.Wait(evs)
		if err != nil {
			return 0, err
		}

		for _, ev := range evs[:n] {
			if ev.Termination {
				log.WithField("reason", ev.Reason).Info("Stopping the receiver")
				return ev.Reason, nil
			}

			if err := r.drain(r.endpoints[ev.Tag]); err != nil {
				return 0, err
			}
			if r.opts.Expect > 0 && r.accepted >= r.opts.Expect {
				log.WithField("count", r.accepted).Info("Expected number of beats arrived")
				return 0, nil
			}
		}
	}
}

// drain reads one readable socket empty. Each datagram is timestamped
// immediately after its read returns, before any decoding or filtering.
func (r *Receiver) drain(ep *endpoint.Endpoint) error {
	for {
		if r.opts.Expect > 0 && r.accepted >= r.opts.Expect {
			return nil
		}

		n, oobn, _, _, err := unix.Recvmsg(ep.Sock, r.buf, r.oob, unix.MSG_DONTWAIT)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil
		}
		if err != nil {
			if r.opts.FailFast {
				return fmt.Errorf("receiving on %v: %w", ep, err)
			}
			log.WithField("endpoint", ep).WithError(err).Warn("Receive failed")
			continue
		}

		sys, mono := beat.Now()
		if err := r.handle(ep, r.buf[:n], r.oob[:oobn], sys, mono); err != nil {
			return err
		}
	}
}

// handle decodes, filters and emits one datagram. Undecodable datagrams are
// logged and dropped; only a sink failure is returned.
func (r *Receiver) handle(ep *endpoint.Endpoint, data, oob []byte, sys, mono uint64) error {
	var pl beat.Payload
	if err := pl.UnmarshalBinary(data); err != nil {
		log.WithFields(log.Fields{
			"endpoint": ep,
			"bytes":    len(data),
		}).WithError(err).Warn("Dropping an undecodable datagram")
		return nil
	}

	if r.opts.Key != 0 && pl.Key != r.opts.Key {
		return nil
	}
	if pl.SeqNum < r.opts.Offset {
		return nil
	}
	pl.SeqNum -= r.opts.Offset

	ttl, hasTTL := parseTTL(oob)
	if !hasTTL {
		log.WithField("endpoint", ep).Debug("No Time-To-Live in the ancillary data")
	}

	a := &beat.Arrival{
		Payload:  pl,
		Iface:    ep.Name,
		Hostname: r.hostname,
		SysTime:  sys,
		MonoTime: mono,
		TTL:      ttl,
		HasTTL:   hasTTL,
	}
	if err := r.out.Emit(a); err != nil {
		return fmt.Errorf("emitting a record: %w", err)
	}

	r.accepted++
	return nil
}

// parseTTL extracts the received Time-To-Live from the raw ancillary data.
func parseTTL(oob []byte) (uint8, bool) {
	if len(oob) == 0 {
		return 0, false
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return 0, false
	}
	return ttlFromControl(cmsgs)
}
