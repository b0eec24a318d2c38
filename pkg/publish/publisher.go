// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package publish

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
	"github.com/mbeat-io/mbeat-go/pkg/endpoint"
)

// Options are the publisher's run parameters.
type Options struct {
	// Count is the number of beats published per endpoint.
	Count uint64

	// Interval is the pause between two rounds. There is no pause after
	// the final round.
	Interval time.Duration

	// Key marks every beat of this run. The subscriber side may filter
	// on it.
	Key uint64

	// TTL is stamped into the payload; the socket carries the same value
	// through its multicast options.
	TTL uint8

	// SeqStart offsets the sequence numbers, allowing one logical run to
	// be split across several invocations.
	SeqStart uint64

	// FailFast aborts the run on the first send error instead of logging
	// and carrying on.
	FailFast bool
}

// Publisher sends one beat per endpoint per round, every endpoint in
// argument order within a round.
type Publisher struct {
	conns []*endpoint.PubConn
	opts  Options

	hostname string
	sent     uint64
}

// New wires a Publisher over already dialed connections.
func New(conns []*endpoint.PubConn, opts Options) (*Publisher, error) {
	hostname, err := beat.Hostname()
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conns:    conns,
		opts:     opts,
		hostname: hostname,
	}, nil
}

// Sent is the number of beats successfully handed to the kernel so far.
func (p *Publisher) Sent() uint64 {
	return p.sent
}

// Run publishes all rounds. Departure clocks are read freshly for every
// single beat, immediately before its encoding.
func (p *Publisher) Run() error {
	for round := uint64(0); round < p.opts.Count; round++ {
		if round > 0 {
			time.Sleep(p.opts.Interval)
		}

		log.WithFields(log.Fields{
			"round": round,
			"seq":   p.opts.SeqStart + round,
		}).Debug("Publishing a round")

		if err := p.publishRound(round); err != nil {
			return err
		}
	}

	return nil
}

func (p *Publisher) publishRound(round uint64) error {
	for _, pc := range p.conns {
		ep := pc.Endpoint
		sys, mono := beat.Now()

		pl := beat.Payload{
			TTL:      p.opts.TTL,
			Port:     uint16(ep.Port),
			Group:    ep.Group,
			SysTime:  sys,
			MonoTime: mono,
			Key:      p.opts.Key,
			SeqNum:   p.opts.SeqStart + round,
			SeqLen:   p.opts.Count,
			Iface:    ep.Name,
			Hostname: p.hostname,
		}

		data, err := pl.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encoding beat for %v: %w", ep, err)
		}

		if err := pc.Send(data); err != nil {
			if p.opts.FailFast {
				return fmt.Errorf("sending to %v: %w", ep, err)
			}
			log.WithField("endpoint", ep).WithError(err).Warn("Send failed")
			continue
		}

		p.sent++
	}

	return nil
}
