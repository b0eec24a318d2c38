// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package sink

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
)

// RecordSize is the length of one raw output record: the beat in wire form
// followed by the arrival trailer.
const RecordSize = beat.PayloadSize + beat.IfaceLen + beat.HostLen + 8 + 8 + 1 + 1 + 6

type rawSink struct {
	w   io.Writer
	buf *bufio.Writer
}

// NewRaw creates the binary sink. Each record keeps the payload in its big
// endian wire form and appends the arrival trailer in the machine's native
// byte order, matching what a reader on the same host expects.
func NewRaw(w io.Writer, unbuffered bool) Sink {
	s := &rawSink{}
	s.w, s.buf = wrap(w, unbuffered)
	return s
}

func (s *rawSink) Emit(a *beat.Arrival) error {
	pl, err := a.Payload.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding payload for the raw record: %w", err)
	}

	if len(a.Iface) > beat.IfaceLen {
		return fmt.Errorf("interface name exceeds %d bytes: %q", beat.IfaceLen, a.Iface)
	}
	if len(a.Hostname) > beat.HostLen {
		return fmt.Errorf("hostname exceeds %d bytes: %q", beat.HostLen, a.Hostname)
	}

	var iface [beat.IfaceLen]byte
	copy(iface[:], a.Iface)
	var host [beat.HostLen]byte
	copy(host[:], a.Hostname)

	var ttlValid uint8
	if a.HasTTL {
		ttlValid = 1
	}

	var buf bytes.Buffer
	buf.Grow(RecordSize)
	buf.Write(pl)

	fields := []interface{}{
		iface,
		host,
		a.SysTime,
		a.MonoTime,
		ttlValid,
		a.TTL,
		[6]byte{},
	}
	for _, field := range fields {
		if err := binary.Write(&buf, binary.NativeEndian, field); err != nil {
			return err
		}
	}

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing raw record: %w", err)
	}
	return nil
}

func (s *rawSink) Flush() error {
	if s.buf == nil {
		return nil
	}
	return s.buf.Flush()
}
