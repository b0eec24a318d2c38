// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package beat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

const (
	// PayloadMagic leads every heartbeat datagram, the ASCII bytes "mbit".
	PayloadMagic uint32 = 0x6d626974

	// PayloadVersion is the only accepted wire format version. Earlier
	// versions used an incompatible 32-bit layout and are rejected.
	PayloadVersion uint8 = 2

	// PayloadSize is the exact encoded size of a Payload in bytes.
	PayloadSize = 136

	// IfaceLen and HostLen bound the two NUL-padded name fields.
	IfaceLen = 16
	HostLen  = 64
)

// Decode errors, matched with errors.Is. Each occurrence is wrapped with the
// expected and observed values.
var (
	ErrMalformedSize      = errors.New("payload size mismatch")
	ErrBadMagic           = errors.New("payload magic mismatch")
	ErrUnsupportedVersion = errors.New("payload version unsupported")
)

// Payload is one heartbeat datagram. The publisher stamps every field; the
// subscriber never modifies a decoded Payload except for the sequence number
// offset subtraction applied by its filter stage.
type Payload struct {
	// TTL is the Time-To-Live the publisher configured for the datagram.
	TTL uint8

	// Port and Group name the multicast endpoint the datagram was sent to.
	Port  uint16
	Group net.IP

	// SysTime is the departure system clock in nanoseconds since the Unix
	// epoch. MonoTime is the departure monotonic clock in nanoseconds since
	// an arbitrary per-host origin; it is only comparable to other readings
	// from the same host.
	SysTime  uint64
	MonoTime uint64

	// Key identifies one publisher run. Zero means the run is not meant to
	// be filtered on.
	Key uint64

	// SeqNum is the datagram's position within the run, SeqLen the total
	// number of datagrams the run will send per endpoint.
	SeqNum uint64
	SeqLen uint64

	// Iface and Hostname describe the publishing side.
	Iface    string
	Hostname string
}

func (p Payload) String() string {
	return fmt.Sprintf("Payload(key=%d, seq=%d/%d, group=%s:%d, host=%s)",
		p.Key, p.SeqNum, p.SeqLen, p.Group, p.Port, p.Hostname)
}

// MarshalBinary encodes this Payload into its fixed big-endian wire form.
func (p Payload) MarshalBinary() (data []byte, err error) {
	var iface [IfaceLen]byte
	var hostname [HostLen]byte

	if len(p.Iface) > IfaceLen {
		err = fmt.Errorf("payload interface name %q exceeds %d bytes", p.Iface, IfaceLen)
		return
	}
	if len(p.Hostname) > HostLen {
		err = fmt.Errorf("payload hostname %q exceeds %d bytes", p.Hostname, HostLen)
		return
	}
	copy(iface[:], p.Iface)
	copy(hostname[:], p.Hostname)

	group := p.Group.To4()
	if group == nil {
		err = fmt.Errorf("payload group %s is not an IPv4 address", p.Group)
		return
	}

	var buf = new(bytes.Buffer)
	var fields = []interface{}{
		PayloadMagic,
		PayloadVersion,
		p.TTL,
		p.Port,
		[]byte(group),
		uint32(0), // padding, always zero on send
		p.SysTime,
		p.MonoTime,
		p.Key,
		p.SeqNum,
		p.SeqLen,
		iface,
		hostname,
	}

	for _, field := range fields {
		if binErr := binary.Write(buf, binary.BigEndian, field); binErr != nil {
			err = binErr
			return
		}
	}

	data = buf.Bytes()
	return
}

// UnmarshalBinary decodes a Payload from its wire form. The checks are
// ordered: size first, then magic, then version. The padding word is read
// and ignored. Key and sequence values are never a decode concern; they are
// business filters applied downstream.
func (p *Payload) UnmarshalBinary(data []byte) error {
	if len(data) != PayloadSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSize, PayloadSize, len(data))
	}

	var buf = bytes.NewReader(data)

	var magic uint32
	if err := binary.Read(buf, binary.BigEndian, &magic); err != nil {
		return err
	} else if magic != PayloadMagic {
		return fmt.Errorf("%w: expected %#08x, got %#08x", ErrBadMagic, PayloadMagic, magic)
	}

	var version uint8
	if err := binary.Read(buf, binary.BigEndian, &version); err != nil {
		return err
	} else if version != PayloadVersion {
		return fmt.Errorf("%w: expected %d, got %d", ErrUnsupportedVersion, PayloadVersion, version)
	}

	var (
		group    [4]byte
		padding  uint32
		iface    [IfaceLen]byte
		hostname [HostLen]byte
	)
	var fields = []interface{}{
		&p.TTL,
		&p.Port,
		&group,
		&padding,
		&p.SysTime,
		&p.MonoTime,
		&p.Key,
		&p.SeqNum,
		&p.SeqLen,
		&iface,
		&hostname,
	}

	for _, field := range fields {
		if err := binary.Read(buf, binary.BigEndian, field); err != nil {
			return err
		}
	}

	p.Group = net.IP(group[:])
	p.Iface = cstring(iface[:])
	p.Hostname = cstring(hostname[:])

	return nil
}

// cstring returns the bytes up to the first NUL as a string. A field filled
// to its exact bound carries no NUL and is returned whole.
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i != -1 {
		b = b[:i]
	}
	return string(b)
}
