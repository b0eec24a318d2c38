// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package beat

import "fmt"

// Arrival extends a received Payload with the subscriber's view of the
// datagram. It is derived once per accepted datagram and consumed exactly
// once by the output sink.
type Arrival struct {
	Payload Payload

	// Iface and Hostname describe the subscribing side.
	Iface    string
	Hostname string

	// SysTime and MonoTime are the arrival clocks, taken with the same
	// semantics as the departure clocks in Payload.
	SysTime  uint64
	MonoTime uint64

	// TTL is the Time-To-Live observed on arrival. Not every platform
	// delivers it; HasTTL reports whether TTL holds a real value.
	TTL    uint8
	HasTTL bool
}

func (a Arrival) String() string {
	ttl := "N/A"
	if a.HasTTL {
		ttl = fmt.Sprintf("%d", a.TTL)
	}
	return fmt.Sprintf("Arrival(%v, ttl=%s, host=%s)", a.Payload, ttl, a.Hostname)
}
