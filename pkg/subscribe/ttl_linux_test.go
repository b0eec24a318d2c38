// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build linux

package subscribe

import (
	"encoding/binary"
	"testing"

	"golang.org/x/sys/unix"
)

func ttlControl(level, typ int32, data []byte) unix.SocketControlMessage {
	return unix.SocketControlMessage{
		Header: unix.Cmsghdr{Level: level, Type: typ},
		Data:   data,
	}
}

func TestTtlFromControl(t *testing.T) {
	value := make([]byte, 4)
	binary.NativeEndian.PutUint32(value, 63)

	tests := []struct {
		name  string
		cmsgs []unix.SocketControlMessage
		ttl   uint8
		ok    bool
	}{
		{"none", nil, 0, false},
		{"ttl", []unix.SocketControlMessage{ttlControl(unix.IPPROTO_IP, unix.IP_TTL, value)}, 63, true},
		{"wrong-level", []unix.SocketControlMessage{ttlControl(unix.SOL_SOCKET, unix.IP_TTL, value)}, 0, false},
		{"wrong-type", []unix.SocketControlMessage{ttlControl(unix.IPPROTO_IP, unix.IP_TOS, value)}, 0, false},
		{"short-data", []unix.SocketControlMessage{ttlControl(unix.IPPROTO_IP, unix.IP_TTL, value[:2])}, 0, false},
		{"second-position", []unix.SocketControlMessage{
			ttlControl(unix.IPPROTO_IP, unix.IP_TOS, value),
			ttlControl(unix.IPPROTO_IP, unix.IP_TTL, value),
		}, 63, true},
	}

	for _, test := range tests {
		ttl, ok := ttlFromControl(test.cmsgs)
		if ok != test.ok || ttl != test.ttl {
			t.Fatalf("%s: expected (%d, %v), got (%d, %v)",
				test.name, test.ttl, test.ok, ttl, ok)
		}
	}
}
