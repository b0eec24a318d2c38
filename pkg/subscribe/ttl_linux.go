// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build linux

package subscribe

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// ttlFromControl scans the control messages for the received Time-To-Live.
// Linux delivers it as an IP_TTL message holding a native-endian int.
func ttlFromControl(cmsgs []unix.SocketControlMessage) (uint8, bool) {
	for _, cmsg := range cmsgs {
		if cmsg.Header.Level != unix.IPPROTO_IP || cmsg.Header.Type != unix.IP_TTL {
			continue
		}
		if len(cmsg.Data) < 4 {
			continue
		}

		return uint8(binary.NativeEndian.Uint32(cmsg.Data[:4])), true
	}

	return 0, false
}
