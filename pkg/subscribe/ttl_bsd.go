// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package subscribe

import (
	"golang.org/x/sys/unix"
)

// ttlFromControl scans the control messages for the received Time-To-Live.
// The BSD family delivers it as an IP_RECVTTL message holding one byte.
func ttlFromControl(cmsgs []unix.SocketControlMessage) (uint8, bool) {
	for _, cmsg := range cmsgs {
		if cmsg.Header.Level != unix.IPPROTO_IP || cmsg.Header.Type != unix.IP_RECVTTL {
			continue
		}
		if len(cmsg.Data) < 1 {
			continue
		}

		return cmsg.Data[0], true
	}

	return 0, false
}
