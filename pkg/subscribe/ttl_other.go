// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package subscribe

import (
	"golang.org/x/sys/unix"
)

// ttlFromControl reports the Time-To-Live as unavailable on platforms whose
// ancillary data format is not known here. Records degrade to "N/A".
func ttlFromControl(cmsgs []unix.SocketControlMessage) (uint8, bool) {
	return 0, false
}
