// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package beat

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Now returns the two clock readings stamped into payloads: the system clock
// in nanoseconds since the Unix epoch and the monotonic clock in nanoseconds
// since an arbitrary origin. The monotonic reading is zero if the clock
// cannot be queried.
func Now() (sys uint64, mono uint64) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err == nil {
		mono = uint64(ts.Nano())
	}

	sys = uint64(time.Now().UnixNano())
	return
}

// Hostname returns the local hostname bounded to the payload's hostname
// field, truncating longer names to HostLen bytes.
func Hostname() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", err
	}

	if len(name) > HostLen {
		name = name[:HostLen]
	}
	return name, nil
}
