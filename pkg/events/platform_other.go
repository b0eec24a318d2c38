// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build unix && !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package events

func newPlatformQueue() (Queue, error) {
	return newSelectQueue()
}
