// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

//go:build linux

package events

func newPlatformQueue() (Queue, error) {
	return newEpollQueue()
}
