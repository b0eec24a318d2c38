// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package events multiplexes socket readiness and termination requests
// behind one Queue interface, so the subscriber's control loop never touches
// an OS readiness API directly.
//
// Three interchangeable backends exist: epoll on Linux, kqueue on macOS and
// the BSDs, and a portable select loop for everything else. The platform
// picks the backend; callers only see the Queue. Setting the environment
// variable MBEAT_EVENT_QUEUE=select forces the portable backend, which keeps
// it honest on platforms where it is not the default.
//
// Termination is not an asynchronous interruption. A Terminator owns a
// self-pipe whose read end is registered with the queue like any socket;
// SIGINT, SIGHUP and the optional wall-clock timeout each arrive as a single
// reason byte, and the control loop observes them as ordinary events between
// drains. One goroutine drives a Queue; concurrent Waits are not permitted.
package events
