// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package endpoint manages the (interface, multicast group, port) tuples the
// tools operate on, from the textual "iface=group" form through interface
// resolution to the configured sockets.
//
// Endpoints are built once at startup into an ordered list; the order is the
// argument order and determines the publisher's round ordering. Subscriber
// sockets are raw file descriptors so they can be registered with the event
// queue and drained with non-blocking receives; publisher sockets go through
// net and golang.org/x/net/ipv4, which cover every outbound multicast option.
// Socket option ordering is load-bearing: buffer sizes are applied before
// bind/join, and the outbound interface, loopback policy and TTL are pinned
// before the first send.
package endpoint
