// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package beat implements the mbeat wire protocol: the fixed-size heartbeat
// Payload exchanged between publishers and subscribers, and the Arrival
// record a subscriber derives for every accepted datagram.
//
// A Payload is always exactly PayloadSize bytes on the wire. All multi-byte
// integers are big-endian, independent of the host architecture, so that the
// same datagram decodes identically on every machine of a heterogeneous
// fleet. A datagram is accepted if and only if its size, leading magic
// constant and format version byte all match; anything else on the multicast
// group is foreign traffic and skipped.
//
// The codec is shared verbatim by both roles. Publishers marshal, stamping
// the departure clocks via Now; subscribers unmarshal and extend the Payload
// into an Arrival with their own clock readings and the observed IP
// Time-To-Live.
package beat
