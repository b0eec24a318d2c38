// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package subscribe drives the receiving side: it waits for readiness on
// the subscribed endpoints, drains and decodes their datagrams, applies the
// key and sequence number filters and hands accepted beats to the output
// sink. One goroutine owns the whole pipeline.
package subscribe
