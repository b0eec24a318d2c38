// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package sink writes received beats to the subscriber's output, either as
// comma separated text for people and spreadsheets or as fixed size binary
// records for later replay.
package sink
