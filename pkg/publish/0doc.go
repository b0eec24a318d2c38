// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package publish drives the sending side: it stamps one beat per endpoint
// per round, publishes the rounds at a fixed interval and keeps going or
// stops on send failures depending on its policy.
package publish
