// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

// Package config loads optional TOML profiles and merges them with command
// line flags: a flag beats the profile, the profile beats the built-in
// default. It also configures the process-wide logging.
package config
