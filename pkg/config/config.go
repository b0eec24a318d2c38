// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Built-in defaults, applied when neither a flag nor the profile sets a
// value. The port is the one the original mbeat deployments agreed on.
const (
	DefaultPort     = 22999
	DefaultCount    = 5
	DefaultInterval = time.Second
	DefaultTTL      = 1
)

// Common is the profile block shared by both tools.
type Common struct {
	Port      int
	Endpoints []string
	LogLevel  string `toml:"log-level"`
	LogJSON   bool   `toml:"log-json"`
	FailFast  bool   `toml:"fail-fast"`
}

// Publish is the publisher's profile block.
type Publish struct {
	Count      uint64
	Interval   string
	TTL        int
	Loop       bool
	BufferSize int `toml:"buffer-size"`
	Key        uint64
	SeqStart   uint64 `toml:"seq-start"`
}

// Subscribe is the subscriber's profile block.
type Subscribe struct {
	BufferSize int `toml:"buffer-size"`
	Key        uint64
	Offset     uint64
	Raw        bool
	Unbuffered bool
	Expect     uint64
	Timeout    string
}

// Profile is one TOML profile file. Durations are strings in the usual Go
// notation, "250ms" or "1s".
type Profile struct {
	Common    Common
	Publish   Publish
	Subscribe Subscribe
}

// Load reads a profile file. An empty path yields an all-zero Profile, so
// running without one falls through to flags and built-in defaults.
func Load(path string) (Profile, error) {
	var p Profile
	if path == "" {
		return p, nil
	}

	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return p, nil
}

// Merge resolves one setting: the flag when set, else the profile when set,
// else the built-in default. "Set" means anything but the zero value, which
// is what every flag here defaults to.
func Merge[T comparable](flag, profile, def T) T {
	var zero T
	if flag != zero {
		return flag
	}
	if profile != zero {
		return profile
	}
	return def
}

// MergeBool resolves a switch that either side may turn on.
func MergeBool(flag, profile bool) bool {
	return flag || profile
}

// MergeStrings resolves a list setting. A non-empty flag list replaces the
// profile list entirely.
func MergeStrings(flag, profile []string) []string {
	if len(flag) > 0 {
		return flag
	}
	return profile
}

// MergeUint resolves an unsigned setting whose flag arrives as a string, so
// an explicit zero on the command line stays distinguishable from an unset
// flag. The name only labels parse errors.
func MergeUint(flag string, profile, def uint64, name string) (uint64, error) {
	if flag != "" {
		v, err := strconv.ParseUint(flag, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %s %q: %w", name, flag, err)
		}
		return v, nil
	}

	if profile != 0 {
		return profile, nil
	}
	return def, nil
}

// MergeDuration resolves a duration given as a string on either side.
func MergeDuration(flag, profile string, def time.Duration) (time.Duration, error) {
	for _, s := range []string{flag, profile} {
		if s == "" {
			continue
		}

		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("parsing duration %q: %w", s, err)
		}
		return d, nil
	}

	return def, nil
}
