// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const testProfile = `
[common]
port = 23000
endpoints = ["eth0=239.192.0.1", "239.192.0.2"]
log-level = "debug"
log-json = true
fail-fast = true

[publish]
count = 10
interval = "250ms"
ttl = 8
loop = true
buffer-size = 131072
key = 77
seq-start = 100

[subscribe]
buffer-size = 262144
key = 77
offset = 5
raw = true
unbuffered = true
expect = 50
timeout = "30s"
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(testProfile), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("loading profile: %v", err)
	}

	want := Profile{
		Common: Common{
			Port:      23000,
			Endpoints: []string{"eth0=239.192.0.1", "239.192.0.2"},
			LogLevel:  "debug",
			LogJSON:   true,
			FailFast:  true,
		},
		Publish: Publish{
			Count:      10,
			Interval:   "250ms",
			TTL:        8,
			Loop:       true,
			BufferSize: 131072,
			Key:        77,
			SeqStart:   100,
		},
		Subscribe: Subscribe{
			BufferSize: 262144,
			Key:        77,
			Offset:     5,
			Raw:        true,
			Unbuffered: true,
			Expect:     50,
			Timeout:    "30s",
		},
	}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("loading the empty path: %v", err)
	}
	if !reflect.DeepEqual(p, Profile{}) {
		t.Fatalf("expected a zero profile, got %+v", p)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for a missing profile")
	}
}

func TestMerge(t *testing.T) {
	if got := Merge(5, 7, 9); got != 5 {
		t.Fatalf("expected the flag to win, got %d", got)
	}
	if got := Merge(0, 7, 9); got != 7 {
		t.Fatalf("expected the profile to win, got %d", got)
	}
	if got := Merge(0, 0, 9); got != 9 {
		t.Fatalf("expected the default, got %d", got)
	}
	if got := Merge("", "info", "warn"); got != "info" {
		t.Fatalf("expected the profile level, got %q", got)
	}
	if got := Merge(uint64(0), uint64(0), uint64(1)); got != 1 {
		t.Fatalf("expected the default key, got %d", got)
	}
}

func TestMergeBool(t *testing.T) {
	tests := []struct {
		flag, profile, want bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}

	for _, test := range tests {
		if got := MergeBool(test.flag, test.profile); got != test.want {
			t.Fatalf("MergeBool(%v, %v) = %v", test.flag, test.profile, got)
		}
	}
}

func TestMergeStrings(t *testing.T) {
	flag := []string{"eth0=239.0.0.1"}
	profile := []string{"eth1=239.0.0.2", "eth2=239.0.0.3"}

	if got := MergeStrings(flag, profile); !reflect.DeepEqual(got, flag) {
		t.Fatalf("expected the flag list, got %v", got)
	}
	if got := MergeStrings(nil, profile); !reflect.DeepEqual(got, profile) {
		t.Fatalf("expected the profile list, got %v", got)
	}
	if got := MergeStrings(nil, nil); got != nil {
		t.Fatalf("expected no endpoints, got %v", got)
	}
}

func TestMergeUint(t *testing.T) {
	if v, err := MergeUint("42", 7, 1, "key"); err != nil || v != 42 {
		t.Fatalf("expected the flag key 42, got %d (%v)", v, err)
	}
	if v, err := MergeUint("0", 7, 1, "key"); err != nil || v != 0 {
		t.Fatalf("expected the explicit zero to win, got %d (%v)", v, err)
	}
	if v, err := MergeUint("", 7, 1, "key"); err != nil || v != 7 {
		t.Fatalf("expected the profile key 7, got %d (%v)", v, err)
	}
	if v, err := MergeUint("", 0, 1, "key"); err != nil || v != 1 {
		t.Fatalf("expected the default key 1, got %d (%v)", v, err)
	}
	if _, err := MergeUint("abc", 0, 0, "key"); err == nil {
		t.Fatal("expected an error for an unparseable key")
	}
	if _, err := MergeUint("-3", 0, 0, "key"); err == nil {
		t.Fatal("expected an error for a negative key")
	}
}

func TestMergeDuration(t *testing.T) {
	if d, err := MergeDuration("2s", "1s", 0); err != nil || d != 2*time.Second {
		t.Fatalf("expected 2s, got %v (%v)", d, err)
	}
	if d, err := MergeDuration("", "250ms", 0); err != nil || d != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v (%v)", d, err)
	}
	if d, err := MergeDuration("", "", time.Second); err != nil || d != time.Second {
		t.Fatalf("expected the default second, got %v (%v)", d, err)
	}
	if _, err := MergeDuration("bogus", "", 0); err == nil {
		t.Fatal("expected an error for a bogus flag duration")
	}
	if _, err := MergeDuration("", "bogus", 0); err == nil {
		t.Fatal("expected an error for a bogus profile duration")
	}
}
