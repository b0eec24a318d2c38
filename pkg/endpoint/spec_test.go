// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"errors"
	"net"
	"reflect"
	"strings"
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		arg   string
		valid bool
		spec  Spec
	}{
		{"eth0=239.1.2.3", true, Spec{Iface: "eth0", Group: net.IP{239, 1, 2, 3}}},
		{"em0=224.0.0.251", true, Spec{Iface: "em0", Group: net.IP{224, 0, 0, 251}}},
		{"239.1.2.3", true, Spec{Iface: "", Group: net.IP{239, 1, 2, 3}}},
		{"", false, Spec{}},
		{"eth0=", false, Spec{}},
		{"=239.1.2.3", false, Spec{}},
		{"eth0=10.1.2.3", false, Spec{}},
		{"eth0=223.255.255.255", false, Spec{}},
		{"eth0=240.0.0.0", false, Spec{}},
		{"eth0=239.1.2", false, Spec{}},
		{"eth0=2001:db8::1", false, Spec{}},
		{strings.Repeat("i", 17) + "=239.1.2.3", false, Spec{}},
	}

	for _, test := range tests {
		spec, err := ParseSpec(test.arg)
		if (err == nil) != test.valid {
			t.Fatalf("%q: error state was not expected; valid := %t, got := %v", test.arg, test.valid, err)
		}
		if test.valid && !reflect.DeepEqual(test.spec, spec) {
			t.Fatalf("%q: spec does not match, expected %v and got %v", test.arg, test.spec, spec)
		}
	}
}

func TestParseSpecs(t *testing.T) {
	if _, err := ParseSpecs(nil); err == nil {
		t.Fatal("Expected an error for an empty endpoint list")
	}

	args := make([]string, MaxEndpoints+1)
	for i := range args {
		args[i] = "239.0.0.1"
	}
	if _, err := ParseSpecs(args); err == nil {
		t.Fatalf("Expected an error for more than %d endpoints", MaxEndpoints)
	}

	specs, err := ParseSpecs([]string{"239.0.0.1", "239.0.0.2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 2 || !specs[0].Group.Equal(net.IP{239, 0, 0, 1}) || !specs[1].Group.Equal(net.IP{239, 0, 0, 2}) {
		t.Fatalf("Specs do not preserve argument order: %v", specs)
	}
}

func TestBuildBounds(t *testing.T) {
	if _, err := Build(nil, 22999); err == nil {
		t.Fatal("Expected an error for an empty spec list")
	}

	specs := make([]Spec, MaxEndpoints+1)
	for i := range specs {
		specs[i] = Spec{Group: net.IP{239, 0, 0, 1}}
	}
	if _, err := Build(specs, 22999); err == nil {
		t.Fatalf("Expected an error for more than %d endpoints", MaxEndpoints)
	}

	for _, port := range []int{-1, 0, 65536} {
		if _, err := Build(specs[:1], port); err == nil {
			t.Fatalf("Expected an error for port %d", port)
		}
	}
}

func TestBuildDuplicate(t *testing.T) {
	specs := []Spec{
		{Group: net.IP{239, 9, 9, 9}},
		{Group: net.IP{239, 9, 9, 9}},
	}

	_, err := Build(specs, 22999)
	if errors.Is(err, ErrInterfaceNotFound) {
		t.Skipf("No multicast-capable interface: %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("Expected a duplicate endpoint error, got %v", err)
	}
}

func TestBuildOrder(t *testing.T) {
	specs := []Spec{
		{Group: net.IP{239, 9, 0, 1}},
		{Group: net.IP{239, 9, 0, 2}},
		{Group: net.IP{239, 9, 0, 3}},
	}

	eps, err := Build(specs, 22999)
	if errors.Is(err, ErrInterfaceNotFound) {
		t.Skipf("No multicast-capable interface: %v", err)
	}
	if err != nil {
		t.Fatal(err)
	}

	for i, ep := range eps {
		if !ep.Group.Equal(specs[i].Group) {
			t.Fatalf("Endpoint %d does not preserve spec order: %v", i, ep)
		}
		if ep.Sock != -1 {
			t.Fatalf("Endpoint %d socket should start unbound: %v", i, ep.Sock)
		}
		if ep.Port != 22999 {
			t.Fatalf("Endpoint %d port mismatch: %d", i, ep.Port)
		}
	}
}
