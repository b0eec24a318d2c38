// SPDX-FileCopyrightText: 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"errors"
	"net"
	"testing"
)

func TestResolveInterfaceMissing(t *testing.T) {
	_, _, err := resolveInterface("mbeat-missing0")
	if !errors.Is(err, ErrInterfaceNotFound) {
		t.Fatalf("Expected ErrInterfaceNotFound, got %v", err)
	}
}

func TestResolveInterfaceAuto(t *testing.T) {
	name, addr, err := resolveInterface("")
	if errors.Is(err, ErrInterfaceNotFound) {
		t.Skipf("No multicast-capable interface: %v", err)
	}
	if err != nil {
		t.Fatal(err)
	}

	if name == "" || addr.To4() == nil {
		t.Fatalf("Auto-selection returned %q / %v", name, addr)
	}

	iface, err := net.InterfaceByName(name)
	if err != nil {
		t.Fatal(err)
	}
	if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 {
		t.Fatalf("Auto-selected interface %q is not up and multicast-capable", name)
	}
	if iface.Flags&net.FlagLoopback != 0 {
		t.Fatalf("Auto-selection picked the loopback interface %q", name)
	}
}

func TestResolveInterfaceNamed(t *testing.T) {
	name, addr, err := resolveInterface("")
	if err != nil {
		t.Skipf("No multicast-capable interface: %v", err)
	}

	name2, addr2, err := resolveInterface(name)
	if err != nil {
		t.Fatal(err)
	}
	if name2 != name || !addr2.Equal(addr) {
		t.Fatalf("Named resolution differs from auto: %q/%v vs %q/%v", name2, addr2, name, addr)
	}
}
