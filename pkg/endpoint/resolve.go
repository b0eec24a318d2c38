// SPDX-FileCopyrightText: 2024, 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"errors"
	"fmt"
	"net"
)

// Interface resolution errors, matched with errors.Is.
var (
	ErrInterfaceNotFound   = errors.New("interface not found")
	ErrInterfaceUnsuitable = errors.New("interface unsuitable")
)

// resolveInterface maps an interface name onto its name and IPv4 address.
// A named interface must exist with an IPv4 address, be up, and support
// multicast, checked in that order. An empty name selects the first
// IPv4-capable, non-loopback interface that is up and multicast-capable.
func resolveInterface(name string) (string, net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", nil, fmt.Errorf("listing interfaces: %w", err)
	}

	if name == "" {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 {
				continue
			}
			if addr := ipv4Addr(iface); addr != nil {
				return iface.Name, addr, nil
			}
		}
		return "", nil, fmt.Errorf("%w: no IPv4-capable multicast interface is up", ErrInterfaceNotFound)
	}

	for _, iface := range ifaces {
		if iface.Name != name {
			continue
		}

		addr := ipv4Addr(iface)
		if addr == nil {
			break
		}

		if iface.Flags&net.FlagUp == 0 {
			return "", nil, fmt.Errorf("%w: %q is not up", ErrInterfaceUnsuitable, name)
		}
		if iface.Flags&net.FlagMulticast == 0 {
			return "", nil, fmt.Errorf("%w: %q is not available for multicast traffic", ErrInterfaceUnsuitable, name)
		}

		return iface.Name, addr, nil
	}

	return "", nil, fmt.Errorf("%w: %q with an IPv4 address", ErrInterfaceNotFound, name)
}

// ipv4Addr returns the first IPv4 address assigned to the interface, or nil.
func ipv4Addr(iface net.Interface) net.IP {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}

	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		}

		if ip4 := ip.To4(); ip4 != nil {
			return ip4
		}
	}

	return nil
}
