// SPDX-FileCopyrightText: 2024 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"fmt"
	"net"
	"strings"

	"github.com/mbeat-io/mbeat-go/pkg/beat"
)

// MaxEndpoints bounds the endpoint list. The limit mirrors what a single
// event queue registration pass handles comfortably; more endpoints on one
// host is a configuration mistake.
const MaxEndpoints = 2048

// Spec is one unresolved endpoint argument: an optional interface name and a
// multicast group address.
type Spec struct {
	Iface string
	Group net.IP
}

// ParseSpec parses an endpoint argument of the form "iface=group" or plain
// "group". When the interface name is omitted, a suitable one is selected
// during resolution. The group must be an IPv4 address within the multicast
// range.
func ParseSpec(arg string) (Spec, error) {
	iface, group, found := strings.Cut(arg, "=")
	if !found {
		iface, group = "", arg
	} else if iface == "" {
		return Spec{}, fmt.Errorf("endpoint %q has an empty interface name", arg)
	}

	if len(iface) > beat.IfaceLen {
		return Spec{}, fmt.Errorf("endpoint %q interface name exceeds %d bytes", arg, beat.IfaceLen)
	}

	ip := net.ParseIP(group)
	if ip == nil || ip.To4() == nil {
		return Spec{}, fmt.Errorf("endpoint %q group is not an IPv4 address", arg)
	}
	if !ip.IsMulticast() {
		return Spec{}, fmt.Errorf("endpoint %q group %s is outside the multicast range", arg, group)
	}

	return Spec{Iface: iface, Group: ip.To4()}, nil
}

// ParseSpecs parses all endpoint arguments, enforcing the list bounds.
func ParseSpecs(args []string) ([]Spec, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one endpoint")
	}
	if len(args) > MaxEndpoints {
		return nil, fmt.Errorf("too many endpoints, maximum is %d", MaxEndpoints)
	}

	specs := make([]Spec, 0, len(args))
	for _, arg := range args {
		spec, err := ParseSpec(arg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// Endpoint is one resolved (interface, multicast group, port) tuple together
// with its subscriber socket. Sock is -1 until ListenSubscriber succeeds and
// again after Close.
type Endpoint struct {
	Name  string
	Addr  net.IP
	Group net.IP
	Port  int
	Sock  int
}

func (ep *Endpoint) String() string {
	return fmt.Sprintf("%s=%s:%d", ep.Name, ep.Group, ep.Port)
}

// Build resolves every spec into an Endpoint, preserving argument order.
// Resolved (interface, group) pairs must be unique; two endpoints sharing a
// pair would fight over one multicast membership.
func Build(specs []Spec, port int) ([]*Endpoint, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("expected at least one endpoint")
	}
	if len(specs) > MaxEndpoints {
		return nil, fmt.Errorf("too many endpoints, maximum is %d", MaxEndpoints)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("port %d is outside the valid range", port)
	}

	seen := make(map[string]bool)
	eps := make([]*Endpoint, 0, len(specs))

	for _, spec := range specs {
		name, addr, err := resolveInterface(spec.Iface)
		if err != nil {
			return nil, err
		}

		pair := name + "=" + spec.Group.String()
		if seen[pair] {
			return nil, fmt.Errorf("duplicate endpoint %s", pair)
		}
		seen[pair] = true

		eps = append(eps, &Endpoint{
			Name:  name,
			Addr:  addr,
			Group: spec.Group,
			Port:  port,
			Sock:  -1,
		})
	}

	return eps, nil
}
