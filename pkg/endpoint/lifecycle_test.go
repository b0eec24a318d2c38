// SPDX-FileCopyrightText: 2025 The mbeat-go authors
//
// SPDX-License-Identifier: BSD-2-Clause

package endpoint

import (
	"net"
	"testing"

	"golang.org/x/sys/unix"
)

// testEndpoint resolves a local endpoint on the default interface, skipping
// the test when the environment offers no multicast-capable interface.
func testEndpoint(t *testing.T, group net.IP, port int) *Endpoint {
	t.Helper()

	name, addr, err := resolveInterface("")
	if err != nil {
		t.Skipf("No multicast-capable interface: %v", err)
	}

	return &Endpoint{Name: name, Addr: addr, Group: group, Port: port, Sock: -1}
}

func TestListenSubscriber(t *testing.T) {
	ep := testEndpoint(t, net.IP{239, 255, 42, 42}, 0)

	if err := ep.ListenSubscriber(0); err != nil {
		t.Skipf("Multicast bind/join unavailable: %v", err)
	}
	if ep.Sock < 0 {
		t.Fatal("Subscriber socket is not open")
	}

	if err := ep.Close(); err != nil {
		t.Fatal(err)
	}
	if ep.Sock != -1 {
		t.Fatal("Close did not reset the socket")
	}
	if err := ep.Close(); err != nil {
		t.Fatalf("Double close should be a no-op, got %v", err)
	}
}

func TestListenSubscriberBuffer(t *testing.T) {
	ep := testEndpoint(t, net.IP{239, 255, 42, 43}, 0)

	const rcvbuf = 65536
	if err := ep.ListenSubscriber(rcvbuf); err != nil {
		t.Skipf("Multicast bind/join unavailable: %v", err)
	}
	defer ep.Close()

	// Linux doubles the requested value; either way the effective buffer
	// must not fall below the request.
	got, err := unix.GetsockoptInt(ep.Sock, unix.SOL_SOCKET, unix.SO_RCVBUF)
	if err != nil {
		t.Fatal(err)
	}
	if got < rcvbuf {
		t.Fatalf("Receive buffer is %d, requested %d", got, rcvbuf)
	}
}

func TestCloseAll(t *testing.T) {
	ep1 := testEndpoint(t, net.IP{239, 255, 42, 44}, 0)
	ep2 := testEndpoint(t, net.IP{239, 255, 42, 45}, 0)

	if err := ep1.ListenSubscriber(0); err != nil {
		t.Skipf("Multicast bind/join unavailable: %v", err)
	}
	if err := ep2.ListenSubscriber(0); err != nil {
		ep1.Close()
		t.Skipf("Multicast bind/join unavailable: %v", err)
	}

	if err := CloseAll([]*Endpoint{ep1, ep2}); err != nil {
		t.Fatal(err)
	}
	if ep1.Sock != -1 || ep2.Sock != -1 {
		t.Fatal("CloseAll left a socket open")
	}
}

func TestDialPublisher(t *testing.T) {
	ep := testEndpoint(t, net.IP{239, 255, 42, 46}, 22999)

	pc, err := ep.DialPublisher(PubOptions{TTL: 1, Loop: true})
	if err != nil {
		t.Skipf("Publisher socket unavailable: %v", err)
	}

	if err := pc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := pc.Close(); err != nil {
		t.Fatalf("Double close should be a no-op, got %v", err)
	}
}
