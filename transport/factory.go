// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"net"
	"sync"

	"github.com/go-rtps/participant/rtpstypes"
)

// NetworkFactory builds receiver and sender resources for locators,
// the collaborator named in spec.md §1/§4.3. Callers hold no
// expectation of success: BuildReceiverResources returns zero
// resources (not an error) when the locator cannot be bound, which is
// what drives the port-adaptation retry loop in the participant core.
//
// Grounded on core_socket.go's Listen/Dial, adapted from ZMTP TCP
// streams to RTPS UDP datagrams. A dedup set keyed by (kind,
// bind-address) avoids multiplying sockets across endpoints that
// share an outbound locator (spec.md §9 "sender pool growth").
type NetworkFactory struct {
	mu      sync.Mutex
	senders map[senderKey]*udpSenderResource

	readBufferSize int
}

type senderKey struct {
	kind rtpstypes.LocatorKind
	addr string
}

// NewNetworkFactory builds an empty factory.
func NewNetworkFactory() *NetworkFactory {
	return &NetworkFactory{senders: make(map[senderKey]*udpSenderResource)}
}

// BuildReceiverResources attempts to bind loc for inbound traffic. It
// returns an empty slice, not an error, when the bind fails (e.g. the
// port is already in use) — the participant core's adaptation rule
// decides what to do next.
func (f *NetworkFactory) BuildReceiverResources(loc rtpstypes.Locator) []ReceiverResource {
	switch loc.Kind {
	case rtpstypes.LocatorKindUDPv4, rtpstypes.LocatorKindUDPv6:
	default:
		return nil
	}

	network := "udp4"
	if loc.Kind == rtpstypes.LocatorKindUDPv6 {
		network = "udp6"
	}

	conn, err := net.ListenUDP(network, loc.UDPAddr())
	if err != nil {
		return nil
	}
	if f.readBufferSize > 0 {
		_ = conn.SetReadBuffer(f.readBufferSize)
	}
	return []ReceiverResource{newUDPReceiverResource(loc, conn)}
}

// BuildSenderResources builds (or reuses) the sender resource keyed by
// loc. The socket is bound to an ephemeral port on all interfaces, not
// to loc's address; loc only identifies the resource (see Supports).
func (f *NetworkFactory) BuildSenderResources(loc rtpstypes.Locator) []SenderResource {
	switch loc.Kind {
	case rtpstypes.LocatorKindUDPv4, rtpstypes.LocatorKindUDPv6:
	default:
		return nil
	}

	key := senderKey{kind: loc.Kind, addr: fmt.Sprintf("%s:%d", loc.Addr, loc.Port)}

	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.senders[key]; ok {
		return []SenderResource{existing}
	}

	network := "udp4"
	if loc.Kind == rtpstypes.LocatorKindUDPv6 {
		network = "udp6"
	}
	conn, err := net.ListenUDP(network, &net.UDPAddr{})
	if err != nil {
		return nil
	}
	sr := newUDPSenderResource(loc, conn)
	f.senders[key] = sr
	return []SenderResource{sr}
}
