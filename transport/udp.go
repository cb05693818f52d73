// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"net"
	"sync"

	"github.com/go-rtps/participant/rtpstypes"
)

// udpReceiverResource binds one net.UDPConn for inbound datagrams.
// Grounded on core_socket.go's accept-loop lifecycle (Listen/Close),
// adapted from a TCP listener accepting connections to a UDP socket
// accepting datagrams.
type udpReceiverResource struct {
	loc rtpstypes.Locator

	mu     sync.Mutex
	conn   *net.UDPConn
	closed bool
}

func newUDPReceiverResource(loc rtpstypes.Locator, conn *net.UDPConn) *udpReceiverResource {
	return &udpReceiverResource{loc: loc, conn: conn}
}

func (r *udpReceiverResource) Receive(buf []byte) (int, rtpstypes.Locator, error) {
	n, addr, err := r.conn.ReadFromUDP(buf)
	if err != nil {
		r.mu.Lock()
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return 0, rtpstypes.Locator{}, ErrClosed
		}
		return 0, rtpstypes.Locator{}, err
	}
	from := rtpstypes.NewUDPv4Locator(addr.IP, uint32(addr.Port))
	return n, from, nil
}

func (r *udpReceiverResource) Supports(loc rtpstypes.Locator) bool {
	return r.loc.Kind == loc.Kind && r.loc.Port == loc.Port
}

func (r *udpReceiverResource) Locator() rtpstypes.Locator { return r.loc }

func (r *udpReceiverResource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.conn.Close()
}

// udpSenderResource holds one net.UDPConn used to transmit toward any
// destination. bindLoc is the out locator it was built for and is what
// Supports matches against (kind and port); the socket itself is not
// bound to bindLoc's address.
type udpSenderResource struct {
	bindLoc rtpstypes.Locator

	mu   sync.Mutex
	conn *net.UDPConn
}

func newUDPSenderResource(bindLoc rtpstypes.Locator, conn *net.UDPConn) *udpSenderResource {
	return &udpSenderResource{bindLoc: bindLoc, conn: conn}
}

func (s *udpSenderResource) Send(buf []byte, dest rtpstypes.Locator) error {
	_, err := s.conn.WriteToUDP(buf, dest.UDPAddr())
	return err
}

func (s *udpSenderResource) Supports(loc rtpstypes.Locator) bool {
	return s.bindLoc.Kind == loc.Kind && s.bindLoc.Port == loc.Port
}

func (s *udpSenderResource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

var (
	_ ReceiverResource = (*udpReceiverResource)(nil)
	_ SenderResource    = (*udpSenderResource)(nil)
)
