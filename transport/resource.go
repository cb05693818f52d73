// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport implements the NetworkFactory / ReceiverResource /
// SenderResource collaborators spec.md §1 lists as out-of-scope but
// consumed by the participant core. It is a concrete UDP
// implementation, grounded on the teacher's core_socket.go
// Listen/Dial/accept lifecycle, adapted from ZMTP streams to RTPS
// datagrams.
package transport

import (
	"errors"

	"github.com/go-rtps/participant/rtpstypes"
)

// ErrClosed is returned by a blocked Receive when the resource is
// closed out from under it; the participant core's listener loop
// (receiver.go) treats this as an exit condition and does not surface
// it (spec.md §5, §7 ResourceClosed).
var ErrClosed = errors.New("transport: resource closed")

// ReceiverResource performs blocking receives on behalf of one bound
// locator. Close unblocks any in-flight Receive with ErrClosed.
type ReceiverResource interface {
	// Receive blocks until a datagram arrives, writing it into buf and
	// returning the number of bytes read plus the locator it arrived
	// from. A closed resource returns ErrClosed.
	Receive(buf []byte) (n int, from rtpstypes.Locator, err error)
	// Supports reports whether this resource services loc.
	Supports(loc rtpstypes.Locator) bool
	// Locator returns the locator this resource is bound to.
	Locator() rtpstypes.Locator
	Close() error
}

// SenderResource performs blocking sends toward destinations reachable
// through one bound local interface.
type SenderResource interface {
	// Send transmits buf toward dest. Bounded by the OS socket
	// (spec.md §5); fire-and-forget at this layer.
	Send(buf []byte, dest rtpstypes.Locator) error
	// Supports reports whether this resource can send out of loc (the
	// endpoint's outLocatorList entry it was built from).
	Supports(loc rtpstypes.Locator) bool
	Close() error
}
