// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

import (
	"encoding/binary"
	"fmt"
	"net"
)

// LocatorKind identifies the transport a Locator addresses.
type LocatorKind int32

const (
	LocatorKindInvalid LocatorKind = -1
	LocatorKindUDPv4    LocatorKind = 1
	LocatorKindUDPv6    LocatorKind = 2
)

// Locator is a (kind, port, address) triple identifying a transport
// endpoint (spec.md §3). The wire layout is fixed by spec.md §6:
// kind int32, port uint32, address 16 bytes, little-endian.
type Locator struct {
	Kind LocatorKind
	Port uint32
	// Addr always holds a 16-byte representation; for UDPv4 this is
	// the IPv4-in-IPv6 form, matching net.IP's internal convention.
	Addr net.IP
}

// NewUDPv4Locator builds a UDPv4 locator from a dotted-quad/hostname
// IP and a port.
func NewUDPv4Locator(ip net.IP, port uint32) Locator {
	return Locator{Kind: LocatorKindUDPv4, Port: port, Addr: ip.To16()}
}

// IsValid reports whether the locator has a recognised kind and
// non-zero port, per the is_valid() contract referenced by
// EndpointAttributes validation (spec.md §7, InvalidLocator).
func (l Locator) IsValid() bool {
	switch l.Kind {
	case LocatorKindUDPv4, LocatorKindUDPv6:
	default:
		return false
	}
	return l.Port != 0
}

// Equal compares kind, port and address.
func (l Locator) Equal(other Locator) bool {
	return l.Kind == other.Kind && l.Port == other.Port && l.Addr.Equal(other.Addr)
}

// Bytes renders the locator in its wire form (spec.md §6).
func (l Locator) Bytes() []byte {
	buf := make([]byte, 4+4+16)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(l.Kind))
	binary.LittleEndian.PutUint32(buf[4:8], l.Port)
	addr := l.Addr.To16()
	copy(buf[8:], addr)
	return buf
}

// LocatorFromBytes parses the wire form produced by Bytes.
func LocatorFromBytes(b []byte) (Locator, error) {
	if len(b) < 4+4+16 {
		return Locator{}, fmt.Errorf("rtps: short locator buffer (%d bytes)", len(b))
	}
	addr := make(net.IP, 16)
	copy(addr, b[8:24])
	return Locator{
		Kind: LocatorKind(int32(binary.LittleEndian.Uint32(b[0:4]))),
		Port: binary.LittleEndian.Uint32(b[4:8]),
		Addr: addr,
	}, nil
}

// UDPAddr returns the net.UDPAddr this locator addresses, for use by
// the transport package's NetworkFactory.
func (l Locator) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: l.Addr, Port: int(l.Port)}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s:%d", l.Addr, l.Port)
}

// LocatorList is an ordered sequence of locators. Order is only
// observable for selection-ties (spec.md §3).
type LocatorList []Locator

// Contains reports whether loc appears in the list.
func (ll LocatorList) Contains(loc Locator) bool {
	for _, l := range ll {
		if l.Equal(loc) {
			return true
		}
	}
	return false
}

// IsValid reports whether every locator in the list is valid.
func (ll LocatorList) IsValid() bool {
	for _, l := range ll {
		if !l.IsValid() {
			return false
		}
	}
	return true
}

func (ll LocatorList) String() string {
	s := "["
	for i, l := range ll {
		if i > 0 {
			s += ", "
		}
		s += l.String()
	}
	return s + "]"
}

// AdaptLocator applies the deterministic mutation used when the
// network factory cannot bind the requested locator (spec.md §4.3,
// §9). For UDPv4 it increments the port by 10, matching the original
// source's "completely made up rule". UDPv6 adaptation is left
// unspecified (spec.md §9 open question): the locator is returned
// unchanged, and the participant's bind loop surfaces
// ReceiverBindFailed on the first failed UDPv6 bind without retrying.
func AdaptLocator(loc Locator) Locator {
	switch loc.Kind {
	case LocatorKindUDPv4:
		loc.Port += 10
	case LocatorKindUDPv6:
		// todo: UDPv6 adaptation rule is undefined upstream.
	}
	return loc
}
