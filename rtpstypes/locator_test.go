// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorIsValid(t *testing.T) {
	assert.True(t, NewUDPv4Locator(net.IPv4(127, 0, 0, 1), 7400).IsValid())
	assert.False(t, NewUDPv4Locator(net.IPv4(127, 0, 0, 1), 0).IsValid(), "zero port is invalid")
	assert.False(t, Locator{Kind: LocatorKindInvalid, Port: 7400}.IsValid())
}

func TestLocatorListIsValid(t *testing.T) {
	valid := LocatorList{NewUDPv4Locator(net.IPv4zero, 7400), NewUDPv4Locator(net.IPv4zero, 7401)}
	assert.True(t, valid.IsValid())

	withInvalid := append(valid, Locator{Kind: LocatorKindUDPv4, Port: 0})
	assert.False(t, withInvalid.IsValid())

	assert.True(t, LocatorList(nil).IsValid(), "empty list is trivially valid")
}

func TestLocatorListContains(t *testing.T) {
	loc := NewUDPv4Locator(net.IPv4(192, 168, 1, 1), 7410)
	ll := LocatorList{NewUDPv4Locator(net.IPv4zero, 7400), loc}

	assert.True(t, ll.Contains(loc))
	assert.True(t, ll.Contains(NewUDPv4Locator(net.IPv4(192, 168, 1, 1), 7410)), "equality is structural, not pointer identity")
	assert.False(t, ll.Contains(NewUDPv4Locator(net.IPv4(192, 168, 1, 2), 7410)))
}

// TestLocatorWireRoundTrip pins down spec.md §6's wire layout: kind
// int32, port uint32, address 16 bytes, little-endian.
func TestLocatorWireRoundTrip(t *testing.T) {
	loc := NewUDPv4Locator(net.IPv4(10, 0, 0, 1), 7411)

	buf := loc.Bytes()
	require.Len(t, buf, 24)

	got, err := LocatorFromBytes(buf)
	require.NoError(t, err)
	assert.True(t, loc.Equal(got))
}

func TestLocatorFromBytesShortBuffer(t *testing.T) {
	_, err := LocatorFromBytes(make([]byte, 10))
	assert.Error(t, err)
}

func TestAdaptLocatorUDPv4IncrementsPort(t *testing.T) {
	loc := NewUDPv4Locator(net.IPv4zero, 7400)
	adapted := AdaptLocator(loc)
	assert.Equal(t, uint32(7410), adapted.Port)
	assert.Equal(t, loc.Kind, adapted.Kind)
}

// TestAdaptLocatorUDPv6IsNoOp documents the open question resolved in
// SPEC_FULL.md D.4: UDPv6 adaptation is left unspecified, so the
// locator comes back unchanged and the caller's retry loop exhausts.
func TestAdaptLocatorUDPv6IsNoOp(t *testing.T) {
	loc := Locator{Kind: LocatorKindUDPv6, Port: 7400, Addr: net.IPv6loopback}
	adapted := AdaptLocator(loc)
	assert.Equal(t, loc.Port, adapted.Port)
}

func TestLocatorUDPAddr(t *testing.T) {
	loc := NewUDPv4Locator(net.IPv4(127, 0, 0, 1), 9999)
	addr := loc.UDPAddr()
	require.NotNil(t, addr)
	assert.Equal(t, 9999, addr.Port)
	assert.True(t, addr.IP.Equal(net.IPv4(127, 0, 0, 1)))
}
