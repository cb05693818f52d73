// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rtps/participant/transport"
)

func newTestBinder() (*locatorBinder, *[]*receiverControlBlock) {
	blocks := make([]*receiverControlBlock, 0)
	attrs := &ParticipantAttributes{
		DefaultUnicastLocatorList:   LocatorList{NewUDPv4Locator(net.IPv4zero, 7400)},
		DefaultMulticastLocatorList: LocatorList{NewUDPv4Locator(net.IPv4(239, 255, 0, 1), 7401)},
		ListenSocketBufferSize:      4096,
	}
	lb := &locatorBinder{
		attrs:   attrs,
		factory: transport.NewNetworkFactory(),
		blocks:  &blocks,
		log:     DevNullLogger,
	}
	return lb, &blocks
}

// TestLocatorBinderSubstitutesDefaultsOnlyWhenBothFamiliesEmpty pins
// down SPEC_FULL.md D.4's resolution of spec.md §9's open question:
// the participant's defaults are substituted only when BOTH the
// unicast and multicast lists are empty, never per-family.
func TestLocatorBinderSubstitutesDefaultsOnlyWhenBothFamiliesEmpty(t *testing.T) {
	lb, _ := newTestBinder()

	w := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	lb.bind(w, false, true)

	assert.Equal(t, lb.attrs.DefaultUnicastLocatorList, w.Attributes().UnicastLocatorList)
	assert.Equal(t, lb.attrs.DefaultMulticastLocatorList, w.Attributes().MulticastLocatorList)
}

func TestLocatorBinderDoesNotSubstituteWhenOneFamilyIsSet(t *testing.T) {
	lb, _ := newTestBinder()

	w := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	explicit := LocatorList{NewUDPv4Locator(net.IPv4(10, 0, 0, 5), 9000)}
	w.Attributes().UnicastLocatorList = explicit

	lb.bind(w, false, true)

	assert.Equal(t, explicit, w.Attributes().UnicastLocatorList)
	assert.Empty(t, w.Attributes().MulticastLocatorList)
}

func TestLocatorBinderCreatesAndReusesBlocks(t *testing.T) {
	lb, blocks := newTestBinder()

	w1 := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	w1.Attributes().UnicastLocatorList = LocatorList{NewUDPv4Locator(net.IPv4zero, 0)}
	lb.bind(w1, true, true)
	require.Len(t, *blocks, 1)

	loc := (*blocks)[0].resource.Locator()

	w2 := newTestWriter(EntityID{0x02, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	w2.Attributes().UnicastLocatorList = LocatorList{loc}
	lb.bind(w2, true, true)

	require.Len(t, *blocks, 1, "an endpoint sharing an existing block's locator must not create a new one")
	writers, _ := (*blocks)[0].snapshot()
	assert.Len(t, writers, 2)
}

func TestLocatorBinderAllowCreateFalseSkipsUnmatchedLocators(t *testing.T) {
	lb, blocks := newTestBinder()

	w := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	w.Attributes().UnicastLocatorList = LocatorList{NewUDPv4Locator(net.IPv4zero, 0)}
	lb.bind(w, true, false)

	assert.Empty(t, *blocks)
}
