// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProxyTableObserveFirstSightingPublishesDiscovered(t *testing.T) {
	bus := newEventBus(8)
	listener := bus.Subscribe(4)
	bus.Start()
	defer bus.Close()

	table := newProxyTable(time.Minute, bus)
	prefix := GuidPrefix{1, 2, 3}

	table.observe(prefix, "peer-1", nil, nil)
	assert.True(t, table.has(prefix))
	assert.Equal(t, 1, table.count())

	select {
	case ev := <-listener:
		assert.Equal(t, EventParticipantDiscovered, ev.Type)
		assert.Equal(t, prefix, ev.GuidPrefix)
	case <-time.After(time.Second):
		t.Fatal("expected a ParticipantDiscovered event on first sighting")
	}

	// A second observation of the same prefix only refreshes lastSeen,
	// it does not publish again.
	table.observe(prefix, "peer-1", nil, nil)
	select {
	case ev := <-listener:
		t.Fatalf("unexpected second event: %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProxyTableSweepExpiresStaleEntries(t *testing.T) {
	bus := newEventBus(8)
	listener := bus.Subscribe(4)
	bus.Start()
	defer bus.Close()

	table := newProxyTable(10*time.Millisecond, bus)
	prefix := GuidPrefix{9}
	table.observe(prefix, "", nil, nil)

	<-listener // drain the discovered event

	time.Sleep(30 * time.Millisecond)
	table.sweep()

	assert.False(t, table.has(prefix))
	select {
	case ev := <-listener:
		assert.Equal(t, EventParticipantLost, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a ParticipantLost event after expiration")
	}
}

func TestProxyTableAssertLivelinessRefreshesLastSeen(t *testing.T) {
	table := newProxyTable(10*time.Millisecond, nil)
	prefix := GuidPrefix{4}
	table.observe(prefix, "", nil, nil)

	time.Sleep(5 * time.Millisecond)
	table.assertLiveliness(prefix)
	table.sweep()

	assert.True(t, table.has(prefix), "asserted liveliness should have refreshed lastSeen before the sweep")
}

func TestProxyTableAssertLivelinessOnUnknownPrefixIsNoOp(t *testing.T) {
	table := newProxyTable(time.Minute, nil)
	table.assertLiveliness(GuidPrefix{99})
	assert.Equal(t, 0, table.count())
}
