// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusFanOut(t *testing.T) {
	bus := newEventBus(8)
	a := bus.Subscribe(4)
	b := bus.Subscribe(4)
	bus.Start()
	defer bus.Close()

	bus.Publish(newEvent(EventParticipantDiscovered, GuidPrefix{1}, "", GUID{}))

	for _, ch := range []<-chan *Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventParticipantDiscovered, ev.Type)
		case <-time.After(time.Second):
			t.Fatal("listener did not receive published event")
		}
	}
}

func TestEventBusPublishBeforeStartDoesNotBlock(t *testing.T) {
	bus := newEventBus(1)
	bus.Publish(newEvent(EventParticipantLost, GuidPrefix{1}, "", GUID{}))
	bus.Publish(newEvent(EventParticipantLost, GuidPrefix{2}, "", GUID{}))
	// buffered channel of size 1: the second Publish must not block
	// even though nothing has drained the first yet.
}

func TestEventBusCloseWithoutStartDoesNotHang(t *testing.T) {
	bus := newEventBus(1)
	done := make(chan struct{})
	go func() {
		bus.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close hung on a bus that was never Start()ed")
	}
}

func TestEventBusCloseStopsDistributionLoop(t *testing.T) {
	bus := newEventBus(8)
	listener := bus.Subscribe(4)
	bus.Start()

	closed := make(chan struct{})
	go func() {
		bus.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close did not return once the distribution loop exited")
	}

	_, ok := <-listener
	require.False(t, ok, "listener channels are closed once the bus shuts down")
}

func TestEventBusDropsFullListenerInsteadOfBlocking(t *testing.T) {
	bus := newEventBus(8)
	slow := bus.Subscribe(1)
	bus.Start()
	defer bus.Close()

	bus.Publish(newEvent(EventEndpointMatched, GuidPrefix{}, "t1", GUID{}))
	bus.Publish(newEvent(EventEndpointMatched, GuidPrefix{}, "t2", GUID{}))

	select {
	case <-slow:
	case <-time.After(time.Second):
		t.Fatal("expected at least the first event to be delivered")
	}
}
