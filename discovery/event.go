// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package discovery supplies a minimal, real implementation of the
// BuiltinProtocols collaborator named as out-of-scope-but-consumed in
// spec.md §1: an SPDP-like announcement beacon, a remote-participant
// proxy table, a topic-name matching directory for SEDP-style
// publication/subscription pairing, and an event bus used to fan out
// discovery state transitions.
//
// Grounded on the teacher's Zyre peer-discovery overlay
// (zyre/beacon.go, zyre/peer.go, zyre/group.go, zyre/event.go), with
// UUID-keyed ZRE peers replaced by GuidPrefix-keyed RTPS participants.
package discovery

import (
	"time"
)

// EventType distinguishes the kinds of discovery transition published
// on the event bus.
type EventType string

const (
	EventParticipantDiscovered EventType = "PARTICIPANT_DISCOVERED"
	EventParticipantLost       EventType = "PARTICIPANT_LOST"
	EventEndpointMatched       EventType = "ENDPOINT_MATCHED"
	EventEndpointUnmatched     EventType = "ENDPOINT_UNMATCHED"
)

// Event is one discovery state transition.
type Event struct {
	Type          EventType
	GuidPrefix    GuidPrefix
	TopicName     string
	RemoteGUID    GUID
	Timestamp     time.Time
}

// eventBus fans out discovery events to subscribers over buffered
// channels, dropping on a full subscriber rather than blocking the
// publisher (zyre/event.go's EventChannel).
type eventBus struct {
	events    chan *Event
	listeners []chan *Event
	stop      chan struct{}
	done      chan struct{}
	started   bool
	closing   bool
}

func newEventBus(bufferSize int) *eventBus {
	return &eventBus{
		events: make(chan *Event, bufferSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe returns a channel receiving a copy of every future event.
func (b *eventBus) Subscribe(bufferSize int) <-chan *Event {
	listener := make(chan *Event, bufferSize)
	b.listeners = append(b.listeners, listener)
	return listener
}

// Publish enqueues an event for distribution; it never blocks.
func (b *eventBus) Publish(ev *Event) {
	if b.closing {
		return
	}
	select {
	case b.events <- ev:
	default:
	}
}

// Start begins the distribution loop in its own goroutine. stop is
// the sole exit signal: Close closes it directly rather than the
// events channel, so the loop never has to distinguish a closed
// events channel (always ready, never blocking) from real traffic.
func (b *eventBus) Start() {
	b.started = true
	go func() {
		defer func() {
			for _, l := range b.listeners {
				close(l)
			}
			close(b.done)
		}()
		for {
			select {
			case ev := <-b.events:
				for i, l := range b.listeners {
					select {
					case l <- ev:
					default:
						b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
					}
				}
			case <-b.stop:
				return
			}
		}
	}()
}

// Close stops accepting new events and, if Start was ever called,
// signals the distribution loop to exit and waits for it to do so.
func (b *eventBus) Close() {
	if b.closing {
		return
	}
	b.closing = true
	if !b.started {
		return
	}
	close(b.stop)
	<-b.done
}

func newEvent(typ EventType, prefix GuidPrefix, topic string, remote GUID) *Event {
	return &Event{Type: typ, GuidPrefix: prefix, TopicName: topic, RemoteGUID: remote, Timestamp: time.Now()}
}
