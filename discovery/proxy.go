// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"sync"
	"time"
)

// participantProxy is the local record of a remote participant
// discovered via SPDP, grounded on zyre/peer.go's Peer but keyed by
// GuidPrefix instead of a ZRE UUID, and with no outbound ZMQ
// connection to maintain — RTPS participants are discovered, never
// dialed by this layer.
type participantProxy struct {
	prefix                      GuidPrefix
	name                        string
	unicastLocatorList          LocatorList
	metatrafficLocatorList      LocatorList
	lastSeen                    time.Time
	livelinessAssertedManually  bool
}

// ProxyTable tracks all currently-known remote participants, expiring
// entries that stop asserting liveliness (zyre/peer.go's PeerManager,
// minus its DEALER-socket bookkeeping — RTPS discovery data arrives
// over the same SPDP multicast locator every participant already
// listens on, never a dedicated per-peer connection).
type ProxyTable struct {
	mu          sync.RWMutex
	proxies     map[GuidPrefix]*participantProxy
	expiration  time.Duration
	events      *eventBus
}

func newProxyTable(expiration time.Duration, events *eventBus) *ProxyTable {
	return &ProxyTable{
		proxies:    make(map[GuidPrefix]*participantProxy),
		expiration: expiration,
		events:     events,
	}
}

// observe records or refreshes a remote participant announcement,
// publishing ParticipantDiscovered the first time it is seen.
func (t *ProxyTable) observe(prefix GuidPrefix, name string, unicast, metatraffic LocatorList) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.proxies[prefix]; ok {
		p.lastSeen = time.Now()
		return
	}

	t.proxies[prefix] = &participantProxy{
		prefix:                 prefix,
		name:                   name,
		unicastLocatorList:     unicast,
		metatrafficLocatorList: metatraffic,
		lastSeen:               time.Now(),
	}
	if t.events != nil {
		t.events.Publish(newEvent(EventParticipantDiscovered, prefix, "", GUID{}))
	}
}

// assertLiveliness marks prefix as seen without requiring a full SPDP
// announcement (spec.md §4.6 assert_remote_liveliness).
func (t *ProxyTable) assertLiveliness(prefix GuidPrefix) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.proxies[prefix]; ok {
		p.lastSeen = time.Now()
		p.livelinessAssertedManually = true
	}
}

// sweep removes proxies that have not been seen within the
// expiration window, publishing ParticipantLost for each.
func (t *ProxyTable) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for prefix, p := range t.proxies {
		if time.Since(p.lastSeen) <= t.expiration {
			continue
		}
		delete(t.proxies, prefix)
		if t.events != nil {
			t.events.Publish(newEvent(EventParticipantLost, prefix, "", GUID{}))
		}
	}
}

func (t *ProxyTable) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.proxies)
}

func (t *ProxyTable) has(prefix GuidPrefix) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.proxies[prefix]
	return ok
}
