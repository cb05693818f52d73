// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"errors"
	"sync"
	"time"
)

// ErrInvalidConfig mirrors spec.md §7's InvalidConfig: returned by
// NewRemoteEndpointStaticallyDiscovered when static discovery was not
// configured.
var ErrInvalidConfig = errors.New("discovery: static discovery not configured")

// EventSource exposes a discovery collaborator's event bus to
// callers that want to fold discovery transitions into their own
// bookkeeping, without requiring every BuiltinProtocols implementation
// to support it.
type EventSource interface {
	Subscribe(bufferSize int) <-chan *Event
}

// BuiltinProtocols is the collaborator spec.md §1 names as
// out-of-scope-but-consumed: the participant core binds local
// endpoints to it and asks it to announce/withdraw them, but never
// reimplements its wire protocol or state machine itself.
type BuiltinProtocols interface {
	Init(info ParticipantInfo) error
	AddLocalWriter(ep EndpointInfo) error
	AddLocalReader(ep EndpointInfo) error
	RemoveLocalWriter(guid GUID, topicName string)
	RemoveLocalReader(guid GUID, topicName string)
	UpdateLocalWriter(guid GUID, qos QoS) error
	UpdateLocalReader(guid GUID, qos QoS) error
	AnnounceState()
	StopAnnouncement()
	ResetAnnouncement()
	AssertRemoteLiveliness(prefix GuidPrefix)
	NewRemoteEndpointStaticallyDiscovered(guid GUID, userID uint32, kind EndpointKind) error
	Close()
}

// simpleBuiltinProtocols is the concrete, minimal-but-real
// implementation grounded on the teacher's Zyre overlay (SPEC_FULL.md
// D.2): an SPDP-like beacon discovers peer participants into a
// ProxyTable, and endpoint registrations are matched by topic name in
// a topicDirectory. Everything publishes onto a shared eventBus.
type simpleBuiltinProtocols struct {
	mu sync.Mutex

	useStaticEDP bool

	beacon *spdpBeacon
	proxies *ProxyTable
	topics  *topicDirectory
	events  *eventBus

	announcing bool
	stopSweep  chan struct{}
}

// NewSimpleBuiltinProtocols constructs the discovery collaborator.
// useStaticEDP gates NewRemoteEndpointStaticallyDiscovered per
// spec.md §4.6/§7.
func NewSimpleBuiltinProtocols(useStaticEDP bool) *simpleBuiltinProtocols {
	events := newEventBus(256)
	return &simpleBuiltinProtocols{
		useStaticEDP: useStaticEDP,
		events:       events,
		proxies:      newProxyTable(30*time.Second, events),
		topics:       newTopicDirectory(events),
	}
}

// Subscribe exposes the event bus to the participant core so it can
// fold discovery transitions into its own liveliness bookkeeping
// (SPEC_FULL.md D.2).
func (s *simpleBuiltinProtocols) Subscribe(bufferSize int) <-chan *Event {
	return s.events.Subscribe(bufferSize)
}

// Init starts the SPDP beacon on the participant's metatraffic
// multicast locator. Returning an error here is how the participant
// core surfaces spec.md §7's DiscoveryInitFailed.
func (s *simpleBuiltinProtocols) Init(info ParticipantInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(info.MetatrafficMulticastLocatorList) == 0 {
		return errors.New("discovery: no metatraffic multicast locator configured")
	}
	announcePeriod := info.AnnouncementPeriod
	if announcePeriod <= 0 {
		announcePeriod = time.Second
	}
	if info.LeaseDuration > 0 {
		s.proxies.expiration = info.LeaseDuration
	}

	var unicastPort uint32
	if len(info.DefaultUnicastLocatorList) > 0 {
		unicastPort = info.DefaultUnicastLocatorList[0].Port
	}

	s.beacon = newSPDPBeacon(info.GuidPrefix, unicastPort, announcePeriod)
	if err := s.beacon.start(info.MetatrafficMulticastLocatorList[0]); err != nil {
		return err
	}

	s.events.Start()
	s.stopSweep = make(chan struct{})
	go s.sweepLoop()
	go s.announcementLoop()

	return nil
}

func (s *simpleBuiltinProtocols) sweepLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.proxies.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *simpleBuiltinProtocols) announcementLoop() {
	for a := range s.beacon.announcementsCh() {
		s.proxies.observe(a.prefix, "", nil, nil)
	}
}

func (s *simpleBuiltinProtocols) AddLocalWriter(ep EndpointInfo) error {
	s.topics.addLocalWriter(ep)
	return nil
}

func (s *simpleBuiltinProtocols) AddLocalReader(ep EndpointInfo) error {
	s.topics.addLocalReader(ep)
	return nil
}

func (s *simpleBuiltinProtocols) RemoveLocalWriter(guid GUID, topicName string) {
	s.topics.removeLocalWriter(guid, topicName)
}

func (s *simpleBuiltinProtocols) RemoveLocalReader(guid GUID, topicName string) {
	s.topics.removeLocalReader(guid, topicName)
}

// UpdateLocalWriter/UpdateLocalReader carry QoS through unexamined
// (QoS enforcement is an explicit spec.md §1 Non-goal): there is
// nothing for this minimal collaborator to recompute.
func (s *simpleBuiltinProtocols) UpdateLocalWriter(guid GUID, qos QoS) error { return nil }
func (s *simpleBuiltinProtocols) UpdateLocalReader(guid GUID, qos QoS) error { return nil }

func (s *simpleBuiltinProtocols) AnnounceState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcing = true
}

func (s *simpleBuiltinProtocols) StopAnnouncement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcing = false
}

func (s *simpleBuiltinProtocols) ResetAnnouncement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.announcing = true
}

func (s *simpleBuiltinProtocols) AssertRemoteLiveliness(prefix GuidPrefix) {
	s.proxies.assertLiveliness(prefix)
}

// NewRemoteEndpointStaticallyDiscovered implements spec.md §4.6: only
// valid when static discovery is configured, otherwise InvalidConfig.
func (s *simpleBuiltinProtocols) NewRemoteEndpointStaticallyDiscovered(guid GUID, userID uint32, kind EndpointKind) error {
	if !s.useStaticEDP {
		return ErrInvalidConfig
	}
	info := EndpointInfo{GUID: guid, Kind: kind}
	if kind == Writer {
		s.topics.observeRemoteWriter(info)
	} else {
		s.topics.observeRemoteReader(info)
	}
	return nil
}

// Close tears down the beacon, the sweep goroutine, and the event
// bus, in that order (mirrors Participant's own shutdown sequencing:
// discovery stops announcing before its event plumbing is closed).
func (s *simpleBuiltinProtocols) Close() {
	s.mu.Lock()
	beacon := s.beacon
	stopSweep := s.stopSweep
	s.mu.Unlock()

	if beacon != nil {
		beacon.stop()
	}
	if stopSweep != nil {
		close(stopSweep)
	}
	s.events.Close()
}

var _ BuiltinProtocols = (*simpleBuiltinProtocols)(nil)
