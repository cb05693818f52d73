// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-rtps/participant/discovery"
	"github.com/go-rtps/participant/transport"
)

// Participant is the top-level composition named in spec.md §2/§4.6:
// attributes, identity, lifecycle, and the public API for endpoint
// creation/registration/deletion, coordinating with built-in
// discovery. Grounded on RTPSParticipantImpl.
//
// Go has no built-in recursive mutex, and spec.md §5 calls for one
// because "endpoint-creation paths call helpers that re-lock". Rather
// than hand-roll a goroutine-aware recursive lock, every exported
// method that touches participant state takes p.mu exactly once and
// delegates to unexported "Locked" helpers that assume it is already
// held; the helpers never lock it again. This gives the same
// re-entrancy spec.md asks for without a recursive-mutex primitive,
// and is the idiomatic Go equivalent. EventResource and the
// ResourceSemaphore pair do not take p.mu.
type Participant struct {
	mu sync.Mutex

	attrs      ParticipantAttributes
	guidPrefix GuidPrefix

	registry *EndpointRegistry
	binder   *locatorBinder
	sendP    *sendPath

	factory *transport.NetworkFactory
	blocks  []*receiverControlBlock
	senders []transport.SenderResource

	discovery       discovery.BuiltinProtocols
	discoveryEvents <-chan *discovery.Event

	sem *resourceSemaphore

	listenerGroup *errgroup.Group

	eventCtx    context.Context
	eventCancel context.CancelFunc
	eventDone   chan struct{}

	log          *Logger
	registryLog  *Logger
	binderLog    *Logger
	listenerLog  *Logger
	sendLog      *Logger
	discoveryLog *Logger

	looseNextChange bool
	closed          bool
}

// NewParticipant constructs a Participant with a fixed GuidPrefix
// (spec.md §3 "Participant: created once with a fixed GuidPrefix"):
// it computes and binds the default unicast (and, if still unset,
// out) locator, adapting the port on bind failure up to
// MaxAdaptationRetries times, starts every resulting listener thread,
// then initialises built-in discovery.
func NewParticipant(prefix GuidPrefix, opts ...ParticipantOption) (*Participant, error) {
	attrs := defaultParticipantAttributes()
	for _, opt := range opts {
		opt(&attrs)
	}

	p := &Participant{
		attrs:        attrs,
		guidPrefix:   prefix,
		registry:     newEndpointRegistry(NewLogger("RTPS_REGISTRY", LogLevelWarn)),
		factory:      transport.NewNetworkFactory(),
		sem:          newResourceSemaphore(),
		log:          NewLogger("RTPS_PARTICIPANT", LogLevelWarn),
		registryLog:  NewLogger("RTPS_REGISTRY", LogLevelWarn),
		binderLog:    NewLogger("RTPS_LOCATOR_BINDER", LogLevelWarn),
		listenerLog:  NewLogger("RTPS_LISTENER", LogLevelWarn),
		sendLog:      NewLogger("RTPS_SEND", LogLevelWarn),
		discoveryLog: NewLogger("RTPS_DISCOVERY", LogLevelWarn),
	}
	p.binder = &locatorBinder{attrs: &p.attrs, factory: p.factory, blocks: &p.blocks, log: p.binderLog}
	p.sendP = &sendPath{attrs: &p.attrs, factory: p.factory, senders: &p.senders}
	p.eventCtx, p.eventCancel = context.WithCancel(context.Background())
	p.eventDone = make(chan struct{})
	p.listenerGroup = &errgroup.Group{}

	if len(p.attrs.DefaultUnicastLocatorList) == 0 {
		port := p.attrs.Port.DefaultUnicastPort(p.attrs.DomainID, p.attrs.ParticipantID)
		p.attrs.DefaultUnicastLocatorList = LocatorList{NewUDPv4Locator(net.IPv4zero, port)}
	}
	if err := p.bindDefaultLocators(); err != nil {
		p.log.Error("participant %s: binding default unicast locators failed: %v", p.guidPrefix, err)
		return nil, err
	}

	// original_source/RTPSParticipantImpl.cpp synthesizes a default
	// out locator the same way it synthesizes the listening locator
	// when none was configured (SPEC_FULL.md D.3).
	if len(p.attrs.DefaultOutLocatorList) == 0 {
		p.attrs.DefaultOutLocatorList = append(LocatorList(nil), p.attrs.DefaultUnicastLocatorList...)
		p.log.Info("participant %s created with no default send locator list; using the default unicast listening locator", p.guidPrefix)
	}

	p.startListeners()

	p.discovery = discovery.NewSimpleBuiltinProtocols(p.attrs.Builtin.UseStaticEDP)
	if err := p.initDiscovery(); err != nil {
		p.log.Warn("built-in discovery initialisation failed, continuing degraded: %v", err)
	}

	go p.eventLoop()

	return p, nil
}

// bindDefaultLocators builds and binds receivers for the default
// unicast locator, applying spec.md §4.3's port-adaptation rule when
// the factory returns nothing for the requested port, and rewrites
// the participant's default list to whatever locator actually ended
// up bound.
func (p *Participant) bindDefaultLocators() error {
	loc := p.attrs.DefaultUnicastLocatorList[0]

	for attempt := 0; attempt <= p.attrs.MaxAdaptationRetries; attempt++ {
		resources := p.factory.BuildReceiverResources(loc)
		if len(resources) > 0 {
			for _, res := range resources {
				block := newReceiverControlBlock(res, p.attrs.ListenSocketBufferSize, true, p.listenerLog)
				p.blocks = append(p.blocks, block)
			}
			p.attrs.DefaultUnicastLocatorList = LocatorList{loc}
			return nil
		}
		if loc.Kind == LocatorKindUDPv6 {
			return fmt.Errorf("%w: udpv6 adaptation is unspecified", ErrReceiverBindFailed)
		}
		loc = AdaptLocator(loc)
	}
	return fmt.Errorf("%w: exhausted %d adaptation retries", ErrReceiverBindFailed, p.attrs.MaxAdaptationRetries)
}

// startListeners spawns the listener goroutine for every block that
// does not already have one running (spec.md §4.3 step 5, §4.4).
func (p *Participant) startListeners() {
	for _, block := range p.blocks {
		if block.started {
			continue
		}
		block.started = true
		b := block
		p.listenerGroup.Go(func() error {
			b.run(p.deliver)
			return nil
		})
	}
}

// deliver is the ListenerDispatcher's per-datagram callback (spec.md
// §4.4 step 4): MessageReceiver::process is the wire-codec
// collaborator's job (out of scope, spec.md §1), so this only walks
// the block's associated-endpoint snapshot and hands each endpoint
// the raw payload — a real codec sits between this and a production
// cache, but the dispatch/fan-out shape this core owns is exercised
// end-to-end either way.
func (p *Participant) deliver(block *receiverControlBlock, source Locator, msg []byte) {
	writers, readers := block.snapshot()
	for _, w := range writers {
		w.Deliver(msg, source)
	}
	for _, r := range readers {
		r.Deliver(msg, source)
	}
}

func (p *Participant) eventLoop() {
	defer close(p.eventDone)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.eventCtx.Done():
			return
		case <-ticker.C:
			// Timer tick for discovery heartbeats (spec.md §5's
			// "ResourceEvent"); the discovery collaborator drives its
			// own beacon ticker (discovery.spdpBeacon) rather than
			// polling this one, so there is nothing to dispatch yet.
		case ev, ok := <-p.discoveryEvents:
			if !ok {
				p.discoveryEvents = nil
				continue
			}
			p.handleDiscoveryEvent(ev)
		}
	}
}

// handleDiscoveryEvent folds a discovery transition into the
// participant's own liveliness bookkeeping. There is no cache to
// update at this layer (spec.md §1 Non-goal), so for now this is
// limited to logging — the hook future reliability-layer work can
// extend without touching the event thread's shape.
func (p *Participant) handleDiscoveryEvent(ev *discovery.Event) {
	p.discoveryLog.Debug("discovery event %s prefix=%s topic=%q", ev.Type, ev.GuidPrefix, ev.TopicName)
}

// EventResource returns the handle for the participant's single
// long-lived event goroutine (spec.md §5, supplemented per
// SPEC_FULL.md D.3's getEventResource()).
type EventResource struct {
	done <-chan struct{}
}

// Done reports when the event goroutine has exited.
func (e *EventResource) Done() <-chan struct{} { return e.done }

func (p *Participant) EventResource() *EventResource {
	return &EventResource{done: p.eventDone}
}

func (p *Participant) initDiscovery() error {
	info := discovery.ParticipantInfo{
		GuidPrefix:                      p.guidPrefix,
		Name:                            p.attrs.Name,
		DefaultUnicastLocatorList:       p.attrs.DefaultUnicastLocatorList,
		DefaultMulticastLocatorList:     p.attrs.DefaultMulticastLocatorList,
		MetatrafficMulticastLocatorList: p.attrs.Builtin.MetatrafficMulticastLocatorList,
		LeaseDuration:                   p.attrs.Builtin.LeaseDuration.AsDuration(),
		AnnouncementPeriod:              p.attrs.Builtin.AnnouncementPeriod.AsDuration(),
	}
	if err := p.discovery.Init(info); err != nil {
		return fmt.Errorf("%w: %v", ErrDiscoveryInitFailed, err)
	}
	if src, ok := p.discovery.(discovery.EventSource); ok {
		p.discoveryEvents = src.Subscribe(64)
	}
	return nil
}

// CreateWriter implements spec.md §4.6's create_writer.
func (p *Participant) CreateWriter(attrs EndpointAttributes, entityID EntityID, isBuiltin bool, deliver DeliverFunc) (Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createEndpointLocked(attrs, entityID, Writer, isBuiltin, true, deliver)
}

// CreateReader implements spec.md §4.6's create_reader. acquire_receivers_for
// only runs when enable is true; otherwise the caller must follow up
// with EnableReader.
func (p *Participant) CreateReader(attrs EndpointAttributes, entityID EntityID, isBuiltin, enable bool, deliver DeliverFunc) (Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createEndpointLocked(attrs, entityID, Reader, isBuiltin, enable, deliver)
}

func (p *Participant) createEndpointLocked(attrs EndpointAttributes, entityID EntityID, kind EndpointKind, isBuiltin, enable bool, deliver DeliverFunc) (Endpoint, error) {
	attrs.Kind = kind
	attrs.EntityID = entityID

	if !attrs.UnicastLocatorList.IsValid() || !attrs.MulticastLocatorList.IsValid() || !attrs.OutLocatorList.IsValid() {
		p.log.Warn("create %s: %v", kind, ErrInvalidLocator)
		return nil, ErrInvalidLocator
	}

	id := p.registry.allocateEntityID(entityID, kind, attrs.TopicKind, attrs.EntityNumber)
	if p.registry.exists(id, kind) {
		p.log.Warn("create %s %s: %v", kind, id, ErrDuplicateEntityId)
		return nil, ErrDuplicateEntityId
	}
	attrs.EntityID = id

	guid := GUID{Prefix: p.guidPrefix, Entity: id}

	var ep Endpoint
	if kind == Writer {
		ep = newWriter(guid, attrs, deliver)
	} else {
		ep = newReader(guid, attrs, deliver)
	}
	if ep == nil {
		p.log.Error("create %s %s: %v", kind, id, ErrAllocationFailed)
		return nil, ErrAllocationFailed
	}

	if isBuiltin {
		ep.setTrustedWriterID(TrustedWriter(id))
	}

	// create_writer always acquires sender resources; create_reader
	// only does for RELIABLE readers (spec.md §4.6).
	if kind == Writer || attrs.Reliability == Reliable {
		p.sendP.createSenderResources(ep)
	}

	acquire := kind == Writer && attrs.Reliability == Reliable
	if kind == Reader {
		acquire = enable
	}
	if acquire {
		p.acquireReceiversForLocked(ep, isBuiltin)
	}

	if kind == Writer {
		p.registry.registerWriter(ep, isBuiltin)
	} else {
		p.registry.registerReader(ep, isBuiltin)
	}

	return ep, nil
}

// acquireReceiversForLocked implements spec.md §4.3's
// acquire_receivers_for. Block creation for uncovered locators and
// the bind itself are both performed inside locatorBinder.bind with
// allowCreate=true (see locatorbinder.go); this only has to start any
// newly created listener after binding completes (step 5).
func (p *Participant) acquireReceiversForLocked(ep Endpoint, isBuiltin bool) {
	p.binder.bind(ep, isBuiltin, true)
	p.startListeners()
}

// EnableReader implements spec.md §4.6's enable_reader: the deferred
// LocatorBinder::bind for a reader created with enable=false.
func (p *Participant) EnableReader(reader Endpoint, isBuiltin bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquireReceiversForLocked(reader, isBuiltin)
}

// RegisterWriter implements spec.md §4.6's register_writer: delegates
// to built-in discovery to announce the endpoint to peers.
func (p *Participant) RegisterWriter(writer Endpoint, topicName string, qos QoS) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovery.AddLocalWriter(discovery.EndpointInfo{
		GUID:                 writer.GUID(),
		TopicName:            topicName,
		Kind:                 Writer,
		UnicastLocatorList:   writer.Attributes().UnicastLocatorList,
		MulticastLocatorList: writer.Attributes().MulticastLocatorList,
	})
}

// RegisterReader implements spec.md §4.6's register_reader.
func (p *Participant) RegisterReader(reader Endpoint, topicName string, qos QoS) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovery.AddLocalReader(discovery.EndpointInfo{
		GUID:                 reader.GUID(),
		TopicName:            topicName,
		Kind:                 Reader,
		UnicastLocatorList:   reader.Attributes().UnicastLocatorList,
		MulticastLocatorList: reader.Attributes().MulticastLocatorList,
	})
}

// UpdateLocalWriter implements spec.md §4.6's update_local_writer.
func (p *Participant) UpdateLocalWriter(ep Endpoint, qos QoS) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovery.UpdateLocalWriter(ep.GUID(), qos)
}

// UpdateLocalReader implements spec.md §4.6's update_local_reader.
func (p *Participant) UpdateLocalReader(ep Endpoint, qos QoS) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discovery.UpdateLocalReader(ep.GUID(), qos)
}

// DeleteUserEndpoint implements spec.md §4.6's delete_user_endpoint.
func (p *Participant) DeleteUserEndpoint(ep Endpoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteUserEndpointLocked(ep)
}

func (p *Participant) deleteUserEndpointLocked(ep Endpoint) {
	if !p.registry.removeUserEndpoint(ep) {
		return
	}

	if ep.Attributes().Kind == Writer {
		p.discovery.RemoveLocalWriter(ep.GUID(), ep.Attributes().TopicName)
	} else {
		p.discovery.RemoveLocalReader(ep.GUID(), ep.Attributes().TopicName)
	}

	id := ep.GUID().Entity
	for _, block := range p.blocks {
		block.removeEndpoint(id)
	}

	p.gcEmptyBlocksLocked()
}

// gcEmptyBlocksLocked destroys and drops receiver control blocks that
// have no remaining associated endpoints and are not marked default
// (spec.md §4.6, §8 scenario 6).
func (p *Participant) gcEmptyBlocksLocked() {
	kept := p.blocks[:0]
	for _, block := range p.blocks {
		if !block.isDefault && !block.hasAssociatedEndpoints() {
			if err := block.shutdown(); err != nil {
				p.listenerLog.Warn("error shutting down receiver control block: %v", err)
			}
			continue
		}
		kept = append(kept, block)
	}
	p.blocks = kept
}

// NewRemoteEndpointDiscovered implements spec.md §4.6's
// new_remote_endpoint_discovered: only valid when static discovery is
// configured, otherwise InvalidConfig.
func (p *Participant) NewRemoteEndpointDiscovered(guid GUID, userID uint32, kind EndpointKind) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.discovery.NewRemoteEndpointStaticallyDiscovered(guid, userID, kind); err != nil {
		p.log.Warn("new remote endpoint %s: %v", guid, err)
		return fmt.Errorf("%w", ErrInvalidConfig)
	}
	return nil
}

// AnnounceState delegates to built-in discovery (spec.md §4.6).
func (p *Participant) AnnounceState() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discovery.AnnounceState()
}

// StopAnnouncement delegates to built-in discovery (spec.md §4.6).
func (p *Participant) StopAnnouncement() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discovery.StopAnnouncement()
}

// ResetAnnouncement delegates to built-in discovery (spec.md §4.6).
func (p *Participant) ResetAnnouncement() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discovery.ResetAnnouncement()
}

// AssertRemoteLiveliness delegates to built-in discovery (spec.md §4.6).
func (p *Participant) AssertRemoteLiveliness(prefix GuidPrefix) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.discovery.AssertRemoteLiveliness(prefix)
}

// SendSync implements spec.md §4.5's send_sync, the production entry
// point for SendPath: it routes an already-serialised buffer to
// destination over every sender resource backing ep's out locator
// list. Wired symmetrically to deliver (participant.go's receive-side
// dispatch above) so SendPath has a real caller beyond its own unit
// tests; a future reliability layer drives this per-change instead of
// calling it directly.
func (p *Participant) SendSync(buffer []byte, ep Endpoint, destination Locator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendP.sendSync(buffer, ep, destination)
}

// ResourceSemaphorePost implements spec.md §5's ResourceSemaphore
// post(), kept as an explicit participant method rather than folded
// into the event thread (SPEC_FULL.md D.3, matching the original's
// separate mp_ResourceSemaphore).
func (p *Participant) ResourceSemaphorePost() {
	p.sem.Post()
}

// ResourceSemaphoreWait implements spec.md §5's ResourceSemaphore
// wait().
func (p *Participant) ResourceSemaphoreWait(ctx context.Context) error {
	return p.sem.Wait(ctx)
}

// LooseNextChange is a test-only hook (SPEC_FULL.md D.3, supplementing
// the original's getSendMutex/loose_next_change) that forces a
// reliable writer to "lose" its next change for retransmission
// testing. The production writer/reader state machines are out of
// scope (spec.md §1), so this only flips a flag a test double may
// choose to honor; kept as a normal exported method since a
// build-tag-gated hook is unnecessary for something this inert.
func (p *Participant) LooseNextChange() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.looseNextChange = true
}

// Close implements spec.md §3's participant destruction order: every
// user endpoint first, then built-in endpoints, then receivers, then
// senders, then the event thread.
func (p *Participant) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true

	for _, ep := range p.registry.userEndpoints() {
		p.deleteUserEndpointLocked(ep)
	}
	for _, ep := range p.registry.builtinEndpoints() {
		p.registry.removeAny(ep)
		id := ep.GUID().Entity
		for _, block := range p.blocks {
			block.removeEndpoint(id)
		}
	}
	p.gcEmptyBlocksLocked()

	blocks := p.blocks
	p.blocks = nil
	senders := p.senders
	p.senders = nil
	p.mu.Unlock()

	for _, block := range blocks {
		if err := block.shutdown(); err != nil {
			p.listenerLog.Warn("error shutting down receiver control block: %v", err)
		}
	}
	for _, sr := range senders {
		_ = sr.Close()
	}

	_ = p.listenerGroup.Wait()

	p.eventCancel()
	<-p.eventDone

	p.discovery.Close()

	return nil
}
