// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"sync"

	"github.com/go-rtps/participant/transport"
)

// receiverControlBlock binds one transport.ReceiverResource to its
// listener goroutine, its decode scratch buffer, and the set of
// endpoints subscribed to its traffic (spec.md §3, §4.3). It owns its
// resource exclusively — spec.md §9 calls out the original source's
// ownership confusion (ReceiverResource values stored by reference
// while being passed around by value) as a defect; here there is a
// single pointer-owned resource, never copied.
//
// Endpoints are keyed by EntityID and the sets hold the Endpoint
// values themselves; a delivery goes to the snapshot of these sets
// and does not look the endpoints up in the registry. Deleting an
// endpoint removes it from every block (deleteUserEndpointLocked),
// after which no later iteration delivers to it.
type receiverControlBlock struct {
	resource transport.ReceiverResource
	scratch  []byte

	mu        sync.Mutex
	writers   map[EntityID]Endpoint
	readers   map[EntityID]Endpoint
	isDefault bool

	// started is set once this block's listener goroutine has been
	// spawned (spec.md §3 invariant 3: "threads are not started
	// twice"). Only read/written under the participant mutex, never
	// under b.mu — block creation and listener startup both happen
	// while the participant lock is held.
	started bool

	log *Logger

	stop    chan struct{}
	stopped chan struct{}
}

func newReceiverControlBlock(res transport.ReceiverResource, scratchSize int, isDefault bool, log *Logger) *receiverControlBlock {
	return &receiverControlBlock{
		resource:  res,
		scratch:   make([]byte, scratchSize),
		writers:   make(map[EntityID]Endpoint),
		readers:   make(map[EntityID]Endpoint),
		isDefault: isDefault,
		log:       log,
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// addEndpoint idempotently associates ep with this block by EntityID
// (spec.md §4.2 step 2: "add the endpoint to that block's writers or
// readers set (idempotent by EntityId)").
func (b *receiverControlBlock) addEndpoint(ep Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := ep.GUID().Entity
	if ep.Attributes().Kind == Writer {
		b.writers[id] = ep
	} else {
		b.readers[id] = ep
	}
}

// removeEndpoint drops any association with id from both sets.
func (b *receiverControlBlock) removeEndpoint(id EntityID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.writers, id)
	delete(b.readers, id)
}

// hasAssociatedEndpoints reports whether any endpoint still
// references this block (spec.md §3 ReceiverControlBlock lifecycle:
// "destroyed when the last ... association is removed").
func (b *receiverControlBlock) hasAssociatedEndpoints() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writers) > 0 || len(b.readers) > 0
}

// snapshot returns a consistent copy of the associated endpoints for
// one delivery iteration (spec.md §5: "a listener thread observing
// the associated-endpoint set sees a consistent snapshot per
// iteration").
func (b *receiverControlBlock) snapshot() (writers, readers []Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range b.writers {
		writers = append(writers, w)
	}
	for _, r := range b.readers {
		readers = append(readers, r)
	}
	return writers, readers
}

// run is the per-block listener loop (spec.md §4.4), started exactly
// once per block (invariant 3, spec.md §3). Grounded on
// RTPSParticipantImpl::performListenOperation, rewritten as an
// explicit loop — spec.md §9 calls the source's tail-recursive
// version a stack-exhausting defect.
func (b *receiverControlBlock) run(deliver func(block *receiverControlBlock, source Locator, msg []byte)) {
	defer close(b.stopped)
	for {
		select {
		case <-b.stop:
			return
		default:
		}

		n, from, err := b.resource.Receive(b.scratch)
		if err != nil {
			if err == transport.ErrClosed {
				// spec.md §7: ResourceClosed ends the listener loop
				// and never surfaces further.
				return
			}
			if b.log != nil {
				b.log.Warn("receive error on %v: %v", b.resource.Locator(), err)
			}
			continue
		}
		if n == 0 {
			// A zero-length buffer is the other shutdown signal
			// named in spec.md §4.4 step 2.
			return
		}

		deliver(b, from, b.scratch[:n])
	}
}

// shutdown closes the underlying resource and waits for the listener
// goroutine to exit.
func (b *receiverControlBlock) shutdown() error {
	close(b.stop)
	err := b.resource.Close()
	<-b.stopped
	return err
}
