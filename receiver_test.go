// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rtps/participant/transport"
)

// fakeReceiverResource is a transport.ReceiverResource double whose
// Receive delivers from an in-memory queue and unblocks with
// transport.ErrClosed once Close has been called, mirroring the real
// udpReceiverResource's shutdown contract.
type fakeReceiverResource struct {
	loc Locator

	mu     sync.Mutex
	queue  [][]byte
	closed bool
	wake   chan struct{}
}

func newFakeReceiverResource(loc Locator) *fakeReceiverResource {
	return &fakeReceiverResource{loc: loc, wake: make(chan struct{}, 1)}
}

func (f *fakeReceiverResource) push(msg []byte) {
	f.mu.Lock()
	f.queue = append(f.queue, msg)
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *fakeReceiverResource) Receive(buf []byte) (int, Locator, error) {
	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return 0, Locator{}, transport.ErrClosed
		}
		if len(f.queue) > 0 {
			msg := f.queue[0]
			f.queue = f.queue[1:]
			f.mu.Unlock()
			n := copy(buf, msg)
			return n, f.loc, nil
		}
		f.mu.Unlock()
		<-f.wake
	}
}

func (f *fakeReceiverResource) Supports(loc Locator) bool { return f.loc.Equal(loc) }
func (f *fakeReceiverResource) Locator() Locator          { return f.loc }
func (f *fakeReceiverResource) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
	return nil
}

var _ transport.ReceiverResource = (*fakeReceiverResource)(nil)

func TestReceiverControlBlockAddRemoveIsIdempotent(t *testing.T) {
	block := newReceiverControlBlock(newFakeReceiverResource(Locator{}), 1500, false, DevNullLogger)
	w := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)

	assert.False(t, block.hasAssociatedEndpoints())
	block.addEndpoint(w)
	block.addEndpoint(w)
	writers, readers := block.snapshot()
	assert.Len(t, writers, 1)
	assert.Empty(t, readers)
	assert.True(t, block.hasAssociatedEndpoints())

	block.removeEndpoint(w.GUID().Entity)
	assert.False(t, block.hasAssociatedEndpoints())
}

func TestReceiverControlBlockRunDeliversAndShutsDown(t *testing.T) {
	res := newFakeReceiverResource(Locator{})
	block := newReceiverControlBlock(res, 1500, false, DevNullLogger)
	w := newTestWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}, WithKey)
	block.addEndpoint(w)

	delivered := make(chan []byte, 1)
	done := make(chan struct{})
	go func() {
		block.run(func(b *receiverControlBlock, source Locator, msg []byte) {
			cp := append([]byte(nil), msg...)
			select {
			case delivered <- cp:
			default:
			}
		})
		close(done)
	}()

	res.push([]byte("hello"))

	select {
	case msg := <-delivered:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	require.NoError(t, block.shutdown())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener goroutine did not exit after shutdown")
	}
}
