// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import "github.com/go-rtps/participant/transport"

// locatorBinder implements spec.md §4.2: associating an endpoint with
// existing receiver control blocks by locator match, creating new
// blocks through the network factory when called from the creation
// path (acquireReceiversForLocked). Every method here runs under the
// participant's recursive mutex (spec.md §5 lock order: participant →
// block → endpoint); locatorBinder takes no lock of its own.
//
// Grounded on RTPSParticipantImpl::assignEndpointListenResources.
type locatorBinder struct {
	attrs   *ParticipantAttributes
	factory *transport.NetworkFactory
	blocks  *[]*receiverControlBlock
	log     *Logger
}

// bind implements spec.md §4.2's algorithm for both locator families.
// allowCreate controls step 3: when true, an unmatched locator gets a
// fresh receiver control block; when false, unmatched locators are
// simply skipped, per spec.md §9's open question. The only caller,
// acquireReceiversForLocked, passes true, both for endpoint creation
// and for EnableReader's deferred bind.
func (lb *locatorBinder) bind(ep Endpoint, isBuiltin, allowCreate bool) {
	attrs := ep.Attributes()

	// Step 1: substitute participant defaults only when BOTH families
	// are empty (spec.md §4.2 step 1, resolved per SPEC_FULL.md D.4 —
	// not per-family).
	if len(attrs.UnicastLocatorList) == 0 && len(attrs.MulticastLocatorList) == 0 && !isBuiltin {
		attrs.UnicastLocatorList = append(LocatorList(nil), lb.attrs.DefaultUnicastLocatorList...)
		attrs.MulticastLocatorList = append(LocatorList(nil), lb.attrs.DefaultMulticastLocatorList...)
	}

	lb.bindFamily(ep, attrs.UnicastLocatorList, allowCreate)
	lb.bindFamily(ep, attrs.MulticastLocatorList, allowCreate)
}

func (lb *locatorBinder) bindFamily(ep Endpoint, locs LocatorList, allowCreate bool) {
	for _, loc := range locs {
		if lb.bindExisting(ep, loc) {
			continue
		}
		if !allowCreate {
			continue
		}
		for _, block := range lb.createBlocksFor(loc) {
			block.addEndpoint(ep)
		}
	}
}

// bindExisting scans existing blocks for one whose resource supports
// loc, associating ep with the first match (spec.md §4.2 step 2).
func (lb *locatorBinder) bindExisting(ep Endpoint, loc Locator) bool {
	for _, block := range *lb.blocks {
		if block.resource.Supports(loc) {
			block.addEndpoint(ep)
			return true
		}
	}
	return false
}

// createBlocksFor asks the network factory for receiver resources
// covering loc and wraps each in a fresh receiver control block,
// appending to the participant's receiver list (spec.md §4.3 steps
// 1-3). Newly created blocks are not started here: the caller
// (acquireReceiversForLocked) starts any not-yet-running listener after
// binding completes (spec.md §4.3 step 5).
func (lb *locatorBinder) createBlocksFor(loc Locator) []*receiverControlBlock {
	resources := lb.factory.BuildReceiverResources(loc)
	created := make([]*receiverControlBlock, 0, len(resources))
	for _, res := range resources {
		block := newReceiverControlBlock(res, lb.attrs.ListenSocketBufferSize, false, lb.log)
		*lb.blocks = append(*lb.blocks, block)
		created = append(created, block)
	}
	return created
}
