// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import "github.com/go-rtps/participant/transport"

// sendPath implements spec.md §4.5's send_sync and the participant's
// createSenderResources helper used at endpoint-creation time
// (spec.md §4.6). Grounded on
// RTPSParticipantImpl::sendSync/createSendResources, with the
// append-target defect named in spec.md §9 fixed: newly built sender
// resources are appended to the participant's real sender pool
// (newSenders, held via the senders pointer here), never dropped into
// an always-empty scratch buffer.
type sendPath struct {
	attrs   *ParticipantAttributes
	factory *transport.NetworkFactory
	senders *[]transport.SenderResource
}

// createSenderResources builds (or, via the factory's own dedup,
// reuses) sender resources for every locator in ep's effective out
// locator list, appending newly built ones to the participant's
// sender pool. original_source/.../RTPSParticipantImpl.cpp:718-723
// falls back to the participant's own default_out_locator_list, not
// the endpoint's unicast locators — a different locator family
// entirely — so this does too.
func (sp *sendPath) createSenderResources(ep Endpoint) {
	attrs := ep.Attributes()
	locs := attrs.OutLocatorList
	if len(locs) == 0 {
		locs = sp.attrs.DefaultOutLocatorList
	}
	for _, loc := range locs {
		for _, sr := range sp.factory.BuildSenderResources(loc) {
			if !sendersContain(*sp.senders, sr) {
				*sp.senders = append(*sp.senders, sr)
			}
		}
	}
}

func sendersContain(pool []transport.SenderResource, sr transport.SenderResource) bool {
	for _, existing := range pool {
		if existing == sr {
			return true
		}
	}
	return false
}

// sendSync implements spec.md §4.5. Serialisation is the codec
// collaborator's job (out of scope: spec.md §1); this only owns and
// routes the already-serialised buffer. The outer loop over
// outLocatorList selects the binding interface; destination is the
// wire destination, independent of which sender ends up carrying it.
// Falls back to the participant's DefaultOutLocatorList on the same
// terms as createSenderResources: an endpoint with no explicit out
// locators still has senders registered under the default list, and
// sendSync must look there too or those senders are unreachable.
func (sp *sendPath) sendSync(buffer []byte, ep Endpoint, destination Locator) {
	locs := ep.Attributes().OutLocatorList
	if len(locs) == 0 {
		locs = sp.attrs.DefaultOutLocatorList
	}
	for _, loc := range locs {
		for _, sr := range *sp.senders {
			if sr.Supports(loc) {
				_ = sr.Send(buffer, destination)
			}
		}
	}
}
