// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

// Endpoint is the capability set the participant needs from any of
// the four concrete writer/reader variants: {guid, attributes,
// deliver, trustedWriterId} (spec.md §3). Per spec.md §9's design
// note, variants are modeled as a closed tagged sum rather than an
// open inheritance hierarchy — an EndpointVariant tag plus an unexported
// concrete struct, matched with a type switch where behavior differs.
type Endpoint interface {
	GUID() GUID
	Attributes() *EndpointAttributes
	// Deliver hands a decoded submessage payload to the endpoint's
	// cache/reliability state machine (out of scope: spec.md §1).
	// The core only needs to route to it, never to interpret it.
	Deliver(payload []byte, source Locator)
	// TrustedWriterID is set on built-in readers so they only accept
	// data from their paired built-in writer (spec.md §4.6).
	TrustedWriterID() EntityID
	setTrustedWriterID(EntityID)
}

// EndpointVariant tags which of the four concrete shapes an Endpoint
// is, mirroring StatelessWriter/StatefulWriter/StatelessReader/
// StatefulReader in the original source.
type EndpointVariant int

const (
	VariantStatelessWriter EndpointVariant = iota
	VariantStatefulWriter
	VariantStatelessReader
	VariantStatefulReader
)

// DeliverFunc lets callers supply the actual cache/reliability hookup
// without this package depending on a concrete writer/reader cache
// implementation (out of scope: spec.md §1).
type DeliverFunc func(payload []byte, source Locator)

type endpointImpl struct {
	variant EndpointVariant
	guid    GUID
	attrs   EndpointAttributes

	trustedWriter EntityID
	deliver       DeliverFunc
}

func newEndpoint(variant EndpointVariant, guid GUID, attrs EndpointAttributes, deliver DeliverFunc) *endpointImpl {
	if deliver == nil {
		deliver = func([]byte, Locator) {}
	}
	return &endpointImpl{variant: variant, guid: guid, attrs: attrs, deliver: deliver}
}

func (e *endpointImpl) GUID() GUID                    { return e.guid }
func (e *endpointImpl) Attributes() *EndpointAttributes { return &e.attrs }
func (e *endpointImpl) Deliver(payload []byte, source Locator) { e.deliver(payload, source) }
func (e *endpointImpl) TrustedWriterID() EntityID      { return e.trustedWriter }
func (e *endpointImpl) setTrustedWriterID(id EntityID) { e.trustedWriter = id }
func (e *endpointImpl) Variant() EndpointVariant       { return e.variant }

// newWriter constructs a StatelessWriter or StatefulWriter depending
// on attrs.Reliability, matching
// RTPSParticipantImpl::createWriter's dispatch.
func newWriter(guid GUID, attrs EndpointAttributes, deliver DeliverFunc) Endpoint {
	variant := VariantStatelessWriter
	if attrs.Reliability == Reliable {
		variant = VariantStatefulWriter
	}
	return newEndpoint(variant, guid, attrs, deliver)
}

// newReader constructs a StatelessReader or StatefulReader depending
// on attrs.Reliability, matching
// RTPSParticipantImpl::createReader's dispatch.
func newReader(guid GUID, attrs EndpointAttributes, deliver DeliverFunc) Endpoint {
	variant := VariantStatelessReader
	if attrs.Reliability == Reliable {
		variant = VariantStatefulReader
	}
	return newEndpoint(variant, guid, attrs, deliver)
}
