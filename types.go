// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"github.com/go-rtps/participant/discovery"
	"github.com/go-rtps/participant/rtpstypes"
)

// These aliases let the rest of this package (and its callers) spell
// the core identity/wire types as rtps.GUID, rtps.Locator, etc., while
// the types themselves live in rtpstypes — a dependency-free leaf
// package also imported by transport and discovery, so none of the
// three needs to import the others and there is no import cycle.
type (
	GuidPrefix  = rtpstypes.GuidPrefix
	EntityID    = rtpstypes.EntityID
	EntityKind  = rtpstypes.EntityKind
	GUID        = rtpstypes.GUID
	LocatorKind = rtpstypes.LocatorKind
	Locator     = rtpstypes.Locator
	LocatorList = rtpstypes.LocatorList
	EndpointKind = rtpstypes.EndpointKind

	// QoS is carried through from the discovery package so callers of
	// Participant's register/update methods never need to import it
	// directly.
	QoS = discovery.QoS
)

const (
	GuidPrefixLen = rtpstypes.GuidPrefixLen

	EntityKindUnknown       = rtpstypes.EntityKindUnknown
	EntityKindWriterWithKey = rtpstypes.EntityKindWriterWithKey
	EntityKindWriterNoKey   = rtpstypes.EntityKindWriterNoKey
	EntityKindReaderNoKey   = rtpstypes.EntityKindReaderNoKey
	EntityKindReaderWithKey = rtpstypes.EntityKindReaderWithKey

	LocatorKindInvalid = rtpstypes.LocatorKindInvalid
	LocatorKindUDPv4   = rtpstypes.LocatorKindUDPv4
	LocatorKindUDPv6   = rtpstypes.LocatorKindUDPv6

	Writer = rtpstypes.Writer
	Reader = rtpstypes.Reader
)

var (
	UnknownGuidPrefix  = rtpstypes.UnknownGuidPrefix
	ParticipantEntityID = rtpstypes.ParticipantEntityID

	SPDPWriterID       = rtpstypes.SPDPWriterID
	SPDPReaderID       = rtpstypes.SPDPReaderID
	SEDPPubWriterID    = rtpstypes.SEDPPubWriterID
	SEDPPubReaderID    = rtpstypes.SEDPPubReaderID
	SEDPSubWriterID    = rtpstypes.SEDPSubWriterID
	SEDPSubReaderID    = rtpstypes.SEDPSubReaderID
	WriterLivelinessID = rtpstypes.WriterLivelinessID
	ReaderLivelinessID = rtpstypes.ReaderLivelinessID

	NewUDPv4Locator  = rtpstypes.NewUDPv4Locator
	LocatorFromBytes = rtpstypes.LocatorFromBytes
	TrustedWriter    = rtpstypes.TrustedWriter
	AdaptLocator     = rtpstypes.AdaptLocator
	IDCounterBytes   = rtpstypes.IDCounterBytes
)
