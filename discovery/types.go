// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import (
	"time"

	"github.com/go-rtps/participant/rtpstypes"
)

// Aliases onto the dependency-free leaf package so this package's
// exported signatures read naturally while staying import-cycle-free
// with the root rtps package (which also aliases rtpstypes and in
// turn imports discovery).
type (
	GuidPrefix  = rtpstypes.GuidPrefix
	EntityID    = rtpstypes.EntityID
	GUID        = rtpstypes.GUID
	Locator     = rtpstypes.Locator
	LocatorList = rtpstypes.LocatorList
	EndpointKind = rtpstypes.EndpointKind
)

const (
	Writer = rtpstypes.Writer
	Reader = rtpstypes.Reader
)

// ParticipantInfo is what Init needs to know about the local
// participant to start announcing it (spec.md SPEC_FULL D.2).
type ParticipantInfo struct {
	GuidPrefix                      GuidPrefix
	Name                            string
	DefaultUnicastLocatorList       LocatorList
	DefaultMulticastLocatorList     LocatorList
	MetatrafficMulticastLocatorList LocatorList
	LeaseDuration                   time.Duration
	AnnouncementPeriod              time.Duration
}

// EndpointInfo is what register_writer/register_reader pass to
// AddLocalWriter/AddLocalReader (spec.md §4.6).
type EndpointInfo struct {
	GUID                 GUID
	TopicName            string
	Kind                 EndpointKind
	UnicastLocatorList   LocatorList
	MulticastLocatorList LocatorList
}

// QoS is an opaque placeholder: QoS enforcement is an explicit
// spec.md §1 Non-goal, so this core never interprets it, only carries
// it through to the discovery collaborator for announcement.
type QoS struct {
	Raw map[string]string
}
