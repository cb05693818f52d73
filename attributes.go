// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import "time"

// Reliability is the endpoint's delivery guarantee.
type Reliability int

const (
	BestEffort Reliability = iota
	Reliable
)

func (r Reliability) String() string {
	if r == Reliable {
		return "RELIABLE"
	}
	return "BEST_EFFORT"
}

// TopicKind distinguishes keyed from unkeyed data (spec.md §3).
type TopicKind int

const (
	NoKey TopicKind = iota
	WithKey
)

// EndpointAttributes configures a single writer or reader (spec.md §3).
type EndpointAttributes struct {
	Kind        EndpointKind
	Reliability Reliability
	TopicKind   TopicKind

	UnicastLocatorList   LocatorList
	MulticastLocatorList LocatorList
	OutLocatorList       LocatorList

	// EntityID is the caller's preferred explicit entity id; the zero
	// value means "auto-assign" (spec.md §4.1).
	EntityID EntityID

	// EntityNumber, when non-zero, is used as the instance-counter
	// portion of an auto-assigned EntityID instead of the registry's
	// monotonic counter (spec.md §4.1: "the attribute-supplied entity
	// number").
	EntityNumber uint32

	TopicName string
}

// PortParams configures the deterministic default-port formula of
// spec.md §4.3: port = portBase + domainIDGain*domainId + offsetd3 +
// participantIDGain*participantId.
type PortParams struct {
	PortBase         uint32
	DomainIDGain     uint32
	ParticipantIDGain uint32
	Offsetd3         uint32
}

// DefaultUnicastPort implements the port formula.
func (p PortParams) DefaultUnicastPort(domainID, participantID uint32) uint32 {
	return p.PortBase + p.DomainIDGain*domainID + p.Offsetd3 + p.ParticipantIDGain*participantID
}

// BuiltinConfig configures the built-in discovery subsystem
// (spec.md §3 "builtin sub-config").
type BuiltinConfig struct {
	// UseStaticEDP gates new_remote_endpoint_discovered (spec.md §4.6,
	// §7 InvalidConfig).
	UseStaticEDP bool

	// MetatrafficMulticastLocatorList is the SPDP announcement
	// locator; empty means discovery is disabled.
	MetatrafficMulticastLocatorList LocatorList

	// LeaseDuration is how long a remote participant's liveliness
	// assertion remains valid before it is considered lost.
	LeaseDuration      DurationMillis
	AnnouncementPeriod DurationMillis
}

// DurationMillis avoids pulling time.Duration into wire-facing
// configuration structs that may later be read from a file; it is a
// plain millisecond count, converted with AsDuration where needed.
type DurationMillis uint32

// AsDuration converts to a time.Duration.
func (d DurationMillis) AsDuration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// ParticipantAttributes is configuration fixed at construction
// (spec.md §3). There is no supported mutation after
// NewParticipant returns (Non-goal: dynamic reconfiguration).
type ParticipantAttributes struct {
	Name          string
	DomainID      uint32
	ParticipantID uint32

	Port PortParams

	DefaultUnicastLocatorList   LocatorList
	DefaultMulticastLocatorList LocatorList
	DefaultOutLocatorList       LocatorList

	Builtin BuiltinConfig

	ListenSocketBufferSize int

	// MaxAdaptationRetries bounds the port-adaptation retry loop of
	// spec.md §4.3 before ReceiverBindFailed is surfaced (spec.md §7).
	MaxAdaptationRetries int
}

func defaultParticipantAttributes() ParticipantAttributes {
	return ParticipantAttributes{
		Name: "participant",
		Port: PortParams{
			PortBase:          7400,
			DomainIDGain:      250,
			ParticipantIDGain: 2,
			Offsetd3:          3,
		},
		ListenSocketBufferSize: 65536,
		MaxAdaptationRetries:   16,
	}
}

// ParticipantOption configures a ParticipantAttributes value,
// following the teacher's functional-options pattern
// (core_options.go's `Option func(s *socket)`).
type ParticipantOption func(*ParticipantAttributes)

func WithName(name string) ParticipantOption {
	return func(a *ParticipantAttributes) { a.Name = name }
}

func WithDomainID(id uint32) ParticipantOption {
	return func(a *ParticipantAttributes) { a.DomainID = id }
}

func WithParticipantID(id uint32) ParticipantOption {
	return func(a *ParticipantAttributes) { a.ParticipantID = id }
}

func WithPortParams(p PortParams) ParticipantOption {
	return func(a *ParticipantAttributes) { a.Port = p }
}

func WithDefaultUnicastLocators(locs LocatorList) ParticipantOption {
	return func(a *ParticipantAttributes) { a.DefaultUnicastLocatorList = locs }
}

func WithDefaultMulticastLocators(locs LocatorList) ParticipantOption {
	return func(a *ParticipantAttributes) { a.DefaultMulticastLocatorList = locs }
}

func WithDefaultOutLocators(locs LocatorList) ParticipantOption {
	return func(a *ParticipantAttributes) { a.DefaultOutLocatorList = locs }
}

func WithListenSocketBufferSize(size int) ParticipantOption {
	return func(a *ParticipantAttributes) { a.ListenSocketBufferSize = size }
}

func WithBuiltinConfig(cfg BuiltinConfig) ParticipantOption {
	return func(a *ParticipantAttributes) { a.Builtin = cfg }
}

func WithMaxAdaptationRetries(n int) ParticipantOption {
	return func(a *ParticipantAttributes) { a.MaxAdaptationRetries = n }
}
