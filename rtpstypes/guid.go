// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

import (
	"encoding/binary"
	"fmt"
)

// GuidPrefixLen is the length in bytes of a GuidPrefix.
const GuidPrefixLen = 12

// GuidPrefix identifies a participant within a DDS domain. It is
// opaque to the core: callers generate it (typically from a random
// source) and the participant treats it as a fixed value for its
// lifetime.
type GuidPrefix [GuidPrefixLen]byte

// UnknownGuidPrefix is the all-zero prefix used to represent "no
// participant".
var UnknownGuidPrefix = GuidPrefix{}

func (gp GuidPrefix) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x%02x%02x-%02x%02x%02x%02x",
		gp[0], gp[1], gp[2], gp[3], gp[4], gp[5], gp[6], gp[7], gp[8], gp[9], gp[10], gp[11])
}

// EntityKind is the value carried in byte 3 (the last wire byte) of
// an EntityID, masked to its low six bits (spec.md §4.1's byte-3
// table, EntityID layout in spec.md §6).
type EntityKind uint8

const (
	EntityKindUnknown       EntityKind = 0x00
	EntityKindWriterWithKey EntityKind = 0x02
	EntityKindWriterNoKey   EntityKind = 0x03
	EntityKindReaderNoKey   EntityKind = 0x04
	EntityKindReaderWithKey EntityKind = 0x07

	entityKindMask   = 0x3f
	entitySourceMask = 0xc0
	entitySourceUser = 0x00
	entitySourceBuiltin = 0xc0
)

// EntityID identifies an endpoint within a participant. On the wire it
// is 4 bytes in the order [b0, b1, b2, kind] where b0..b2 are the
// instance counter (little-endian, see IDCounterBytes) and kind is the
// byte-3 discriminator.
type EntityID [4]byte

// ParticipantEntityID is the fixed id of the participant itself
// (c_EntityId_RTPSParticipant in the original source).
var ParticipantEntityID = EntityID{0x00, 0x00, 0x01, 0xc1}

// Reserved built-in entity ids (spec.md §6). Never auto-assigned to
// user endpoints (invariant 4, spec.md §3). Values follow the
// original RTPS wire constants (ENTITYID_SPDP_BUILTIN_PARTICIPANT_*,
// ENTITYID_SEDP_BUILTIN_PUBLICATIONS_*,
// ENTITYID_SEDP_BUILTIN_SUBSCRIPTIONS_*,
// ENTITYID_P2P_BUILTIN_PARTICIPANT_MESSAGE_*) as catalogued in
// liamstask-go-rtps/rtps/id.go.
var (
	SPDPWriterID       = EntityID{0x00, 0x01, 0x00, 0xc2}
	SPDPReaderID       = EntityID{0x00, 0x01, 0x00, 0xc7}
	SEDPPubWriterID    = EntityID{0x00, 0x00, 0x03, 0xc2}
	SEDPPubReaderID    = EntityID{0x00, 0x00, 0x03, 0xc7}
	SEDPSubWriterID    = EntityID{0x00, 0x00, 0x04, 0xc2}
	SEDPSubReaderID    = EntityID{0x00, 0x00, 0x04, 0xc7}
	WriterLivelinessID = EntityID{0x00, 0x02, 0x00, 0xc2}
	ReaderLivelinessID = EntityID{0x00, 0x02, 0x00, 0xc7}
)

var reservedEntityIDs = map[EntityID]bool{
	SPDPWriterID:        true,
	SPDPReaderID:        true,
	SEDPPubWriterID:     true,
	SEDPPubReaderID:     true,
	SEDPSubWriterID:     true,
	SEDPSubReaderID:     true,
	WriterLivelinessID:  true,
	ReaderLivelinessID:  true,
	ParticipantEntityID: true,
}

// IsReserved reports whether id is one of the fixed builtin discovery
// entity ids (including the participant's own id).
func (id EntityID) IsReserved() bool {
	return reservedEntityIDs[id]
}

// Kind returns the byte-3 discriminator masked to its kind bits
// (source bits excluded).
func (id EntityID) Kind() EntityKind {
	return EntityKind(id[3] & entityKindMask)
}

// IsWriter reports whether id names a writer.
func (id EntityID) IsWriter() bool {
	switch id.Kind() {
	case EntityKindWriterNoKey, EntityKindWriterWithKey:
		return true
	}
	return false
}

// IsReader reports whether id names a reader.
func (id EntityID) IsReader() bool {
	switch id.Kind() {
	case EntityKindReaderNoKey, EntityKindReaderWithKey:
		return true
	}
	return false
}

// IsBuiltin reports whether id was assigned from the builtin source
// range (spec.md §6).
func (id EntityID) IsBuiltin() bool {
	return id[3]&entitySourceMask == entitySourceBuiltin
}

func (id EntityID) String() string {
	return fmt.Sprintf("%02x%02x%02x.%02x", id[0], id[1], id[2], id[3])
}

// IDCounterBytes renders the little-endian low 24 bits of n as the b0..b2
// prefix of an EntityID (spec.md §4.1: "bytes 0..2 are the
// little-endian low 24 bits of ... the post-increment of
// id_counter"). The original source's `octet* c = (octet*)&idnum;
// value[2]=c[0]; value[1]=c[1]; value[0]=c[2];` reverses this order;
// spec.md's concrete scenario (§8 "Auto id for keyed writer") picks
// the direct little-endian order instead, which is what this follows.
func IDCounterBytes(n uint32) [3]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return [3]byte{b[0], b[1], b[2]}
}

// GUID is the globally unique identifier of an endpoint: a
// participant's GuidPrefix plus an EntityID.
type GUID struct {
	Prefix GuidPrefix
	Entity EntityID
}

func (g GUID) Equal(other GUID) bool {
	return g.Prefix == other.Prefix && g.Entity == other.Entity
}

func (g GUID) Unknown() bool {
	return g.Prefix == UnknownGuidPrefix && g.Entity == EntityID{}
}

func (g GUID) String() string {
	return fmt.Sprintf("%s:%s", g.Prefix, g.Entity)
}

// Bytes renders the GUID in its 16-byte wire form (12-byte prefix +
// 4-byte entity id), per spec.md §6.
func (g GUID) Bytes() [16]byte {
	var b [16]byte
	copy(b[:GuidPrefixLen], g.Prefix[:])
	copy(b[GuidPrefixLen:], g.Entity[:])
	return b
}

// TrustedWriter maps a built-in discovery reader id to the unique
// remote writer it is allowed to accept data from (spec.md §4.6).
func TrustedWriter(reader EntityID) EntityID {
	switch reader {
	case SPDPReaderID:
		return SPDPWriterID
	case SEDPPubReaderID:
		return SEDPPubWriterID
	case SEDPSubReaderID:
		return SEDPSubWriterID
	case ReaderLivelinessID:
		return WriterLivelinessID
	default:
		return EntityID{}
	}
}
