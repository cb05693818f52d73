// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityIDKindClassification(t *testing.T) {
	assert.True(t, EntityID{0, 0, 1, byte(EntityKindWriterWithKey)}.IsWriter())
	assert.True(t, EntityID{0, 0, 1, byte(EntityKindWriterNoKey)}.IsWriter())
	assert.True(t, EntityID{0, 0, 1, byte(EntityKindReaderWithKey)}.IsReader())
	assert.True(t, EntityID{0, 0, 1, byte(EntityKindReaderNoKey)}.IsReader())
	assert.False(t, EntityID{0, 0, 1, byte(EntityKindWriterNoKey)}.IsReader())
	assert.False(t, EntityID{0, 0, 1, byte(EntityKindReaderNoKey)}.IsWriter())
}

func TestEntityIDSourceBit(t *testing.T) {
	// entitySourceBuiltin (0xc0) set on byte 3 marks a builtin id
	// regardless of its kind bits (spec.md §6).
	assert.True(t, SPDPWriterID.IsBuiltin())
	assert.True(t, SEDPPubReaderID.IsBuiltin())

	userWriter := EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}
	assert.False(t, userWriter.IsBuiltin())
}

func TestEntityIDReserved(t *testing.T) {
	for _, id := range []EntityID{
		SPDPWriterID, SPDPReaderID,
		SEDPPubWriterID, SEDPPubReaderID,
		SEDPSubWriterID, SEDPSubReaderID,
		WriterLivelinessID, ReaderLivelinessID,
		ParticipantEntityID,
	} {
		assert.True(t, id.IsReserved(), "expected %v to be reserved", id)
	}

	assert.False(t, EntityID{0x01, 0x00, 0x00, byte(EntityKindWriterWithKey)}.IsReserved())
}

func TestTrustedWriter(t *testing.T) {
	assert.Equal(t, SPDPWriterID, TrustedWriter(SPDPReaderID))
	assert.Equal(t, SEDPPubWriterID, TrustedWriter(SEDPPubReaderID))
	assert.Equal(t, SEDPSubWriterID, TrustedWriter(SEDPSubReaderID))
	assert.Equal(t, WriterLivelinessID, TrustedWriter(ReaderLivelinessID))
	assert.Equal(t, EntityID{}, TrustedWriter(EntityID{0x01, 0x00, 0x00, byte(EntityKindReaderWithKey)}))
}

// TestIDCounterBytesWorkedExample pins down spec.md §8 scenario 1: the
// first auto-allocated keyed RELIABLE writer, starting from
// id_counter=0, must get entity_id = [0x01, 0x00, 0x00, 0x02].
func TestIDCounterBytesWorkedExample(t *testing.T) {
	b := IDCounterBytes(1)
	got := EntityID{b[0], b[1], b[2], byte(EntityKindWriterWithKey)}
	assert.Equal(t, EntityID{0x01, 0x00, 0x00, 0x02}, got)
}

func TestIDCounterBytesLittleEndian(t *testing.T) {
	b := IDCounterBytes(0x00010203)
	assert.Equal(t, [3]byte{0x03, 0x02, 0x01}, b)
}

func TestGUIDBytes(t *testing.T) {
	prefix := GuidPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	entity := EntityID{0xaa, 0xbb, 0xcc, 0xdd}
	g := GUID{Prefix: prefix, Entity: entity}

	got := g.Bytes()
	assert.Equal(t, prefix[:], got[:GuidPrefixLen])
	assert.Equal(t, entity[:], got[GuidPrefixLen:])
}

func TestGUIDEqualAndUnknown(t *testing.T) {
	a := GUID{Prefix: GuidPrefix{1}, Entity: EntityID{1}}
	b := GUID{Prefix: GuidPrefix{1}, Entity: EntityID{1}}
	c := GUID{Prefix: GuidPrefix{2}, Entity: EntityID{1}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, GUID{}.Unknown())
	assert.False(t, a.Unknown())
}
