// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import "sync"

// EndpointRegistry maintains the four indices named in spec.md §4.1
// (all_writers, all_readers, user_writers, user_readers) plus a
// monotonic id counter, and performs EntityID allocation. Grounded on
// RTPSParticipantImpl::existsEntityId and the byte-3 assignment block
// shared by createWriter/createReader in
// original_source/.../RTPSParticipantImpl.cpp.
type EndpointRegistry struct {
	mu sync.Mutex

	allWriters  map[EntityID]Endpoint
	allReaders  map[EntityID]Endpoint
	userWriters map[EntityID]Endpoint
	userReaders map[EntityID]Endpoint

	idCounter uint32
	log       *Logger
}

func newEndpointRegistry(log *Logger) *EndpointRegistry {
	return &EndpointRegistry{
		allWriters:  make(map[EntityID]Endpoint),
		allReaders:  make(map[EntityID]Endpoint),
		userWriters: make(map[EntityID]Endpoint),
		userReaders: make(map[EntityID]Endpoint),
		log:         log,
	}
}

// allocateEntityID implements spec.md §4.1's
// allocate_entity_id(requested, kind, topicKind). The caller still
// must check exists() separately: this function only derives the id,
// it never rejects it.
func (r *EndpointRegistry) allocateEntityID(requested EntityID, kind EndpointKind, topicKind TopicKind, entityNumber uint32) EntityID {
	if requested != (EntityID{}) {
		return requested
	}

	var kindByte byte
	switch {
	case kind == Writer && topicKind == NoKey:
		kindByte = byte(EntityKindWriterNoKey)
	case kind == Writer && topicKind == WithKey:
		kindByte = byte(EntityKindWriterWithKey)
	case kind == Reader && topicKind == NoKey:
		kindByte = byte(EntityKindReaderNoKey)
	case kind == Reader && topicKind == WithKey:
		kindByte = byte(EntityKindReaderWithKey)
	}

	var idnum uint32
	r.mu.Lock()
	if entityNumber > 0 {
		idnum = entityNumber
	} else {
		r.idCounter++
		idnum = r.idCounter
	}
	r.mu.Unlock()

	b := IDCounterBytes(idnum)
	return EntityID{b[0], b[1], b[2], kindByte}
}

// exists reports whether a user endpoint of the given kind already
// holds entityID (spec.md §4.1's exists(entity_id, kind)).
func (r *EndpointRegistry) exists(entityID EntityID, kind EndpointKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == Writer {
		_, ok := r.userWriters[entityID]
		return ok
	}
	_, ok := r.userReaders[entityID]
	return ok
}

// registerWriter inserts w into all_writers and, unless builtin, into
// user_writers.
func (r *EndpointRegistry) registerWriter(w Endpoint, builtin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allWriters[w.GUID().Entity] = w
	if !builtin {
		r.userWriters[w.GUID().Entity] = w
	}
}

func (r *EndpointRegistry) registerReader(rd Endpoint, builtin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allReaders[rd.GUID().Entity] = rd
	if !builtin {
		r.userReaders[rd.GUID().Entity] = rd
	}
}

// removeUserEndpoint removes ep from the all/user indices for its
// kind, reporting whether it was found (spec.md §4.6
// delete_user_endpoint).
func (r *EndpointRegistry) removeUserEndpoint(ep Endpoint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ep.GUID().Entity
	switch ep.Attributes().Kind {
	case Writer:
		if _, ok := r.userWriters[id]; !ok {
			return false
		}
		delete(r.userWriters, id)
		delete(r.allWriters, id)
	case Reader:
		if _, ok := r.userReaders[id]; !ok {
			return false
		}
		delete(r.userReaders, id)
		delete(r.allReaders, id)
	}
	return true
}

// removeAny removes ep from whichever indices currently hold it,
// user or built-in alike (used during participant shutdown, spec.md
// §3 "Destroyed by first removing every user endpoint, then the
// built-in endpoints").
func (r *EndpointRegistry) removeAny(ep Endpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ep.GUID().Entity
	switch ep.Attributes().Kind {
	case Writer:
		delete(r.userWriters, id)
		delete(r.allWriters, id)
	case Reader:
		delete(r.userReaders, id)
		delete(r.allReaders, id)
	}
}

// userEndpoints returns a snapshot of all current user writers and
// readers.
func (r *EndpointRegistry) userEndpoints() []Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Endpoint, 0, len(r.userWriters)+len(r.userReaders))
	for _, w := range r.userWriters {
		out = append(out, w)
	}
	for _, rd := range r.userReaders {
		out = append(out, rd)
	}
	return out
}

// builtinEndpoints returns a snapshot of every registered endpoint
// that is not a user endpoint.
func (r *EndpointRegistry) builtinEndpoints() []Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Endpoint, 0)
	for id, w := range r.allWriters {
		if _, ok := r.userWriters[id]; !ok {
			out = append(out, w)
		}
	}
	for id, rd := range r.allReaders {
		if _, ok := r.userReaders[id]; !ok {
			out = append(out, rd)
		}
	}
	return out
}

func (r *EndpointRegistry) userWriterCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userWriters)
}

func (r *EndpointRegistry) userReaderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userReaders)
}
