// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package discovery

import "sync"

// topic holds the local and remote endpoints registered under one
// topic name, the RTPS/SEDP analogue of a zyre/group.go Group — the
// "membership" here is publication/subscription matching rather than
// chat-room membership, so there is no message fan-out, only the
// match bookkeeping.
type topic struct {
	name          string
	localWriters  map[GUID]EndpointInfo
	localReaders  map[GUID]EndpointInfo
	remoteWriters map[GUID]EndpointInfo
	remoteReaders map[GUID]EndpointInfo
}

func newTopic(name string) *topic {
	return &topic{
		name:          name,
		localWriters:  make(map[GUID]EndpointInfo),
		localReaders:  make(map[GUID]EndpointInfo),
		remoteWriters: make(map[GUID]EndpointInfo),
		remoteReaders: make(map[GUID]EndpointInfo),
	}
}

// topicDirectory indexes topics by name and matches local endpoints
// against remote ones as they are registered, grounded on
// zyre/group.go's GroupManager minus the command-channel indirection
// — matching is a short, non-blocking map operation here, not a
// fan-out broadcast, so a plain mutex is the idiomatic fit (the
// teacher itself reserves the channel-command pattern for operations
// that cross goroutine boundaries, which topic matching does not).
type topicDirectory struct {
	mu     sync.RWMutex
	topics map[string]*topic
	events *eventBus
}

func newTopicDirectory(events *eventBus) *topicDirectory {
	return &topicDirectory{topics: make(map[string]*topic), events: events}
}

func (d *topicDirectory) topicFor(name string) *topic {
	t, ok := d.topics[name]
	if !ok {
		t = newTopic(name)
		d.topics[name] = t
	}
	return t
}

// addLocalWriter registers a local writer and matches it against any
// already-known remote readers on the same topic.
func (d *topicDirectory) addLocalWriter(ep EndpointInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.topicFor(ep.TopicName)
	t.localWriters[ep.GUID] = ep
	for remote := range t.remoteReaders {
		d.publishMatch(ep.TopicName, remote)
	}
}

// addLocalReader registers a local reader and matches it against any
// already-known remote writers on the same topic.
func (d *topicDirectory) addLocalReader(ep EndpointInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.topicFor(ep.TopicName)
	t.localReaders[ep.GUID] = ep
	for remote := range t.remoteWriters {
		d.publishMatch(ep.TopicName, remote)
	}
}

func (d *topicDirectory) removeLocalWriter(guid GUID, topicName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.topics[topicName]; ok {
		delete(t.localWriters, guid)
	}
}

func (d *topicDirectory) removeLocalReader(guid GUID, topicName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.topics[topicName]; ok {
		delete(t.localReaders, guid)
	}
}

// observeRemoteWriter/observeRemoteReader record a remote endpoint
// learned via SEDP and match it against local endpoints.
func (d *topicDirectory) observeRemoteWriter(ep EndpointInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.topicFor(ep.TopicName)
	if _, known := t.remoteWriters[ep.GUID]; known {
		return
	}
	t.remoteWriters[ep.GUID] = ep
	if len(t.localReaders) > 0 {
		d.publishMatch(ep.TopicName, ep.GUID)
	}
}

func (d *topicDirectory) observeRemoteReader(ep EndpointInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.topicFor(ep.TopicName)
	if _, known := t.remoteReaders[ep.GUID]; known {
		return
	}
	t.remoteReaders[ep.GUID] = ep
	if len(t.localWriters) > 0 {
		d.publishMatch(ep.TopicName, ep.GUID)
	}
}

func (d *topicDirectory) publishMatch(topicName string, remote GUID) {
	if d.events == nil {
		return
	}
	d.events.Publish(newEvent(EventEndpointMatched, GuidPrefix{}, topicName, remote))
}
