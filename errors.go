// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import "errors"

// Error taxonomy (spec.md §7). Each is a sentinel compared with
// errors.Is; ResourceClosed is consumed internally by the listener
// loop (receiver.go) and never surfaces past it.
var (
	ErrDuplicateEntityId  = errors.New("rtps: entity id already registered")
	ErrInvalidLocator     = errors.New("rtps: invalid locator in endpoint attributes")
	ErrAllocationFailed   = errors.New("rtps: endpoint allocation failed")
	ErrReceiverBindFailed = errors.New("rtps: no receiver resource could be bound for locator")
	ErrDiscoveryInitFailed = errors.New("rtps: built-in discovery protocols failed to initialize")
	ErrInvalidConfig      = errors.New("rtps: operation requires static discovery configuration")
	ErrResourceClosed     = errors.New("rtps: receiver resource closed")
)
