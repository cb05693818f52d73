// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

// EndpointKind distinguishes a writer from a reader (spec.md §3). It
// lives in this leaf package (rather than alongside the rest of
// EndpointAttributes) because the discovery collaborator's
// EndpointInfo needs it too, and discovery must not import the root
// package.
type EndpointKind int

const (
	Writer EndpointKind = iota
	Reader
)

func (k EndpointKind) String() string {
	if k == Writer {
		return "WRITER"
	}
	return "READER"
}
