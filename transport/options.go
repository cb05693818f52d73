// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

// Option configures a NetworkFactory, following the teacher's
// functional-options pattern (core_options.go's `Option func(s
// *socket)`).
type Option func(*NetworkFactory)

// WithReadBufferSize sets the OS-level receive buffer size requested
// for every receiver socket the factory builds afterward.
func WithReadBufferSize(bytes int) Option {
	return func(f *NetworkFactory) { f.readBufferSize = bytes }
}

// NewNetworkFactoryWithOptions builds a factory and applies opts.
func NewNetworkFactoryWithOptions(opts ...Option) *NetworkFactory {
	f := NewNetworkFactory()
	for _, opt := range opts {
		opt(f)
	}
	return f
}
