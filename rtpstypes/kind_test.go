// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpstypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointKindString(t *testing.T) {
	assert.Equal(t, "WRITER", Writer.String())
	assert.Equal(t, "READER", Reader.String())
}
