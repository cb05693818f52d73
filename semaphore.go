// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// resourceSemaphoreCapacity bounds how many outstanding posts a
// resourceSemaphore can accumulate before a waiter drains them; well
// above any realistic number of concurrent discovery subtasks
// (spec.md §5).
const resourceSemaphoreCapacity = 1 << 20

// resourceSemaphore is the counting semaphore named in spec.md §5
// (post()/wait()), for callers that must wait for a countable number
// of subordinate tasks to complete; it is reached only through
// Participant.ResourceSemaphorePost/ResourceSemaphoreWait. Built on
// golang.org/x/sync/semaphore.Weighted, started fully acquired so
// that wait() blocks until at least one post() has occurred, mirroring
// a POSIX counting semaphore initialised to zero.
type resourceSemaphore struct {
	sem *semaphore.Weighted
}

func newResourceSemaphore() *resourceSemaphore {
	s := &resourceSemaphore{sem: semaphore.NewWeighted(resourceSemaphoreCapacity)}
	_ = s.sem.Acquire(context.Background(), resourceSemaphoreCapacity)
	return s
}

// Post implements spec.md §5's post(): signals one unit of completed
// subordinate work.
func (s *resourceSemaphore) Post() {
	s.sem.Release(1)
}

// Wait implements spec.md §5's wait(): blocks until a unit is
// available or ctx is done.
func (s *resourceSemaphore) Wait(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}
