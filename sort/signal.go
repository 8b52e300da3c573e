package sort

import (
	"context"

	"golang.org/x/sync/semaphore"
)

/*
A completion is the counting barrier one sort blocks on to learn that every
index of its range has been covered by exactly one leaf task.

The counter starts at zero. Every terminal task returns its whole permit
budget with release, the sum of all releases of one sort equals the root
budget, and exactly one await for that total can succeed. Tasks never block
on a completion; the coordinator is the only goroutine that ever waits.
*/
type completion struct {
	sem *semaphore.Weighted
}

func newCompletion(permits int) *completion {
	sem := semaphore.NewWeighted(int64(permits))
	// Drain the semaphore up front so that it counts upwards from zero:
	// release adds permits, await consumes them.
	if !sem.TryAcquire(int64(permits)) {
		panic("sort: fresh semaphore cannot be contended")
	}
	return &completion{sem: sem}
}

// release returns n permits to the barrier. It never blocks.
func (c *completion) release(n int) {
	c.sem.Release(int64(n))
}

// await blocks until n permits are simultaneously available and consumes
// them atomically. It unblocks early with the context's error when ctx is
// canceled; permits released after that stay with the barrier.
func (c *completion) await(ctx context.Context, n int) error {
	return c.sem.Acquire(ctx, int64(n))
}
