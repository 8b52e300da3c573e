/*
Package sort provides an in-place parallel hybrid sort that distributes its
work across a caller-supplied worker pool.

The sort recursively partitions the requested range the way quicksort does,
hands one side of every split to the pool, continues on the other side in the
submitting goroutine, and falls back on a sequential sort once a sub-range is
too small or the permit budget is exhausted. Every sub-range is exclusively
owned by the task sorting it, so slice access needs no synchronization; the
only blocking point of a whole sort is the final wait of the coordinator.

All functions in this package are safe for concurrent use: independent sorts
may share one pool without interfering with each other.
*/
package sort

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"

	"github.com/parsort/parsort"
)

// ErrInvalidRange is reported when a requested range does not fit the slice,
// before any element has been touched.
var ErrInvalidRange = errors.New("sort: invalid range")

// Sort sorts a in increasing order using pool, with the default permit
// budget of min(pool.MaxWorkers(), runtime.GOMAXPROCS(0)).
func Sort[T constraints.Ordered](pool parsort.Pool, a []T) error {
	return sortRange(context.Background(), pool, a, 0, len(a), 0, ordered[T])
}

// SortContext is Sort with a context bounding the coordinator's wait. If ctx
// is canceled before the sort completes, the context's error is returned and
// a is left in an unspecified, partially processed state.
func SortContext[T constraints.Ordered](ctx context.Context, pool parsort.Pool, a []T) error {
	return sortRange(ctx, pool, a, 0, len(a), 0, ordered[T])
}

// SortFunc sorts a using pool with less as the ordering and the default
// permit budget.
func SortFunc[T any](pool parsort.Pool, a []T, less parsort.Less[T]) error {
	return sortRange(context.Background(), pool, a, 0, len(a), 0, less)
}

// SortRange sorts a[base:onePastEnd] in increasing order using pool.
// Elements outside the range are not touched.
//
// The permits parameter bounds how many pool workers the sort may occupy
// simultaneously. Zero selects the default budget; one (or less) sorts
// sequentially on the calling goroutine without involving the pool at all.
func SortRange[T constraints.Ordered](pool parsort.Pool, a []T, base, onePastEnd, permits int) error {
	return sortRange(context.Background(), pool, a, base, onePastEnd, permits, ordered[T])
}

// SortRangeFunc is SortRange with less as the ordering.
func SortRangeFunc[T any](pool parsort.Pool, a []T, base, onePastEnd, permits int, less parsort.Less[T]) error {
	return sortRange(context.Background(), pool, a, base, onePastEnd, permits, less)
}

// SortRangeFuncContext is SortRangeFunc with a context bounding the
// coordinator's wait, and offers full control over the sort.
func SortRangeFuncContext[T any](ctx context.Context, pool parsort.Pool, a []T, base, onePastEnd, permits int, less parsort.Less[T]) error {
	return sortRange(ctx, pool, a, base, onePastEnd, permits, less)
}

func ordered[T constraints.Ordered](a, b T) bool {
	return a < b
}

/*
sortRange validates the request, fills in the defaults, and coordinates one
sort: it creates the completion barrier, runs the root task synchronously on
the calling goroutine, and blocks until all permits have been returned.

Running the root task in the caller's context rather than on the pool
guarantees that at least one goroutine makes progress even when the pool is
saturated, and cannot deadlock when the caller itself is a pool worker.

Over its lifetime a sort submits at most permits-1 tasks to the pool. If the
comparison function panics on any worker, the panic is rethrown here on the
calling goroutine once the barrier clears.
*/
func sortRange[T any](ctx context.Context, pool parsort.Pool, a []T, base, onePastEnd, permits int, less parsort.Less[T]) error {
	if base < 0 || onePastEnd > len(a) || base > onePastEnd {
		return fmt.Errorf("%w: %v:%v with slice length %v", ErrInvalidRange, base, onePastEnd, len(a))
	}
	if onePastEnd-base <= 1 {
		return nil
	}
	if permits == 0 {
		permits = defaultPermits(pool)
	}
	if permits <= 1 {
		slices.SortFunc(a[base:onePastEnd], less)
		return nil
	}

	s := &sorter[T]{
		a:    a,
		less: less,
		pool: pool,
		done: newCompletion(permits),
	}
	root := &subSort[T]{sorter: s, permits: permits, base: base, onePastEnd: onePastEnd}
	root.run()

	if err := s.done.await(ctx, permits); err != nil {
		return err
	}
	if p := s.firstFault(); p != nil {
		panic(p)
	}
	return s.firstErr()
}

// defaultPermits is the lesser of the pool capacity and the number of
// logical CPUs. Permits beyond the CPU count buy nothing for an in-memory
// sort.
func defaultPermits(pool parsort.Pool) int {
	permits := runtime.GOMAXPROCS(0)
	if max := pool.MaxWorkers(); max < permits {
		permits = max
	}
	return permits
}

// sorter holds the state shared by all tasks of one sort. The slice itself
// is partitioned by disjoint ownership; only the barrier and the failure
// slots are ever touched from more than one goroutine.
type sorter[T any] struct {
	a    []T
	less parsort.Less[T]
	pool parsort.Pool
	done *completion

	mu    sync.Mutex
	err   error       // first rejected submission
	fault interface{} // first recovered comparison panic, already wrapped
}

func (s *sorter[T]) sequentialSort(i, j int) {
	slices.SortFunc(s.a[i:j], s.less)
}

// fail records the first fatal submission error of the sort.
func (s *sorter[T]) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

// trip records the first panic recovered by a task of the sort.
func (s *sorter[T]) trip(p interface{}) {
	s.mu.Lock()
	if s.fault == nil {
		s.fault = p
	}
	s.mu.Unlock()
}

func (s *sorter[T]) firstErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *sorter[T]) firstFault() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}
