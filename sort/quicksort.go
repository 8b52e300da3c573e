package sort

import (
	"fmt"
	"math"

	"github.com/parsort/parsort"
	"github.com/parsort/parsort/internal"
)

// Range size below which further subdivision is not worth the scheduling
// overhead. For any decently sized input the permit budget runs out first.
const minSegment = 0x100

// subSort owns the disjoint sub-range [base, onePastEnd) of one sort and a
// permit budget of at least one. A task ends either as a leaf, sorting its
// range sequentially and returning its permits to the barrier, or by
// splitting: the high side goes to the pool as a new task and this task
// continues on the low side in place.
type subSort[T any] struct {
	*sorter[T]
	permits    int
	base       int
	onePastEnd int
}

// run executes the task on the current goroutine: the coordinator calls it
// for the root task, pool workers call it for everything else. A panicking
// comparison is recorded and the permits are still returned, so a faulty
// ordering surfaces on the coordinator instead of stalling its wait.
func (t *subSort[T]) run() {
	defer func() {
		if p := recover(); p != nil {
			t.trip(internal.WrapPanic(p))
			t.done.release(t.permits)
		}
	}()
	t.sort()
}

// sort is the partition-and-dispatch loop. It is written as a loop rather
// than recursing on the surviving half, so stack depth stays constant no
// matter how skewed the partitioning runs.
func (t *subSort[T]) sort() {
	for {
		if t.permits == 1 || t.onePastEnd-t.base < minSegment {
			t.sequentialSort(t.base, t.onePastEnd)
			t.done.release(t.permits)
			return
		}

		mid := t.partition(t.base, t.onePastEnd)

		// Provision permits between the two sides proportionally to
		// their sizes, so the larger sub-problem gets more parallelism.
		// Each side keeps at least one permit.
		low, high := mid-t.base, t.onePastEnd-mid
		split := int(math.Round(float64(t.permits) * float64(low) / float64(low+high)))
		if split < 1 {
			split = 1
		} else if split == t.permits {
			split = t.permits - 1
		}

		child := &subSort[T]{
			sorter:     t.sorter,
			permits:    t.permits - split,
			base:       mid,
			onePastEnd: t.onePastEnd,
		}
		if err := t.pool.Execute(child.run); err != nil {
			// A rejected submission is fatal for the whole sort; there
			// is no retry path. The budget has not been split yet, so
			// releasing it whole also covers the never-scheduled child
			// and the coordinator unblocks to report the error.
			t.fail(fmt.Errorf("sort: submitting partition task: %w", err))
			t.done.release(t.permits)
			return
		}

		// Tail loop: reuse this task and goroutine for the low side.
		t.permits = split
		t.onePastEnd = mid
	}
}

/*
partition selects a median-of-three pivot for [base, onePastEnd) and
rearranges the range in place around it. It returns a boundary mid with
base < mid < onePastEnd such that no element of a[base:mid] is ordered after
any element of a[mid:onePastEnd]. The pivot itself may come to rest anywhere
left of the boundary.

Both scan loops stop on elements comparing equal to the pivot. The pivot sits
at the front of the range, so neither scan can leave it, and ranges of all
equal elements split near the middle instead of looping. Because both sides
of the boundary are always non-empty, every split makes progress regardless
of how the permit clamp rounds.
*/
func (s *sorter[T]) partition(base, onePastEnd int) int {
	a, less := s.a, s.less

	// Sample at one sixth, one half, and five sixths of the range. Taking
	// the samples away from the ends avoids outliers that tend to be stuck
	// there in nearly sorted input.
	n := onePastEnd - base
	m := medianOfThree(a, less, base+n/6, base+n/2, base+(5*n)/6)
	if m != base {
		a[base], a[m] = a[m], a[base]
	}
	pivot := a[base]

	lo, hi := base-1, onePastEnd
	for {
		// Skip down over items that belong in the high section.
		for {
			hi--
			if !less(pivot, a[hi]) {
				break
			}
		}
		// Skip up over items that belong in the low section.
		for {
			lo++
			if !less(a[lo], pivot) {
				break
			}
		}
		if lo >= hi {
			return hi + 1
		}
		a[lo], a[hi] = a[hi], a[lo]
	}
}

// medianOfThree returns whichever of i, j, k indexes the median of the three
// sampled elements, using two comparisons when j holds the median and three
// otherwise.
func medianOfThree[T any](a []T, less parsort.Less[T], i, j, k int) int {
	if less(a[j], a[i]) {
		if less(a[k], a[j]) { // a[i] > a[j] && a[j] > a[k]
			return j
		} else if less(a[k], a[i]) { // a[i] > a[j] && a[j] <= a[k] && a[i] > a[k]
			return k
		}
		return i // a[i] > a[j] && a[j] <= a[k] && a[i] <= a[k]
	}
	if !less(a[k], a[j]) { // a[i] <= a[j] && a[j] <= a[k]
		return j
	} else if less(a[k], a[i]) { // a[i] <= a[j] && a[j] > a[k] && a[i] > a[k]
		return i
	}
	return k // a[i] <= a[j] && a[j] > a[k] && a[i] <= a[k]
}
