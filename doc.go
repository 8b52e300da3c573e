// Package parsort provides an in-place parallel hybrid sort that runs on a
// caller-supplied fixed-capacity worker pool. While Go is primarily designed
// for concurrent programming, it is also usable to some extent for parallel
// programming, and this library turns the otherwise sequential work of
// sorting a slice into a parallel algorithm, with the goal to improve
// performance on multi-core machines without spawning any goroutines of its
// own.
//
// The algorithm borrows quicksort's partitioning to subdivide the input into
// disjoint sub-ranges, each sorted on its own worker, and falls back on a
// trusted sequential sort once a sub-range becomes too small or the thread
// budget is exhausted. There is no locking around slice access at all,
// because each subdivision is exclusively owned by the task sorting it.
//
// Parsort provides the following subpackages:
//
// parsort/sort provides the sorting algorithm itself, parameterized over a
// Pool and an ordering.
//
// parsort/pool provides a fixed-capacity worker pool that satisfies the Pool
// contract, for callers that do not already manage one.
//
// The root package only declares the contracts shared by the subpackages.
package parsort
