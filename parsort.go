package parsort

type (
	// A Task is a unit of work handed to a Pool. It neither receives nor
	// returns any parameters; everything it operates on is captured by the
	// closure.
	Task func()

	// A Less function reports whether a should sort before b. It must
	// describe a strict weak ordering, must be safe for concurrent use, and
	// must not mutate its arguments. This is a caller obligation; it is not
	// enforced at runtime.
	Less[T any] func(a, b T) bool
)

/*
Pool is the submission contract of an externally managed worker pool, as
expected by the sorting functions in parsort/sort.

The pool is an injected dependency: parsort never constructs, sizes, or shuts
down a pool, and never holds one in package state. Implementations must be
safe for concurrent use by multiple simultaneous callers, and a successful
Execute must guarantee that the task eventually runs on some worker.
Execute must not block the submitting goroutine waiting for a worker;
implementations with a bounded queue report overload through the error value
instead. parsort/pool provides a ready-made implementation.
*/
type Pool interface {
	// Execute schedules task to run on some worker. A non-nil error means
	// the task was not and will never be scheduled.
	Execute(task Task) error

	// MaxWorkers returns the maximum number of tasks the pool can run
	// simultaneously.
	MaxWorkers() int
}
