/*
Package pool provides a fixed-capacity worker pool that satisfies the
parsort.Pool submission contract, for callers that do not already manage one.

The pool owns a fixed set of worker goroutines draining a shared bounded
queue. Submission never blocks: when the queue is full, Execute reports
ErrQueueFull instead of waiting, so a submitting worker can never deadlock
on its own pool.
*/
package pool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/parsort/parsort"
)

var (
	// ErrNilTask is reported when a nil task is submitted.
	ErrNilTask = errors.New("pool: nil task")

	// ErrShutdown is reported when a task is submitted after Shutdown.
	ErrShutdown = errors.New("pool: shut down")

	// ErrQueueFull is reported when the task queue is at capacity. The
	// task has not been scheduled and will not run.
	ErrQueueFull = errors.New("pool: queue full")
)

const defaultQueueSize = 0x100

const (
	stateRunning int32 = iota
	stateStopped
)

// An Option configures a Pool.
type Option func(*Pool)

// WithQueueSize sets the capacity of the task queue. The default is 256.
func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithPanicHandler installs a handler for panics escaping submitted tasks.
// Without a handler such panics are swallowed after the worker recovers, and
// the worker keeps running either way.
func WithPanicHandler(handler func(interface{})) Option {
	return func(p *Pool) {
		p.panicHandler = handler
	}
}

// Pool is a fixed-capacity worker pool. All methods are safe for concurrent
// use, except that Shutdown must not race with Execute: stop submitting
// before shutting down, or queued work may be accepted and never run.
type Pool struct {
	workers      int
	queueSize    int
	panicHandler func(interface{})

	tasks chan parsort.Task
	quit  chan struct{}
	wg    sync.WaitGroup
	state int32 // atomic
}

// New creates a pool of the given number of workers and starts them. The
// pool keeps running until Shutdown.
func New(workers int, options ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers:   workers,
		queueSize: defaultQueueSize,
	}
	for _, option := range options {
		option(p)
	}
	p.tasks = make(chan parsort.Task, p.queueSize)
	p.quit = make(chan struct{})
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

// Execute schedules task to run on some worker. It never blocks; a non-nil
// error means the task was not and will never be scheduled.
func (p *Pool) Execute(task parsort.Task) error {
	if task == nil {
		return ErrNilTask
	}
	if atomic.LoadInt32(&p.state) != stateRunning {
		return ErrShutdown
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// MaxWorkers returns the number of workers.
func (p *Pool) MaxWorkers() int {
	return p.workers
}

// Shutdown stops accepting tasks, runs whatever is still queued, and
// returns once all workers have exited. It is idempotent.
func (p *Pool) Shutdown() {
	if atomic.CompareAndSwapInt32(&p.state, stateRunning, stateStopped) {
		close(p.quit)
	}
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			p.invoke(task)
		case <-p.quit:
			// Drain the queue before exiting.
			for {
				select {
				case task := <-p.tasks:
					p.invoke(task)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) invoke(task parsort.Task) {
	defer func() {
		if r := recover(); r != nil && p.panicHandler != nil {
			p.panicHandler(r)
		}
	}()
	task()
}
