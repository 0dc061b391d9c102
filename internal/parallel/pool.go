// Package parallel runs independent file jobs (decode, encode) on a fixed
// set of goroutines.
package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// ErrClosed is returned by Map when the pool has been closed.
var ErrClosed = errors.New("parallel: pool closed")

// task is one index of a Map call. Results land in the caller's slot.
type task struct {
	i   int
	fn  func(i int) error
	err *error
	wg  *sync.WaitGroup
}

func (t task) run() {
	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			*t.err = fmt.Errorf("parallel: item %d panicked: %v", t.i, r)
		}
	}()
	*t.err = t.fn(t.i)
}

// WorkerPool is a fixed set of goroutines reading from one shared queue.
//
// WorkerPool is safe for concurrent use. Close waits for calls that are
// still queueing work.
type WorkerPool struct {
	workers int
	tasks   chan task

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWorkerPool starts a pool with the given number of workers.
// Zero or negative uses GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		tasks:   make(chan task, workers*2),
	}
	p.wg.Add(workers)
	for range workers {
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				t.run()
			}
		}()
	}
	return p
}

// Map calls fn(i) for i in [0, n) on the pool and waits for all of them.
// Every index runs even after a failure; the error of the lowest failing
// index is returned. A panic in fn is reported as that index's error.
func (p *WorkerPool) Map(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)
	var wg sync.WaitGroup

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	wg.Add(n)
	for i := range n {
		p.tasks <- task{i: i, fn: fn, err: &errs[i], wg: &wg}
	}
	p.mu.RUnlock()

	wg.Wait()
	return firstError(errs)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ExecuteAll runs every function and waits for all of them.
// It is a no-op on a closed pool.
func (p *WorkerPool) ExecuteAll(work []func()) {
	_ = p.Map(len(work), func(i int) error {
		work[i]()
		return nil
	})
}

// Close finishes queued work and stops the workers. It is safe to call
// more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}
