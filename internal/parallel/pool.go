// Package parallel runs independent equilibrium searches concurrently.
// Each task owns its own constraint store; the pool only bounds how many
// run at once and collects results in submission order.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// WorkerPool manages a fixed set of goroutines executing submitted tasks.
// Submit blocks once the queue is full, which bounds memory when a caller
// submits many searches at once.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), maxWorkers*2),
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		task()
	}
}

// Submit queues task for execution, blocking while the queue is full.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for every queued and running
// task to finish.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskChan)
		wp.mu.Unlock()
		wp.workerWg.Wait()
	})
}

// Outcome is the result of one task run by Map.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Map runs fn(ctx, i) for i in [0, n) on the pool and returns the outcomes
// indexed by i. Tasks that could not be submitted carry the submission
// error.
func Map[T any](ctx context.Context, wp *WorkerPool, n int, fn func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			v, err := fn(ctx, i)
			out[i] = Outcome[T]{Value: v, Err: err}
		})
		if err != nil {
			wg.Done()
			out[i].Err = err
		}
	}
	wg.Wait()
	return out
}
