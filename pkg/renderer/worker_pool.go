package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TaskFunc renders one task. Each worker owns its TaskFunc, so per-worker
// state such as a camera copy or random source lives in its closure.
type TaskFunc func(task Task) error

// WorkerPool runs one leader goroutine that feeds tasks into a bounded queue
// and a fixed number of workers that drain it
type WorkerPool struct {
	numWorkers int
	queueSize  int
}

// NewWorkerPool creates a pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		queueSize:  max(1, queueSize),
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every task of divider and returns once the leader and all
// workers have exited. newWorker is called once per worker before it starts.
// The first error, panic or cancellation stops the queue and is returned;
// tasks already taken by other workers are finished first.
func (wp *WorkerPool) Run(ctx context.Context, divider *TaskDivider, newWorker func(id int) TaskFunc) error {
	queue := NewBoundedQueue[Task](wp.queueSize)
	g, ctx := errgroup.WithContext(ctx)

	// Wakes a leader blocked on a full queue once the render is cancelled
	release := context.AfterFunc(ctx, queue.Stop)
	defer release()

	g.Go(func() error {
		defer queue.Stop()
		for {
			task, ok := divider.Next()
			if !ok {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := queue.Push(task); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return fmt.Errorf("leader: %w", err)
			}
		}
	})

	for id := 0; id < wp.numWorkers; id++ {
		work := newWorker(id)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d panicked: %v", id, r)
				}
			}()

			for {
				task, ok := queue.Pop()
				if !ok {
					return ctx.Err()
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := work(task); err != nil {
					return fmt.Errorf("worker %d: %w", id, err)
				}
			}
		})
	}

	return g.Wait()
}
