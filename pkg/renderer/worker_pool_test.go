package renderer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRendersEveryTaskOnce(t *testing.T) {
	pool := NewWorkerPool(4, 2)
	divider := NewTaskDivider(50, 30, 7, 3)
	want := divider.Count()

	var mu sync.Mutex
	seen := make(map[Task]int)
	workers := make(map[int]bool)

	err := pool.Run(context.Background(), divider, func(id int) TaskFunc {
		mu.Lock()
		workers[id] = true
		mu.Unlock()
		return func(task Task) error {
			mu.Lock()
			seen[task]++
			mu.Unlock()
			return nil
		}
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != want {
		t.Errorf("Expected %d distinct tasks, got %d", want, len(seen))
	}
	for task, n := range seen {
		if n != 1 {
			t.Errorf("Task %v rendered %d times", task.Bounds, n)
		}
	}
	if len(workers) != 4 {
		t.Errorf("Expected 4 workers, got %d", len(workers))
	}
}

func TestWorkerPoolDefaultsToCPUCount(t *testing.T) {
	if n := NewWorkerPool(0, 10).GetNumWorkers(); n < 1 {
		t.Errorf("Expected at least one worker, got %d", n)
	}
}

func TestWorkerPoolPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	var rendered atomic.Int64

	// A tiny queue forces the leader to block while the failure happens
	pool := NewWorkerPool(3, 1)
	err := pool.Run(context.Background(), NewTaskDivider(100, 100, 1, 1), func(id int) TaskFunc {
		return func(task Task) error {
			if rendered.Add(1) == 50 {
				return boom
			}
			return nil
		}
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Expected the worker error, got %v", err)
	}
	if n := rendered.Load(); n >= 100*100 {
		t.Errorf("Expected the render to stop early, rendered %d tasks", n)
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	err := pool.Run(context.Background(), NewTaskDivider(10, 10, 2, 2), func(id int) TaskFunc {
		return func(task Task) error {
			if task.Bounds.Min.X == 4 && task.Bounds.Min.Y == 4 {
				panic("bad pixel")
			}
			return nil
		}
	})

	if err == nil || !strings.Contains(err.Error(), "bad pixel") {
		t.Errorf("Expected the panic to be returned as an error, got %v", err)
	}
}

func TestWorkerPoolCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var rendered atomic.Int64

	pool := NewWorkerPool(2, 1)
	err := pool.Run(ctx, NewTaskDivider(200, 200, 1, 1), func(id int) TaskFunc {
		return func(task Task) error {
			if rendered.Add(1) == 10 {
				cancel()
			}
			return nil
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if n := rendered.Load(); n > 100 {
		t.Errorf("Expected workers to stop soon after cancellation, rendered %d tasks", n)
	}
}
