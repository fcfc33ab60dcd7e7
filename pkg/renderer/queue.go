package renderer

import (
	"errors"
	"sync"
)

// ErrQueueStopped is returned by Push once the queue has been stopped
var ErrQueueStopped = errors.New("queue stopped")

// BoundedQueue is a fixed-capacity FIFO shared by one producer and many
// consumers. Push blocks while the queue is full and Pop blocks while it is
// empty; after Stop, Pop drains what is left and then reports false.
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	items   []T // ring buffer
	head    int
	count   int
	stopped bool
}

// NewBoundedQueue creates a queue holding at most capacity items (minimum 1)
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	q := &BoundedQueue[T]{items: make([]T, max(1, capacity))}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends item, waiting for room. It fails with ErrQueueStopped when the
// queue is stopped before or while waiting.
func (q *BoundedQueue[T]) Push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.items) && !q.stopped {
		q.notFull.Wait()
	}
	if q.stopped {
		return ErrQueueStopped
	}

	q.items[(q.head+q.count)%len(q.items)] = item
	q.count++
	q.notEmpty.Signal()
	return nil
}

// Pop removes the oldest item, waiting while the queue is empty. The second
// result is false once the queue is stopped and drained.
func (q *BoundedQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.stopped {
		q.notEmpty.Wait()
	}

	var item T
	if q.count == 0 {
		return item, false
	}

	item = q.items[q.head]
	q.items[q.head] = *new(T)
	q.head = (q.head + 1) % len(q.items)
	q.count--
	q.notFull.Signal()
	return item, true
}

// Stop wakes every blocked caller. It is safe to call more than once.
func (q *BoundedQueue[T]) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()

	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Len returns the number of queued items
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the capacity of the queue
func (q *BoundedQueue[T]) Cap() int {
	return len(q.items)
}
