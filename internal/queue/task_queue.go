package queue

import (
	"context"
	"time"
)

// TaskQueue is a bounded FIFO of units of work backed by a buffered channel.
//
// Producers block in Enqueue while the buffer is full, which applies
// back-pressure to a large ProcessAll call instead of growing memory with the
// number of item ids. Workers block in Dequeue until work arrives or their
// context is cancelled.
type TaskQueue struct {
	tasks chan Item
}

func New(capacity int) *TaskQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &TaskQueue{tasks: make(chan Item, capacity)}
}

// Enqueue places an item on the queue, waiting for room if necessary.
// A context that is already done wins over free buffer space so callers get
// a deterministic error once they have given up.
func (q *TaskQueue) Enqueue(ctx context.Context, item Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item.Enqueued = time.Now()
	select {
	case q.tasks <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks until an item is available or ctx is cancelled.
// Returns (Item{}, false) when ctx is cancelled.
func (q *TaskQueue) Dequeue(ctx context.Context) (Item, bool) {
	select {
	case item := <-q.tasks:
		return item, true
	case <-ctx.Done():
		return Item{}, false
	}
}

// TryDequeue returns the next item without blocking. Used by workers to drain
// the queue during shutdown.
func (q *TaskQueue) TryDequeue() (Item, bool) {
	select {
	case item := <-q.tasks:
		return item, true
	default:
		return Item{}, false
	}
}

// Depth returns the number of items waiting to be picked up.
func (q *TaskQueue) Depth() int {
	return len(q.tasks)
}

func (q *TaskQueue) Capacity() int {
	return cap(q.tasks)
}
