package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/queue"
)

// Worker is a single goroutine that pulls units of work off the task queue
// and runs them one at a time.
type Worker struct {
	id     int
	q      *queue.TaskQueue
	logger *zap.Logger
	hooks  MetricHooks
}

// NewWorker constructs a worker. All hooks must be non-nil; the pool fills
// in no-ops.
func NewWorker(id int, q *queue.TaskQueue, logger *zap.Logger, hooks MetricHooks) *Worker {
	return &Worker{id: id, q: q, logger: logger, hooks: hooks}
}

// Run blocks until ctx is cancelled, processing one queue item per iteration.
// Units already queued when ctx is cancelled are still run so that nobody
// waiting on their outcome is left hanging.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Debug("worker started")
	for {
		item, ok := w.q.Dequeue(ctx)
		if !ok {
			break
		}
		w.process(item)
	}

	drained := 0
	for {
		item, ok := w.q.TryDequeue()
		if !ok {
			break
		}
		w.process(item)
		drained++
	}
	w.logger.Debug("worker stopping", zap.Int("drained", drained))
}

func (w *Worker) process(item queue.Item) {
	w.hooks.OnDepth(w.q.Depth())

	defer func() {
		if r := recover(); r != nil {
			w.hooks.OnPanic()
			w.logger.Error("unit of work panicked",
				zap.Int64("item_id", item.ItemID),
				zap.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	item.Run()
	w.hooks.OnTaskDone(start.Sub(item.Enqueued), time.Since(start))
}
