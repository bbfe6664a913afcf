package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/queue"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the pool constructor signature clean.
type MetricHooks struct {
	OnTaskDone func(wait, run time.Duration)
	OnPanic    func()
	OnDepth    func(depth int)
}

// Pool is the process-wide, fixed-size set of workers that runs units of
// work. It is created once at startup and shared by every ProcessAll call,
// so concurrency stays bounded by the worker count however many ids a call
// schedules or however many calls overlap.
type Pool struct {
	q       *queue.TaskQueue
	workers []*Worker
	wg      sync.WaitGroup

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewPool creates size identical workers reading from q.
func NewPool(size int, q *queue.TaskQueue, logger *zap.Logger, hooks MetricHooks) *Pool {
	if size < 1 {
		size = 1
	}
	if hooks.OnTaskDone == nil {
		hooks.OnTaskDone = func(time.Duration, time.Duration) {}
	}
	if hooks.OnPanic == nil {
		hooks.OnPanic = func() {}
	}
	if hooks.OnDepth == nil {
		hooks.OnDepth = func(int) {}
	}

	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(i, q, logger.With(zap.Int("worker_id", i)), hooks)
	}

	return &Pool{q: q, workers: workers, stopped: make(chan struct{})}
}

// Start launches all workers as goroutines.
// Cancelling ctx stops the pool: Submit starts refusing work and each worker
// drains what is already queued before returning.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			// Closed before Done so Submit already refuses work once Wait returns.
			defer p.stop()
			w.Run(ctx)
		}(w)
	}

	go func() {
		<-ctx.Done()
		p.stop()
	}()
}

// Submit schedules one unit of work. It blocks while the queue is full and
// returns ctx's error if the caller gives up first, or domain.ErrPoolStopped
// once the pool is shutting down.
func (p *Pool) Submit(ctx context.Context, item queue.Item) error {
	select {
	case <-p.stopped:
		return domain.ErrPoolStopped
	default:
	}
	return p.q.Enqueue(ctx, item)
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Depth returns the number of units waiting for a free worker.
func (p *Pool) Depth() int {
	return p.q.Depth()
}

func (p *Pool) Capacity() int {
	return p.q.Capacity()
}

// Wait blocks until every worker has returned after ctx is cancelled.
// Call this after cancelling the context to ensure in-flight units finish.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) stop() {
	p.stopOnce.Do(func() { close(p.stopped) })
}
