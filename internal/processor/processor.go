package processor

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/domain"
	"github.com/itemhub/item-service/internal/queue"
)

// Store is the persistence the processor needs. repository.ItemRepository
// satisfies it; implementations must be safe for concurrent use.
type Store interface {
	ListIDs(ctx context.Context) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
}

// Scheduler runs units of work on a bounded pool. worker.Pool satisfies it.
type Scheduler interface {
	Submit(ctx context.Context, item queue.Item) error
}

// Limiter gates each unit before it touches the store.
// ratelimiter.StoreLimiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// UnitState is the terminal state of one unit of work.
type UnitState string

const (
	UnitCompleted UnitState = "completed"
	UnitAbsent    UnitState = "absent"
	UnitFailed    UnitState = "failed"
)

// MetricHooks carries the metric callbacks injected by main.
type MetricHooks struct {
	OnUnit func(state UnitState, latency time.Duration)
	OnRun  func(processed int, err error, elapsed time.Duration)
}

// BatchProcessor marks every item in the store as processed, concurrently.
type BatchProcessor struct {
	store   Store
	pool    Scheduler
	limiter Limiter
	logger  *zap.Logger
	hooks   MetricHooks
}

// New constructs a BatchProcessor. Hooks are optional (nil = no-op).
func New(store Store, pool Scheduler, limiter Limiter, logger *zap.Logger, hooks MetricHooks) *BatchProcessor {
	if hooks.OnUnit == nil {
		hooks.OnUnit = func(UnitState, time.Duration) {}
	}
	if hooks.OnRun == nil {
		hooks.OnRun = func(int, error, time.Duration) {}
	}
	return &BatchProcessor{
		store:   store,
		pool:    pool,
		limiter: limiter,
		logger:  logger.With(zap.String("component", "batch_processor")),
		hooks:   hooks,
	}
}

// outcome is what a single unit reports back to its ProcessAll call.
type outcome struct {
	id    int64
	state UnitState
	item  *domain.Item
	err   error
}

type summary struct {
	ids, processed, absent, failed int
}

// ProcessAll sets the status of every item known to the store at call time to
// domain.StatusProcessed and returns the persisted items sorted by id.
//
// It returns only after every scheduled unit has reported, or after ctx is
// done. On any unit failure it returns a nil slice and a single error
// combining all failures; use FailedUnits to inspect them. Items deleted
// concurrently are skipped without error.
func (p *BatchProcessor) ProcessAll(ctx context.Context) ([]*domain.Item, error) {
	start := time.Now()
	items, sum, err := p.processAll(ctx)
	elapsed := time.Since(start)
	p.hooks.OnRun(len(items), err, elapsed)

	fields := []zap.Field{
		zap.Int("ids", sum.ids),
		zap.Int("processed", sum.processed),
		zap.Int("absent", sum.absent),
		zap.Int("failed", sum.failed),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		p.logger.Warn("bulk processing failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	p.logger.Info("bulk processing finished", fields...)
	return items, nil
}

func (p *BatchProcessor) processAll(ctx context.Context) ([]*domain.Item, summary, error) {
	ids, err := p.store.ListIDs(ctx)
	if err != nil {
		return nil, summary{}, fmt.Errorf("process items: list ids: %w: %w", domain.ErrPersistence, err)
	}
	sum := summary{ids: len(ids)}

	// Buffered to the full snapshot: a unit never blocks delivering its
	// outcome, even after the caller has stopped listening.
	outcomes := make(chan outcome, len(ids))

	scheduled := 0
	var scheduleErr error
	for _, id := range ids {
		id := id
		err := p.pool.Submit(ctx, queue.Item{
			ItemID: id,
			Run:    func() { outcomes <- p.runUnit(ctx, id) },
		})
		if err != nil {
			scheduleErr = scheduleError(id, err)
			break
		}
		scheduled++
	}

	results, err := await(ctx, outcomes, scheduled)
	if err != nil {
		p.logger.Debug("stopped waiting for units; in-flight units will still finish",
			zap.Int("scheduled", scheduled),
			zap.Int("reported", len(results)),
		)
		return nil, sum, err
	}

	return aggregate(results, scheduleErr, sum)
}

// await is the aggregation barrier: it collects exactly n outcomes, or gives
// up when ctx is done.
func await(ctx context.Context, outcomes <-chan outcome, n int) ([]outcome, error) {
	results := make([]outcome, 0, n)
	for len(results) < n {
		select {
		case o := <-outcomes:
			results = append(results, o)
		case <-ctx.Done():
			return results, fmt.Errorf("process items: waiting for %d of %d units: %w: %w",
				n-len(results), n, domain.ErrProcessingCancelled, ctx.Err())
		}
	}
	return results, nil
}

// aggregate merges the outcomes of a fully awaited call.
func aggregate(results []outcome, scheduleErr error, sum summary) ([]*domain.Item, summary, error) {
	slices.SortFunc(results, func(a, b outcome) int { return cmp.Compare(a.id, b.id) })

	var errs error
	items := make([]*domain.Item, 0, len(results))
	for _, o := range results {
		switch o.state {
		case UnitCompleted:
			items = append(items, o.item)
			sum.processed++
		case UnitAbsent:
			sum.absent++
		case UnitFailed:
			errs = multierr.Append(errs, o.err)
			sum.failed++
		}
	}
	errs = multierr.Append(errs, scheduleErr)

	if errs != nil {
		return nil, sum, fmt.Errorf("process items: %w", errs)
	}
	return items, sum, nil
}

// runUnit loads one item, marks it processed and persists it.
//
// Only the limiter wait observes ctx. Once a unit has started talking to the
// store it runs to completion on a context detached from the caller's
// cancellation, so a read-modify-write is never cut in half.
func (p *BatchProcessor) runUnit(ctx context.Context, id int64) (out outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = failed(id, fmt.Errorf("unit panicked: %v", r))
		}
		p.hooks.OnUnit(out.state, time.Since(start))
	}()

	if err := p.limiter.Wait(ctx); err != nil {
		return failed(id, fmt.Errorf("%w: %w", domain.ErrProcessingCancelled, err))
	}

	storeCtx := context.WithoutCancel(ctx)

	item, err := p.store.GetByID(storeCtx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return outcome{id: id, state: UnitAbsent}
	}
	if err != nil {
		return failed(id, fmt.Errorf("%w: load: %w", domain.ErrPersistence, err))
	}

	item.Status = domain.StatusProcessed

	saved, err := p.store.Update(storeCtx, item)
	if errors.Is(err, domain.ErrNotFound) {
		// deleted between load and save
		return outcome{id: id, state: UnitAbsent}
	}
	if err != nil {
		return failed(id, fmt.Errorf("%w: save: %w", domain.ErrPersistence, err))
	}

	return outcome{id: id, state: UnitCompleted, item: saved}
}

func failed(id int64, err error) outcome {
	return outcome{id: id, state: UnitFailed, err: &UnitError{ItemID: id, Err: err}}
}

func scheduleError(id int64, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("schedule item %d: %w: %w", id, domain.ErrProcessingCancelled, err)
	}
	return fmt.Errorf("schedule item %d: %w", id, err)
}
