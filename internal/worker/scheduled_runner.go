package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/itemhub/item-service/internal/domain"
)

// BatchRunner is the part of the item service the scheduled runner needs.
type BatchRunner interface {
	ProcessAll(ctx context.Context) ([]*domain.Item, error)
}

// ScheduledRunner periodically processes every item in the store, the same
// work the /items/process endpoint triggers on demand.
//
// Runs never overlap: the ticker is only read again after the previous run
// returns, and ticks missed meanwhile are dropped by time.Ticker.
type ScheduledRunner struct {
	runner   BatchRunner
	interval time.Duration
	logger   *zap.Logger
}

func NewScheduledRunner(runner BatchRunner, interval time.Duration, logger *zap.Logger) *ScheduledRunner {
	return &ScheduledRunner{runner: runner, interval: interval, logger: logger}
}

// Run ticks every interval and processes all items.
// Stops cleanly when ctx is cancelled.
func (sr *ScheduledRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	sr.logger.Info("scheduled runner started", zap.Duration("interval", sr.interval))

	for {
		select {
		case <-ctx.Done():
			sr.logger.Info("scheduled runner stopping")
			return
		case <-ticker.C:
			sr.tick(ctx)
		}
	}
}

func (sr *ScheduledRunner) tick(ctx context.Context) {
	items, err := sr.runner.ProcessAll(ctx)
	if err != nil {
		sr.logger.Error("scheduled processing failed", zap.Error(err))
		return
	}
	sr.logger.Info("scheduled processing finished", zap.Int("processed", len(items)))
}
