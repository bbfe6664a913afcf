package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// StoreLimiter is a token bucket shared by every unit of work. Each unit takes
// one token before it touches the store, so a bulk run over thousands of ids
// cannot hammer the database faster than the configured rate no matter how
// many workers the pool has.
type StoreLimiter struct {
	limiter *rate.Limiter
}

// New creates a StoreLimiter granting ratePerSec tokens per second.
// ratePerSec <= 0 means unlimited.
func New(ratePerSec int) *StoreLimiter {
	if ratePerSec <= 0 {
		return &StoreLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	// burst == rate: no "saved up" burst above the per-second maximum
	return &StoreLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)}
}

// Wait blocks until a token is granted.
// Returns a non-nil error only if ctx is done, including when it is already
// done on entry, even if the limit is infinite.
func (l *StoreLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Unlimited reports whether the limiter never delays.
func (l *StoreLimiter) Unlimited() bool {
	return l.limiter.Limit() == rate.Inf
}
