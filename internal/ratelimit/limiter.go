package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter allows at most max requests per key per window.
type Limiter struct {
	store  CounterStore
	max    int
	window time.Duration
}

func NewLimiter(store CounterStore, limit int, window time.Duration) *Limiter {
	if store == nil {
		panic("counter store is required")
	}
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{store: store, max: limit, window: window}
}

func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Allowed: count <= int64(l.max),
		Limit:   l.max,
		ResetAt: resetAt,
	}
	if remaining := int64(l.max) - count; remaining > 0 {
		d.Remaining = int(remaining)
	}
	if !d.Allowed {
		d.RetryAfter = time.Until(resetAt)
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
	}
	return d, nil
}
