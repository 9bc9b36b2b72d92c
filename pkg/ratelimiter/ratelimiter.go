package ratelimiter

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RateLimiter is the contract consumed by callers such as HTTP middleware.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Store counts hits per key within fixed windows. Incr increments the counter
// for the window the current time falls into and returns the new count along
// with the moment the window resets.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// Result reports the outcome of a single rate limit check.
type Result struct {
	// Limit is the configured maximum for the window.
	Limit int64
	// Count is the number of hits recorded in the current window, including
	// this one.
	Count int64
	// Remaining is the number of hits left before the limit trips. Never
	// negative.
	Remaining int64
	// ResetAt is when the current window expires.
	ResetAt time.Time
}

// Allowed reports whether the request that produced this result may proceed.
func (r Result) Allowed() bool {
	return r.Count <= r.Limit
}

// RetryAfter returns how long the caller should wait before retrying,
// rounded up to a whole second. Returns zero when the request was allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	wait := time.Until(r.ResetAt)
	if wait <= 0 {
		return time.Second
	}
	return time.Duration(math.Ceil(wait.Seconds())) * time.Second
}

// Config configures a fixed-window limiter.
type Config struct {
	// Limit is the maximum number of hits per window. Required.
	Limit int64 `env:"RATE_LIMIT" envDefault:"100"`
	// Window is the duration of each fixed window. Required.
	Window time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// FixedWindow counts hits in consecutive fixed windows. All hits within one
// window share a counter; the counter resets when the window rolls over.
type FixedWindow struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewFixedWindow creates a fixed-window limiter backed by the given store.
func NewFixedWindow(store Store, cfg Config) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg.Limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if cfg.Window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &FixedWindow{store: store, limit: cfg.Limit, window: cfg.Window}, nil
}

// Allow records a hit for key and reports whether it fits within the limit.
func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limit:     l.limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Limit returns the configured per-window maximum.
func (l *FixedWindow) Limit() int64 { return l.limit }

// Window returns the configured window duration.
func (l *FixedWindow) Window() time.Duration { return l.window }
