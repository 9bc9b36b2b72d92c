package ratelimiter

import "errors"

var (
	// ErrNilStore is returned when a limiter is constructed without a store.
	ErrNilStore = errors.New("ratelimiter: store is required")
	// ErrInvalidLimit is returned when the configured limit is not positive.
	ErrInvalidLimit = errors.New("ratelimiter: limit must be positive")
	// ErrInvalidWindow is returned when the configured window is not positive.
	ErrInvalidWindow = errors.New("ratelimiter: window must be positive")
	// ErrStoreFailure wraps backend errors from the counter store.
	ErrStoreFailure = errors.New("ratelimiter: store failure")
)
