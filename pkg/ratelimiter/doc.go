// Package ratelimiter provides fixed-window rate limiting with pluggable storage backends.
//
// This package counts hits per key within consecutive fixed windows. Every hit
// inside one window shares a counter; when the window expires the counter
// starts over. The algorithm is simple to reason about and cheap to store,
// at the cost of allowing short bursts around window boundaries.
//
// # Fixed Window Algorithm
//
// The fixed window algorithm works by:
//  1. Mapping the current time to a window of fixed duration
//  2. Incrementing a per-key counter for that window
//  3. Allowing the request while the counter stays at or below the limit
//  4. Discarding the counter when the window expires
//
// # Core Types
//
// FixedWindow implements the limiter:
//   - Allow(ctx, key): record a hit and report the outcome
//   - Pluggable Store backends (memory, Redis)
//
// Result describes the outcome of a check:
//   - Allowed(): whether the hit fit within the limit
//   - RetryAfter(): wait time until the window rolls over, rounded up to
//     whole seconds
//
// # Usage
//
// Basic limiter setup:
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Start(ctx) // background sweep of expired windows
//	defer store.Stop()
//
//	limiter, err := ratelimiter.NewFixedWindow(store, ratelimiter.Config{
//		Limit:  100,
//		Window: time.Minute,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		log.Printf("rate limiter error: %v", err)
//		return
//	}
//	if !result.Allowed() {
//		log.Printf("rate limited, retry after %v", result.RetryAfter())
//		return
//	}
//
// # Storage Backends
//
// Memory store (single instance):
//
//	store := ratelimiter.NewMemoryStore()
//
// The memory store keeps one entry per active key and sweeps expired windows
// on a configurable interval. Start/Stop (or Run with an errgroup) manage the
// sweep goroutine's lifecycle.
//
// Redis store (distributed):
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	store, err := ratelimiter.NewRedisStore(client)
//
// The Redis store runs INCR and PEXPIRE atomically in a Lua script so
// replicas of the same service share windows.
//
// # Key Selection
//
// Pick keys that identify the party being limited:
//   - IP-based: client IP address
//   - User-based: "user:" + userID
//   - API key-based: "api:" + apiKey
package ratelimiter
