package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Limiter is the rate limiting implementation to use. Required.
	Limiter ratelimiter.RateLimiter
	// KeyExtractor defines how to extract the rate limiting key from requests
	// (default: client IP from RemoteAddr)
	KeyExtractor func(ctx handler.Context) string
	// ErrorHandler defines how to handle rate limit violations
	// (default: 429 Too Many Requests with Retry-After)
	ErrorHandler func(ctx handler.Context, result ratelimiter.Result) handler.Response
	// SetHeaders determines whether to include X-RateLimit-* headers in responses
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware with the provided configuration.
// It enforces request rate limits per key (typically client IP) and answers
// with 429 Too Many Requests when the limit trips. Panics if no limiter is
// provided.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, _ := ratelimiter.NewFixedWindow(store, ratelimiter.Config{
//		Limit:  100,
//		Window: time.Minute,
//	})
//	r.Use(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
//		Limiter:    limiter,
//		SetHeaders: true,
//	}))
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}

	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) string {
			addr := ctx.Request().RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				return host
			}
			return addr
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx handler.Context, result ratelimiter.Result) handler.Response {
			err := response.ErrTooManyRequests
			if retry := result.RetryAfter(); retry > 0 {
				err = err.WithRetryAfter(int(retry.Seconds()))
			}
			return response.Error(err)
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			key := cfg.KeyExtractor(ctx)
			result, err := cfg.Limiter.Allow(ctx, key)
			if err != nil {
				return response.Error(response.ErrInternalServerError)
			}

			if !result.Allowed() {
				resp := cfg.ErrorHandler(ctx, result)
				if cfg.SetHeaders {
					return wrapWithRateLimitHeaders(resp, result)
				}
				return resp
			}

			resp := next(ctx)

			if cfg.SetHeaders {
				return wrapWithRateLimitHeaders(resp, result)
			}

			return resp
		}
	}
}

// wrapWithRateLimitHeaders adds standard rate limiting headers to the response:
// X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, and Retry-After
// when the request was blocked.
func wrapWithRateLimitHeaders(resp handler.Response, result ratelimiter.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed() {
			if retry := result.RetryAfter(); retry > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			}
		}

		return resp(w, r)
	}
}
