// Package middleware provides HTTP middleware components for common
// cross-cutting concerns: request ID propagation, structured request logging,
// and rate limiting.
//
// All middleware functions follow a consistent pattern:
//   - Generic functions that accept a handler.Context type parameter
//   - Configuration structs for customization
//   - Default constructors for common use cases
//   - WithConfig constructors for advanced configuration
//   - Context helpers for retrieving stored values
//
// # Request ID Middleware
//
// RequestID assigns an identifier to every request for tracing. An incoming
// X-Request-ID header is reused by default; otherwise a UUID is generated.
//
//	app.Use(middleware.RequestID[*router.Context]())
//
//	func handler(ctx *router.Context) handler.Response {
//		if id, ok := middleware.GetRequestID(ctx); ok {
//			// correlate logs with id
//		}
//		return response.JSON(map[string]any{"status": "ok"})
//	}
//
// # Logging Middleware
//
// Logging records each completed request with its method, path, status code,
// response size, and duration using slog.
//
//	app.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
//		Logger: slog.Default(),
//		Skip: func(ctx handler.Context) bool {
//			return ctx.Request().URL.Path == "/health"
//		},
//	}))
//
// # Rate Limit Middleware
//
// RateLimit enforces per-key request limits backed by the ratelimiter package.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, _ := ratelimiter.NewFixedWindow(store, ratelimiter.Config{
//		Limit:  100,
//		Window: time.Minute,
//	})
//	app.Use(middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
//		Limiter:    limiter,
//		SetHeaders: true,
//	}))
package middleware
