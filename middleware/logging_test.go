package middleware_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/core/router"
	"github.com/dmitrymomot/flint/middleware"
)

func newLoggedRouter(buf *bytes.Buffer, cfg middleware.LoggingConfig) router.Router[*router.Context] {
	cfg.Logger = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := router.New[*router.Context]()
	r.Use(middleware.LoggingWithConfig[*router.Context](cfg))
	return r
}

func TestLogging(t *testing.T) {
	t.Parallel()

	t.Run("logs_completed_request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newLoggedRouter(&buf, middleware.LoggingConfig{})
		r.Get("/users/:id", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/users/42?verbose=1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		out := buf.String()
		assert.Contains(t, out, "request completed")
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/users/42")
		assert.Contains(t, out, "query=verbose=1")
		assert.Contains(t, out, "status=200")
		assert.Contains(t, out, "level=INFO")
	})

	t.Run("server_errors_log_at_error_level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newLoggedRouter(&buf, middleware.LoggingConfig{})
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, req *http.Request) error {
				return errors.New("backend down")
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "status=500")
	})

	t.Run("client_errors_log_at_warn_level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newLoggedRouter(&buf, middleware.LoggingConfig{})
		r.Get("/nope", func(ctx *router.Context) handler.Response {
			return response.Error(response.ErrNotFound)
		})

		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, buf.String(), "level=WARN")
	})

	t.Run("skip_suppresses_logging", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := newLoggedRouter(&buf, middleware.LoggingConfig{
			Skip: func(ctx handler.Context) bool {
				return ctx.Request().URL.Path == "/health"
			},
		})
		r.Get("/health", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, buf.String())
	})

	t.Run("includes_request_id_when_present", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := router.New[*router.Context]()
		r.Use(
			middleware.RequestID[*router.Context](),
			middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
				Logger: slog.New(slog.NewTextHandler(&buf, nil)),
			}),
		)
		r.Get("/", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "rid-9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Contains(t, buf.String(), "request_id=rid-9")
	})
}
