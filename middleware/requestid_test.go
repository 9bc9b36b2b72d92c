package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/core/router"
	"github.com/dmitrymomot/flint/middleware"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates_uuid", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Get("/", func(ctx *router.Context) handler.Response {
			id, ok := middleware.GetRequestID(ctx)
			require.True(t, ok)
			return response.String(id)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String(), "context and header carry the same ID")
	})

	t.Run("reuses_incoming_id", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestID[*router.Context]())
		r.Get("/", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-42", w.Header().Get("X-Request-ID"))
	})

	t.Run("distrusts_incoming_id_when_configured", func(t *testing.T) {
		t.Parallel()

		distrust := false
		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			TrustIncoming: &distrust,
			Generator:     func() string { return "server-issued" },
		}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "spoofed")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "server-issued", w.Header().Get("X-Request-ID"))
	})

	t.Run("custom_header_name", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Use(middleware.RequestIDWithConfig[*router.Context](middleware.RequestIDConfig{
			HeaderName: "X-Trace-ID",
			Generator:  func() string { return "t-1" },
		}))
		r.Get("/", func(ctx *router.Context) handler.Response {
			return response.String("ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "t-1", w.Header().Get("X-Trace-ID"))
	})
}
