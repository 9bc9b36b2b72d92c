package router_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/core/router"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestMuxNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/exists", echo("ok"))

	w := get(t, r, "/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decodeError(t, w)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "/missing", body["path"])
}

func TestMuxMethodMismatchIs404(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Post("/submit", echo("ok"))

	// A method mismatch on a known path reports 404, not 405.
	w := get(t, r, "/submit")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMuxHeadFallsBackToGet(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/page", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("X-Custom", "yes")
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte("page body"))
			return err
		}
	})

	req := httptest.NewRequest(http.MethodHead, "/page", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Custom"))
	assert.Empty(t, w.Body.String())
}

func TestMuxExplicitHeadWins(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/page", echo("get"))
	r.Head("/page", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("X-Handler", "head")
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
	})

	req := httptest.NewRequest(http.MethodHead, "/page", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "head", w.Header().Get("X-Handler"))
}

func TestMuxNilResponseIsEmpty200(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/noop", func(ctx *router.Context) handler.Response {
		return nil
	})

	w := get(t, r, "/noop")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestMuxHTTPErrorRendering(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/teapot", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrUnprocessableEntity.WithMessage("bad payload"))
	})
	r.Get("/throttled", func(ctx *router.Context) handler.Response {
		return response.Error(response.ErrTooManyRequests.WithRetryAfter(17))
	})

	t.Run("status_and_message", func(t *testing.T) {
		w := get(t, r, "/teapot")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "bad payload", body["error"])
	})

	t.Run("extra_headers", func(t *testing.T) {
		w := get(t, r, "/throttled")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "17", w.Header().Get("Retry-After"))
	})
}

func TestMuxWrappedErrorMatchesTaxonomy(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/wrapped", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, req *http.Request) error {
			return errors.Join(errors.New("context"), response.ErrForbidden)
		}
	})

	w := get(t, r, "/wrapped")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMuxUnknownErrorIs500(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/boom", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, req *http.Request) error {
			return errors.New("database exploded")
		}
	})

	w := get(t, r, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	// Internal detail must not leak into the response body.
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body["error"])
}

func TestMuxPanicRecovery(t *testing.T) {
	t.Parallel()

	t.Run("panic_in_handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/panic", func(ctx *router.Context) handler.Response {
			panic("something broke")
		})

		w := get(t, r, "/panic")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("panic_with_taxonomy_error", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/panic", func(ctx *router.Context) handler.Response {
			panic(response.ErrConflict)
		})

		// A panicked taxonomy error unwraps to its status code.
		w := get(t, r, "/panic")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("custom_error_handler_sees_panic", func(t *testing.T) {
		t.Parallel()

		var captured error
		r := router.New[*router.Context](
			router.WithErrorHandler[*router.Context](func(ctx *router.Context, err error) {
				captured = err
				ctx.ResponseWriter().WriteHeader(http.StatusBadGateway)
			}),
		)
		r.Get("/panic", func(ctx *router.Context) handler.Response {
			panic("original value")
		})

		w := get(t, r, "/panic")

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var pe router.PanicError
		require.ErrorAs(t, captured, &pe)
		assert.Equal(t, "original value", pe.Value())
		assert.NotEmpty(t, pe.Stack())
	})
}

func TestMuxCustomNotFound(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context](
		router.WithNotFound[*router.Context](func(ctx *router.Context) handler.Response {
			return response.StringWithStatus("nothing here", http.StatusNotFound)
		}),
	)

	w := get(t, r, "/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nothing here", w.Body.String())
}

func TestMuxRoutesIntrospection(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/users", echo("a"))
	r.Post("/users", echo("b"))
	r.On("DELETE", "/users/:id", echo("c"), map[string]any{"auth": true})

	routes := r.Routes()
	require.Len(t, routes, 3)

	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/users", routes[0].Pattern)
	assert.Equal(t, http.MethodPost, routes[1].Method)
	assert.Equal(t, http.MethodDelete, routes[2].Method)
	assert.Equal(t, "/users/:id", routes[2].Pattern)
	assert.Equal(t, map[string]any{"auth": true}, routes[2].Metadata)
}

func TestMuxOnValidatesMethod(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()

	assert.Panics(t, func() {
		r.On("FETCH", "/x", echo(""))
	})

	// Lowercase spelling of a known method is accepted.
	assert.NotPanics(t, func() {
		r.On("get", "/x", echo(""))
	})
}

func TestMuxRegistrationFrozenAfterServing(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/first", echo("ok"))

	get(t, r, "/first")

	assert.Panics(t, func() {
		r.Get("/late", echo("nope"))
	})
	assert.Panics(t, func() {
		r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
			return next
		})
	})
}

func TestMuxContextFactory(t *testing.T) {
	t.Parallel()

	type appContext struct {
		*router.Context
		tenant string
	}

	r := router.New[*appContext](
		router.WithContextFactory(func(w http.ResponseWriter, req *http.Request, params map[string]string) *appContext {
			return &appContext{
				Context: router.NewContext(w, req, params),
				tenant:  req.Header.Get("X-Tenant"),
			}
		}),
	)
	r.Get("/whoami", func(ctx *appContext) handler.Response {
		return response.String(ctx.tenant)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Tenant", "acme")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())
}
