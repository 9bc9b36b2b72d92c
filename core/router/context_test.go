package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/core/router"
)

func TestContextStateValues(t *testing.T) {
	t.Parallel()

	type userKey struct{}

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.SetValue(userKey{}, "user-7")
			return next(ctx)
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		user, _ := ctx.Value(userKey{}).(string)
		return response.String(user)
	})

	w := get(t, r, "/")
	assert.Equal(t, "user-7", w.Body.String())
}

func TestContextFallsBackToRequestContext(t *testing.T) {
	t.Parallel()

	type reqKey struct{}

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		val, _ := ctx.Value(reqKey{}).(string)
		return response.String(val)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), reqKey{}, "from-request"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "from-request", w.Body.String())
}

func TestContextRequestID(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", func(ctx *router.Context) handler.Response {
		// Stable within one request.
		first := ctx.RequestID()
		assert.Equal(t, first, ctx.RequestID())
		return response.String(first)
	})

	t.Run("reuses_inbound_header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "trace-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "trace-123", w.Body.String())
	})

	t.Run("generates_uuid_when_absent", func(t *testing.T) {
		w := get(t, r, "/")

		id, err := uuid.Parse(w.Body.String())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	})
}

func TestContextQuery(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/search", func(ctx *router.Context) handler.Response {
		return response.String(ctx.Query("q") + "/" + ctx.Query("missing"))
	})

	w := get(t, r, "/search?q=golang&page=2")
	assert.Equal(t, "golang/", w.Body.String())
}

func TestContextHeaderAccumulator(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			ctx.SetHeader("X-From-Middleware", "mw")
			return next(ctx)
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		ctx.SetHeader("X-From-Handler", "h")
		return response.String("ok")
	})

	w := get(t, r, "/")

	assert.Equal(t, "mw", w.Header().Get("X-From-Middleware"))
	assert.Equal(t, "h", w.Header().Get("X-From-Handler"))
}

func TestContextCookies(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/set", func(ctx *router.Context) handler.Response {
		ctx.SetCookie(&http.Cookie{Name: "session", Value: "first"})
		// Same name replaces the earlier cookie within one response.
		ctx.SetCookie(&http.Cookie{Name: "session", Value: "second"})
		ctx.SetCookie(&http.Cookie{Name: "theme", Value: "dark"})
		return response.String("ok")
	})
	r.Get("/read", func(ctx *router.Context) handler.Response {
		return response.String(ctx.Cookies().Value("session"))
	})
	r.Get("/delete", func(ctx *router.Context) handler.Response {
		ctx.Cookies().Delete("session")
		return response.String("ok")
	})

	t.Run("set_and_replace", func(t *testing.T) {
		w := get(t, r, "/set")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 2)

		byName := map[string]string{}
		for _, c := range cookies {
			byName[c.Name] = c.Value
		}
		assert.Equal(t, "second", byName["session"])
		assert.Equal(t, "dark", byName["theme"])
	})

	t.Run("read_inbound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/read", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc", w.Body.String())
	})

	t.Run("delete_expires_cookie", func(t *testing.T) {
		w := get(t, r, "/delete")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestContextBindJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}

	r := router.New[*router.Context]()
	r.Post("/users", func(ctx *router.Context) handler.Response {
		var p payload
		if err := ctx.BindJSON(&p); err != nil {
			return response.Error(err)
		}

		// The cached body allows a second bind of the same payload.
		var again payload
		require.NoError(t, ctx.BindJSON(&again))
		assert.Equal(t, p, again)

		return response.String(p.Name)
	})

	t.Run("valid_json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ann","age":30}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ann", w.Body.String())
	})

	t.Run("malformed_json_is_400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "invalid JSON body", body["error"])
	})
}

func TestContextBindByContentType(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" form:"name"`
	}

	r := router.New[*router.Context]()
	r.Post("/", func(ctx *router.Context) handler.Response {
		var p payload
		if err := ctx.Bind(&p); err != nil {
			return response.Error(err)
		}
		return response.String(p.Name)
	})

	t.Run("json_content_type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"json-ann"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "json-ann", w.Body.String())
	})

	t.Run("form_content_type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=form-ann"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "form-ann", w.Body.String())
	})

	t.Run("unsupported_content_type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<xml/>"))
		req.Header.Set("Content-Type", "text/xml")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContextBindQuery(t *testing.T) {
	t.Parallel()

	type filter struct {
		Query string `query:"q"`
		Page  int    `query:"page"`
	}

	r := router.New[*router.Context]()
	r.Get("/search", func(ctx *router.Context) handler.Response {
		var f filter
		if err := ctx.BindQuery(&f); err != nil {
			return response.Error(response.ErrBadRequest)
		}
		assert.Equal(t, "golang", f.Query)
		assert.Equal(t, 3, f.Page)
		return response.String("ok")
	})

	w := get(t, r, "/search?q=golang&page=3")
	assert.Equal(t, http.StatusOK, w.Code)
}
