package router_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
	"github.com/dmitrymomot/flint/core/router"
)

// tracer appends name twice around next so both composition order and
// post-processing order are observable.
func tracer(log *[]string, name string) handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*log = append(*log, name+":before")
			resp := next(ctx)
			*log = append(*log, name+":after")
			return resp
		}
	}
}

func TestMiddlewareOnionOrder(t *testing.T) {
	t.Parallel()

	var log []string

	r := router.New[*router.Context]()
	r.Use(tracer(&log, "outer"), tracer(&log, "inner"))
	r.Get("/", func(ctx *router.Context) handler.Response {
		log = append(log, "handler")
		return response.String("ok")
	})

	get(t, r, "/")

	assert.Equal(t, []string{
		"outer:before",
		"inner:before",
		"handler",
		"inner:after",
		"outer:after",
	}, log)
}

func TestMiddlewareShortCircuit(t *testing.T) {
	t.Parallel()

	var handlerRan bool

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			return response.Error(response.ErrUnauthorized)
		}
	})
	r.Get("/", func(ctx *router.Context) handler.Response {
		handlerRan = true
		return response.String("ok")
	})

	w := get(t, r, "/")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)
}

func TestMiddlewarePostProcessesResponse(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			resp := next(ctx)
			return func(w http.ResponseWriter, req *http.Request) error {
				w.Header().Set("X-Decorated", "1")
				return resp(w, req)
			}
		}
	})
	r.Get("/", echo("body"))

	w := get(t, r, "/")

	assert.Equal(t, "1", w.Header().Get("X-Decorated"))
	assert.Equal(t, "body", w.Body.String())
}

func TestMiddlewareAppliesToNotFound(t *testing.T) {
	t.Parallel()

	var log []string

	r := router.New[*router.Context]()
	r.Use(tracer(&log, "mw"))

	w := get(t, r, "/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"mw:before", "mw:after"}, log)
}

func TestGroupPrefix(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Group("/api", func(api router.Router[*router.Context]) {
		api.Get("/users", echo("users"))
		api.Group("/v2", func(v2 router.Router[*router.Context]) {
			v2.Get("/posts", echo("v2 posts"))
		})
	})

	t.Run("prefixed_route", func(t *testing.T) {
		w := get(t, r, "/api/users")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "users", w.Body.String())
	})

	t.Run("nested_group", func(t *testing.T) {
		w := get(t, r, "/api/v2/posts")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "v2 posts", w.Body.String())
	})

	t.Run("unprefixed_path_misses", func(t *testing.T) {
		w := get(t, r, "/users")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGroupMiddlewareIsolation(t *testing.T) {
	t.Parallel()

	var log []string

	r := router.New[*router.Context]()
	r.Use(tracer(&log, "global"))
	r.Group("/admin", func(admin router.Router[*router.Context]) {
		admin.Use(tracer(&log, "admin"))
		admin.Get("/dashboard", func(ctx *router.Context) handler.Response {
			log = append(log, "handler")
			return response.String("ok")
		})
	})
	r.Get("/public", func(ctx *router.Context) handler.Response {
		log = append(log, "public")
		return response.String("ok")
	})

	t.Run("group_middleware_runs_inside_global", func(t *testing.T) {
		log = nil
		get(t, r, "/admin/dashboard")

		assert.Equal(t, []string{
			"global:before",
			"admin:before",
			"handler",
			"admin:after",
			"global:after",
		}, log)
	})

	t.Run("group_middleware_skips_outside_routes", func(t *testing.T) {
		log = nil
		get(t, r, "/public")

		assert.Equal(t, []string{"global:before", "public", "global:after"}, log)
	})
}

func TestGroupRoutesVisibleOnParent(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Group("/api", func(api router.Router[*router.Context]) {
		api.Get("/users", echo(""))
		api.Post("/users", echo(""))
	})

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/api/users", routes[0].Pattern)
	assert.Equal(t, "/api/users", routes[1].Pattern)
}

func TestGroupValidation(t *testing.T) {
	t.Parallel()

	t.Run("nil_function", func(t *testing.T) {
		t.Parallel()
		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Group("/api", nil)
		})
	})

	t.Run("prefix_without_leading_slash", func(t *testing.T) {
		t.Parallel()
		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Group("api", func(router.Router[*router.Context]) {})
		})
	})
}

func TestGroupRootPattern(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Group("/health", func(g router.Router[*router.Context]) {
		g.Get("/", echo("healthy"))
	})

	w := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", w.Body.String())
}
