package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/flint/core/handler"
)

// methods supported by On and the shortcuts.
var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodConnect: {},
	http.MethodTrace:   {},
}

// routeEntry pairs a registered route with its handler so groups can be
// merged into the parent with group middleware pre-composed.
type routeEntry[C handler.Context] struct {
	route   Route
	handler handler.HandlerFunc[C]
}

// mux is the private implementation of the Router interface.
type mux[C handler.Context] struct {
	trees        map[string]*node[C]
	routes       []routeEntry[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	notFound     handler.HandlerFunc[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger

	// group sub-routers only record entries; their routes are merged into
	// the parent when the group function returns
	group bool

	// set on the first served request; registration panics afterwards
	serving atomic.Bool
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		trees:        make(map[string]*node[C]),
		errorHandler: defaultErrorHandler[C],
		notFound:     defaultNotFoundHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // no-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context type works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(NewContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.serving.Store(true)

	ww := newResponseWriter(w)

	// Use RawPath if available to preserve URL encoding; parameter values
	// are decoded during trie descent.
	path := r.URL.Path
	if r.URL.RawPath != "" {
		path = r.URL.RawPath
	}
	if path == "" {
		path = "/"
	}

	ep, params := m.lookup(r.Method, path)

	// HEAD silently falls back to the GET tree when no explicit HEAD route
	// is registered; the body is stripped but headers and status kept.
	if ep == nil && r.Method == http.MethodHead {
		if ep, params = m.lookup(http.MethodGet, path); ep != nil {
			ww.discardBody = true
		}
	}

	var paramsMap map[string]string
	if params != nil && len(params.keys) > 0 {
		paramsMap = make(map[string]string, len(params.keys))
		for i, key := range params.keys {
			paramsMap[key] = params.values[i]
		}
	}

	ctx := m.newContext(ww, r, paramsMap)

	// Recover panics from handlers and middleware; a recovered panic takes
	// the same fault path as a returned error.
	defer func() {
		if p := recover(); p != nil {
			err := &panicError{value: p, stack: debug.Stack()}
			if ww.Written() {
				m.logger.Error("panic after response written",
					"value", err.value,
					"stack", string(err.stack),
					"method", r.Method,
					"path", r.URL.Path,
				)
				return
			}
			m.fail(ctx, ww, r, err)
		}
	}()

	fn := m.notFound
	if ep != nil {
		fn = ep.handler
	}
	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	resp := fn(ctx)
	if resp == nil {
		// a handler returning nothing produces an empty 200
		resp = func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		}
	}

	// Apply queued headers and cookies; the promoted method covers custom
	// contexts that embed *Context.
	if fl, ok := any(ctx).(interface{ flush(http.Header) }); ok {
		fl.flush(ww.Header())
	}

	if err := resp(ww, r); err != nil {
		m.fail(ctx, ww, r, err)
	}
}

// fail converts taxonomy errors into JSON error responses and routes
// everything else through the router-level error handler, which is guarded
// so that it can never fail the request itself.
func (m *mux[C]) fail(ctx C, ww *responseWriter, r *http.Request, err error) {
	if ww.Written() {
		m.logger.Error("error after response written",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		return
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		var hh httpHeaderer
		if errors.As(err, &hh) {
			for key, values := range hh.HTTPHeaders() {
				ww.Header()[key] = values
			}
		}
		writeJSONError(ww, sc.StatusCode(), err.Error())
		return
	}

	m.logger.Error("unhandled error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)

	defer func() {
		if p := recover(); p != nil {
			m.logger.Error("error handler panicked", "value", p)
			if !ww.Written() {
				writeJSONError(ww, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
		}
	}()
	m.errorHandler(ctx, err)
}

func (m *mux[C]) lookup(method, path string) (*endpoint[C], *routeParams) {
	tree := m.trees[method]
	if tree == nil {
		return nil, nil
	}
	return tree.match(path)
}

// On registers a handler for the given HTTP method and pattern.
func (m *mux[C]) On(method, pattern string, h handler.HandlerFunc[C], metadata ...map[string]any) {
	method = strings.ToUpper(method)
	if _, ok := knownMethods[method]; !ok {
		panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
	}

	var meta map[string]any
	if len(metadata) > 0 {
		meta = metadata[0]
	}
	m.handle(method, pattern, h, meta)
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h, nil)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h, nil)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h, nil)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h, nil)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h, nil)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h, nil)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h, nil)
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.serving.Load() {
		panic(ErrRoutesFrozen)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// Group registers routes under a shared prefix. The sub-router's own
// middleware is pre-composed into each merged handler, so it applies only to
// the group's routes and runs inside the parent's middleware.
func (m *mux[C]) Group(prefix string, fn func(r Router[C])) {
	if fn == nil {
		panic(fmt.Errorf("%w on %q", ErrNilSubrouter, prefix))
	}
	if prefix == "" || prefix[0] != '/' {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, prefix))
	}

	sub := newMux[C]()
	sub.group = true
	sub.errorHandler = m.errorHandler
	sub.notFound = m.notFound
	sub.newContext = m.newContext
	sub.logger = m.logger

	fn(sub)

	for _, entry := range sub.routes {
		h := entry.handler
		if len(sub.middlewares) > 0 {
			h = chain(sub.middlewares, h)
		}
		m.handle(entry.route.Method, joinPattern(prefix, entry.route.Pattern), h, entry.route.Metadata)
	}
}

// Routes returns all registered routes in insertion order.
func (m *mux[C]) Routes() []Route {
	out := make([]Route, len(m.routes))
	for i, entry := range m.routes {
		out[i] = entry.route
	}
	return out
}

// handle registers a handler in the routing tree.
func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C], meta map[string]any) {
	if m.serving.Load() {
		panic(ErrRoutesFrozen)
	}
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
	}

	rt := Route{Method: method, Pattern: pattern, Metadata: meta}
	m.routes = append(m.routes, routeEntry[C]{route: rt, handler: h})

	// Group sub-routers only record entries; the parent inserts the merged
	// routes into its own trees.
	if m.group {
		return
	}

	tree := m.trees[method]
	if tree == nil {
		tree = &node[C]{}
		m.trees[method] = tree
	}
	tree.insert(pattern, h, rt)
}

// joinPattern joins a group prefix and a route pattern with exactly one slash.
func joinPattern(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if pattern == "/" || pattern == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	return prefix + pattern
}
