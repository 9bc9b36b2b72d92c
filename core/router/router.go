package router

import (
	"net/http"

	"github.com/dmitrymomot/flint/core/handler"
)

// Router is the main routing interface for handling HTTP requests.
// Routes are registered during application setup; the router is read-only
// once the first request is served.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// On registers a handler for an arbitrary HTTP method, with optional
	// route metadata exposed through Routes().
	On(method, pattern string, h handler.HandlerFunc[C], metadata ...map[string]any)

	// HTTP method shortcuts
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Use appends router-level middleware, applied to every dispatched
	// request including the not-found handler.
	Use(middlewares ...handler.Middleware[C])

	// Group registers routes under a shared path prefix on an isolated
	// sub-router. Middleware added inside applies only to the group's
	// routes and runs inside the parent's middleware in the chain.
	Group(prefix string, fn func(r Router[C]))
}

// Routes provides route introspection capabilities.
type Routes interface {
	// Routes returns every registered route in insertion order.
	Routes() []Route
}

// Route describes a single registered route.
type Route struct {
	Method   string
	Pattern  string
	Metadata map[string]any
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
