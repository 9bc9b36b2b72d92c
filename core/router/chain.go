package router

import "github.com/dmitrymomot/flint/core/handler"

// chain builds a single handler from a middleware stack and endpoint.
// Middleware wrap in reverse order so the first middleware runs outermost;
// a middleware may call its next handler zero, one, or several times.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
