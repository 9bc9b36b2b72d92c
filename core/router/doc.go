// Package router implements the request-dispatch core of the framework: a
// per-method prefix trie compiled from registered path patterns, an
// onion-model middleware chain around each matched handler, and the dispatch
// boundary that converts taxonomy errors into JSON error responses.
//
// # Patterns
//
// Patterns are split into path segments:
//
//	/users            static
//	/users/:id        named parameter
//	/posts/:id?       optional parameter (matches /posts and /posts/123)
//	/files/*          trailing wildcard; "*" binds the joined remainder
//
// At every trie node static children are tried before parameters, and
// parameters before wildcards, regardless of registration order, so
// /users/new beats /users/:id even when :id was registered first.
//
// # Dispatch
//
// Every request terminates in one of three ways: a matched handler runs
// inside the composed middleware chain; no route matches and the configured
// not-found handler runs (wrapped by the same middleware); or a stage fails,
// in which case an HTTPError renders as `{"error": message}` with its status
// and extra headers, and anything else reaches the router-level error
// handler. HEAD requests without an explicit HEAD route are served through
// the GET tree with the response body stripped.
//
// Routes are registered during setup and frozen once the first request is
// served; lookups never lock.
//
// # Usage
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.Logging[*router.Context]())
//
//	r.Get("/cats/:feline/meow/:mrrp", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{
//			"feline": ctx.Param("feline"),
//			"mrrp":   ctx.Param("mrrp"),
//		})
//	})
//
//	r.Group("/api", func(api router.Router[*router.Context]) {
//		api.Use(authMiddleware)
//		api.Get("/users", listUsers)
//	})
package router
