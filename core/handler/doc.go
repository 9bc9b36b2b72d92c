// Package handler defines the request handling contracts shared across the
// framework: the Response render function, generic HandlerFunc and Middleware
// types, and the Context interface implemented by per-request contexts.
//
// Handlers return a Response instead of writing directly, which lets
// middleware decorate or replace the response before anything reaches the
// wire:
//
//	func getUser(ctx *router.Context) handler.Response {
//		user, err := repo.Find(ctx, ctx.Param("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound)
//		}
//		return response.JSON(user)
//	}
package handler
