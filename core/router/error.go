package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/flint/core/handler"
)

var (
	// Mux errors
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrInvalidPattern   = errors.New("routing pattern must begin with '/'")
	ErrNilSubrouter     = errors.New("subrouter function cannot be nil")
	ErrRoutesFrozen     = errors.New("routes must be registered before serving begins")

	// Pattern parsing errors
	ErrWildcardPosition = errors.New("wildcard '*' must be the last segment in a route")
	ErrEmptyParamName   = errors.New("route param name cannot be empty")
	ErrDuplicateParam   = errors.New("routing pattern contains duplicate param key")
)

// statusCoder is implemented by errors carrying an HTTP status code, such as
// response.HTTPError. Matching values are rendered once at the dispatch
// boundary as a JSON error body.
type statusCoder interface {
	StatusCode() int
}

// httpHeaderer is implemented by errors carrying extra response headers
// (e.g. Retry-After on a throttling error).
type httpHeaderer interface {
	HTTPHeaders() http.Header
}

// writeJSONError renders the uniform `{"error": message}` payload.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// defaultErrorHandler handles errors that are not part of the HTTP error
// taxonomy. It must never fail the request itself.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}
	writeJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// defaultNotFoundHandler echoes the requested path back for diagnostics.
func defaultNotFoundHandler[C handler.Context](ctx C) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		return json.NewEncoder(w).Encode(map[string]string{
			"error": "Not Found",
			"path":  r.URL.Path,
		})
	}
}

// PanicError gives external error handlers access to the original panic
// value and the stack captured at the panic point.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to see through recovered panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
