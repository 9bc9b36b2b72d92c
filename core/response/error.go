package response

import (
	"net/http"

	"github.com/dmitrymomot/flint/core/handler"
)

// Error returns a handler response that propagates the given error.
// The error travels up to the dispatch boundary where HTTPError values are
// converted into JSON error responses and everything else reaches the
// router's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
