package response

import (
	"net/http"

	"github.com/dmitrymomot/flint/core/handler"
)

// baseResponse renders byte content with a status code and content type.
type baseResponse struct {
	content     []byte
	statusCode  int
	contentType string
}

func (r baseResponse) render(w http.ResponseWriter, _ *http.Request) error {
	if r.contentType != "" {
		w.Header().Set("Content-Type", r.contentType)
	}

	status := r.statusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.content) > 0 {
		_, err := w.Write(r.content)
		return err
	}

	return nil
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return baseResponse{
		content:     []byte(content),
		statusCode:  http.StatusOK,
		contentType: "text/plain; charset=utf-8",
	}.render
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return baseResponse{
		content:     []byte(content),
		statusCode:  status,
		contentType: "text/plain; charset=utf-8",
	}.render
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return baseResponse{
		content:     []byte(content),
		statusCode:  http.StatusOK,
		contentType: "text/html; charset=utf-8",
	}.render
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return baseResponse{
		content:     content,
		statusCode:  http.StatusOK,
		contentType: contentType,
	}.render
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return baseResponse{statusCode: http.StatusNoContent}.render
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return baseResponse{statusCode: code}.render
}
