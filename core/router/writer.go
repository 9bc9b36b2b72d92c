package router

import (
	"bufio"
	"net"
	"net/http"
)

// responseWriter is a minimal wrapper around http.ResponseWriter that tracks
// whether a response has been written. When discardBody is set (HEAD served
// through the GET tree) the body is dropped while headers and status pass
// through untouched.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	written     bool
	discardBody bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if w.discardBody {
		w.size += len(b)
		return len(b), nil
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Written returns true if WriteHeader has been called.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the HTTP status code, or zero before the header is written.
func (w *responseWriter) Status() int {
	return w.status
}

// Size returns the number of body bytes produced by the handler.
func (w *responseWriter) Size() int {
	return w.size
}

// Hijack implements http.Hijacker when the underlying writer supports it.
// WebSocket upgrades need this to take over the connection.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	// The connection leaves HTTP semantics after a successful hijack.
	w.written = true
	return hj.Hijack()
}

// Flush implements http.Flusher when the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
