package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/flint/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("response: streaming unsupported by response writer")

// sseConfig holds configuration for Server-Sent Events responses.
type sseConfig struct {
	eventName string
	keepAlive time.Duration
}

// SSEOption configures Server-Sent Events behavior.
type SSEOption func(*sseConfig)

// WithEventName sets the event name for all emitted events.
func WithEventName(name string) SSEOption {
	return func(c *sseConfig) {
		c.eventName = name
	}
}

// WithKeepAlive sets the keep-alive comment interval. Zero disables it.
func WithKeepAlive(interval time.Duration) SSEOption {
	return func(c *sseConfig) {
		c.keepAlive = interval
	}
}

// SSE creates a Server-Sent Events response streaming from a channel.
// Each value is JSON-encoded into a `data:` line. The stream ends when the
// channel is closed or the client disconnects.
func SSE(events <-chan any, opts ...SSEOption) handler.Response {
	cfg := &sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrStreamingUnsupported
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		var keepAlive <-chan time.Time
		if cfg.keepAlive > 0 {
			ticker := time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			keepAlive = ticker.C
		}

		for {
			select {
			case <-r.Context().Done():
				return nil
			case <-keepAlive:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return err
				}
				flusher.Flush()
			case ev, open := <-events:
				if !open {
					return nil
				}
				data, err := json.Marshal(ev)
				if err != nil {
					return fmt.Errorf("response: encode SSE event: %w", err)
				}
				if cfg.eventName != "" {
					if _, err := fmt.Fprintf(w, "event: %s\n", cfg.eventName); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					return err
				}
				flusher.Flush()
			}
		}
	}
}
