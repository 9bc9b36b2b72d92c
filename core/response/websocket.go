package response

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/flint/core/handler"
)

// wsConfig holds configuration for WebSocket upgrade responses.
type wsConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
}

// WebSocketOption configures the WebSocket upgrade.
type WebSocketOption func(*wsConfig)

// WithWSBufferSizes sets the read and write buffer sizes for the connection.
func WithWSBufferSizes(read, write int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = read
		c.upgrader.WriteBufferSize = write
	}
}

// WithWSOriginCheck sets a custom origin check for the handshake.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithWSSubprotocols sets the supported subprotocols in preference order.
func WithWSSubprotocols(protocols ...string) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

// WithWSUpgradeHeaders sets extra headers included in the upgrade response.
func WithWSUpgradeHeaders(header http.Header) WebSocketOption {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

// WebSocket creates a response that upgrades the connection and hands it to
// the given session function. The connection is closed when the function
// returns; its error, if any, surfaces through the router's error handler
// only when the handshake itself failed (an established socket has already
// hijacked the connection, so errors after upgrade are returned as-is for
// logging by the caller).
func WebSocket(session func(ctx context.Context, conn *websocket.Conn) error, opts ...WebSocketOption) handler.Response {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			// Upgrade already wrote an HTTP error response.
			return nil
		}
		defer conn.Close()

		return session(r.Context(), conn)
	}
}
