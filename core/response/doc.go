// Package response provides constructors for handler.Response values: plain
// text, HTML, JSON, redirects, Server-Sent Events streams, and WebSocket
// upgrades, plus the HTTPError taxonomy rendered by the router at the
// dispatch boundary.
package response
