// Package cookie provides the per-request cookie jar used by the router's
// default context. The jar reads cookies from the incoming request and
// accumulates outgoing Set-Cookie entries that the router flushes just before
// the response renders.
package cookie
