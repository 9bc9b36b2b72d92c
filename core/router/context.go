package router

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flint/core/binder"
	"github.com/dmitrymomot/flint/core/cookie"
	"github.com/dmitrymomot/flint/core/handler"
	"github.com/dmitrymomot/flint/core/response"
)

// RequestIDHeader is the inbound header consulted before generating a fresh
// request identifier.
const RequestIDHeader = "X-Request-ID"

// Context is the default per-request context. One instance is created per
// dispatch call and discarded when it returns; it is never shared across
// requests, so none of its mutable state needs locking.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string

	state     map[any]any
	query     url.Values
	headers   http.Header
	jar       *cookie.Jar
	requestID string

	body     []byte
	bodyErr  error
	bodyRead bool
}

// NewContext creates the default request context. Custom context factories
// embed the result to extend it with application state.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{
		w:      w,
		r:      r,
		params: params,
	}
}

// Deadline returns the time when work done on behalf of this context should be canceled.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done returns a channel that's closed when work done on behalf of this context should be canceled.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err returns a non-nil error value after Done is closed.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the value stored via SetValue, falling back to the request's context.
func (c *Context) Value(key any) any {
	if c.state != nil {
		if v, ok := c.state[key]; ok {
			return v
		}
	}
	return c.r.Context().Value(key)
}

// SetValue stores a value in the per-request state map for
// middleware-to-middleware communication within the same request.
func (c *Context) SetValue(key, val any) {
	if c.state == nil {
		c.state = make(map[any]any)
	}
	c.state[key] = val
}

// Request returns the HTTP request associated with this context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer associated with this context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the decoded value of the URL parameter for the given key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// Params returns a copy of all extracted path parameters.
func (c *Context) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

// Query returns the first query value for the given key.
func (c *Context) Query(key string) string {
	return c.QueryValues().Get(key)
}

// QueryValues returns the parsed query string. Parsing is done once and cached.
func (c *Context) QueryValues() url.Values {
	if c.query == nil {
		c.query = c.r.URL.Query()
	}
	return c.query
}

// BindQuery binds query parameters into v using `query` struct tags.
func (c *Context) BindQuery(v any) error {
	return binder.Query(c.QueryValues(), v)
}

// RequestID returns the request identifier: the inbound X-Request-ID when
// present, otherwise a freshly generated UUID. Stable for the request's lifetime.
func (c *Context) RequestID() string {
	if c.requestID == "" {
		if id := c.r.Header.Get(RequestIDHeader); id != "" {
			c.requestID = id
		} else {
			c.requestID = uuid.NewString()
		}
	}
	return c.requestID
}

// RemoteAddr returns the connection's remote address.
func (c *Context) RemoteAddr() string {
	return c.r.RemoteAddr
}

// SetHeader queues an outgoing response header. Queued headers are applied
// just before the handler's response renders.
func (c *Context) SetHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(http.Header)
	}
	c.headers.Set(key, value)
}

// Header returns the outgoing header accumulator.
func (c *Context) Header() http.Header {
	if c.headers == nil {
		c.headers = make(http.Header)
	}
	return c.headers
}

// Cookies returns the per-request cookie jar, seeded from the request on
// first use.
func (c *Context) Cookies() *cookie.Jar {
	if c.jar == nil {
		c.jar = cookie.New(c.r)
	}
	return c.jar
}

// SetCookie queues an outgoing cookie; a later call for the same name
// replaces the earlier one within this response.
func (c *Context) SetCookie(ck *http.Cookie) {
	c.Cookies().Set(ck)
}

// Body returns the raw request body, read once and cached. The body on the
// wire is readable exactly once; every binder goes through this cache.
func (c *Context) Body() ([]byte, error) {
	if !c.bodyRead {
		c.bodyRead = true
		if c.r.Body != nil {
			c.body, c.bodyErr = io.ReadAll(c.r.Body)
		}
	}
	return c.body, c.bodyErr
}

// BindJSON decodes the cached request body as JSON into v.
// Malformed JSON surfaces as a 400 with a fixed message.
func (c *Context) BindJSON(v any) error {
	body, err := c.Body()
	if err != nil {
		return response.ErrBadRequest.WithMessage("failed to read request body")
	}
	if err := binder.JSON(body, v); err != nil {
		return response.ErrBadRequest.WithMessage("invalid JSON body")
	}
	return nil
}

// BindForm decodes the cached request body as URL-encoded form data into v.
func (c *Context) BindForm(v any) error {
	body, err := c.Body()
	if err != nil {
		return response.ErrBadRequest.WithMessage("failed to read request body")
	}
	if err := binder.Form(body, v); err != nil {
		return response.ErrBadRequest.WithMessage("invalid form body")
	}
	return nil
}

// Bind decodes the request body into v based on the Content-Type header.
// application/json and application/x-www-form-urlencoded are supported.
func (c *Context) Bind(v any) error {
	mediaType := c.r.Header.Get("Content-Type")
	if mediaType != "" {
		if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = mt
		}
	}

	switch mediaType {
	case "application/json":
		return c.BindJSON(v)
	case "application/x-www-form-urlencoded":
		return c.BindForm(v)
	default:
		return response.ErrBadRequest.WithMessage("unsupported content type")
	}
}

// NotFound returns a response propagating a 404 taxonomy error.
func (c *Context) NotFound() handler.Response {
	return response.Error(response.ErrNotFound)
}

// BadRequest returns a response propagating a 400 taxonomy error with the
// given message.
func (c *Context) BadRequest(message string) handler.Response {
	return response.Error(response.ErrBadRequest.WithMessage(message))
}

// Unauthorized returns a response propagating a 401 taxonomy error.
func (c *Context) Unauthorized() handler.Response {
	return response.Error(response.ErrUnauthorized)
}

// Forbidden returns a response propagating a 403 taxonomy error.
func (c *Context) Forbidden() handler.Response {
	return response.Error(response.ErrForbidden)
}

// flush applies accumulated headers and queued cookies to the outgoing
// response. Called by dispatch right before the response renders.
func (c *Context) flush(h http.Header) {
	for key, values := range c.headers {
		h[key] = values
	}
	if c.jar != nil {
		c.jar.WriteTo(h)
	}
}
