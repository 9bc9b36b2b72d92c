package cookie

import (
	"errors"
	"net/http"
)

// ErrCookieNotFound is returned when the request carries no cookie with the
// requested name.
var ErrCookieNotFound = errors.New("cookie: not found")

// Jar is a per-request cookie jar. It is seeded from the incoming request's
// Cookie header and collects outgoing Set-Cookie entries. A later Set for the
// same name replaces the earlier entry within the same response.
//
// A Jar belongs to exactly one request and must not be shared across
// requests, so it needs no locking.
type Jar struct {
	inbound  []*http.Cookie
	outbound []*http.Cookie
}

// New creates a jar seeded from the request's cookies.
func New(r *http.Request) *Jar {
	return &Jar{inbound: r.Cookies()}
}

// Get returns the named cookie from the incoming request.
func (j *Jar) Get(name string) (*http.Cookie, error) {
	for _, c := range j.inbound {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, ErrCookieNotFound
}

// Value returns the value of the named request cookie, or "" when absent.
func (j *Jar) Value(name string) string {
	c, err := j.Get(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Set queues an outgoing cookie, replacing any queued cookie with the same name.
func (j *Jar) Set(c *http.Cookie) {
	for i, existing := range j.outbound {
		if existing.Name == c.Name {
			j.outbound[i] = c
			return
		}
	}
	j.outbound = append(j.outbound, c)
}

// SetValue queues a session cookie with the given name and value on path "/".
func (j *Jar) SetValue(name, value string) {
	j.Set(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Delete queues an expiring cookie that instructs the client to drop the name.
func (j *Jar) Delete(name string) {
	j.Set(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Outbound returns the queued outgoing cookies in set order.
func (j *Jar) Outbound() []*http.Cookie {
	return j.outbound
}

// WriteTo appends one Set-Cookie header per queued cookie.
func (j *Jar) WriteTo(h http.Header) {
	for _, c := range j.outbound {
		if v := c.String(); v != "" {
			h.Add("Set-Cookie", v)
		}
	}
}
