package binder

import "net/url"

// Query binds URL query parameters into v using `query` struct tags.
func Query(values url.Values, v any) error {
	return bindToStruct(v, "query", values, ErrFailedToParseQuery)
}
