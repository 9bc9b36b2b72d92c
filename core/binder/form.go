package binder

import (
	"fmt"
	"net/url"
)

// Form decodes application/x-www-form-urlencoded body bytes into v.
//
// Supported struct tags:
//   - `form:"name"` binds to form field "name"
//   - `form:"-"`    skips the field
//
// Basic types, pointers to basic types, and slices of basic types are
// supported; absent fields keep their zero values.
func Form(body []byte, v any) error {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}
	return bindToStruct(v, "form", values, ErrFailedToParseForm)
}
