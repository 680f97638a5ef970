// Package uri parses and validates the URIs used to address content in
// the canonical record: arxiv:// canonical keys, file:// filesystem
// locations, and https:// mirrors.
package uri

import "errors"

// ErrBadURI is returned when a value cannot be parsed as a URI, or parses
// but uses a scheme that is not registered.
var ErrBadURI = errors.New("bad uri")
