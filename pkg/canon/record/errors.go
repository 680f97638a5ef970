// Package record implements the key algebra: the pure functions that map
// identifiers and dates onto the canonical arxiv:// keys described by the
// hierarchy in the domain model, and their exact inverse.
package record

import "errors"

// ErrBadKey is returned when a key does not match any recognized member
// shape in the hierarchy.
var ErrBadKey = errors.New("key does not match any known record member")
