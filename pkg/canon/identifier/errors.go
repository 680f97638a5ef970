// Package identifier provides the arXiv e-print, version, listing and event
// identifier types used throughout the canonical record.
package identifier

import "errors"

var (
	// ErrBadIdentifier is returned when a value does not match either the
	// old-style or new-style arXiv identifier grammar.
	ErrBadIdentifier = errors.New("bad arxiv identifier")
	// ErrBadVersion is returned when a versioned identifier has a
	// non-positive version number or malformed "vN" suffix.
	ErrBadVersion = errors.New("bad arxiv version identifier")
	// ErrBadEventIdentifier is returned when an event identifier cannot be
	// decoded back into its constituent parts.
	ErrBadEventIdentifier = errors.New("bad event identifier")
)
