// Package domain defines the value types that make up the canonical
// record: e-prints, versions, their metadata and files, and the events
// that announce changes to them. Every type here is immutable once
// constructed and round-trips through canonjson without loss.
package domain

import "errors"

var (
	// ErrUnknownFormat is returned by Version.Format when asked for a
	// dissemination format that does not exist in any category.
	ErrUnknownFormat = errors.New("unknown dissemination format")
	// ErrFormatNotAvailable is returned by Version.Format when the format
	// is a recognized ContentType but this particular version does not
	// carry it.
	ErrFormatNotAvailable = errors.New("format not available for this version")
)
