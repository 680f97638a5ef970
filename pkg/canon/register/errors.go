// Package register implements the hierarchical register: the tree of
// manifests that composes versions into e-prints into days, months, and
// years (and, on the announcement side, listing shards into days, months,
// and years), plus the event-dispatch semantics that grow it one batch of
// events at a time.
//
// Every level is a lazily-materializing collection: a manifest records its
// children's keys and checksums up front, but a child is not loaded from
// storage until something actually asks for it.
package register

import "errors"

var (
	// ErrVersionExists is returned when a new, replace, or withdraw event
	// names a version number that already exists on its e-print.
	ErrVersionExists = errors.New("version already exists")

	// ErrVersionMissing is returned when an update-family event (update,
	// update_metadata, cross, migrate, migrate_metadata) names a version
	// number that has not been created yet.
	ErrVersionMissing = errors.New("version does not exist")

	// ErrContentChangeNotAllowed is returned when a metadata-only event
	// (update_metadata, migrate_metadata, cross) supplies a source,
	// render, or format that differs from the version's current one.
	ErrContentChangeNotAllowed = errors.New("event type does not allow content changes")
)
