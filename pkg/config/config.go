// Package config holds the plain structs the backfill CLI populates
// from flags and environment; there is no remote config system in this
// domain.
package config

import "time"

// Storage configures the target canonical record a backfill run writes
// to.
type Storage struct {
	// RecordPath is the base directory (or arxiv:// root) the
	// register's storage backend is rooted at.
	RecordPath string
}

// Sources configures where backfill dereferences event content from,
// in the order they are tried.
type Sources struct {
	// ClassicPath is the root of the classic data tree (orig/, ftp/)
	// used to resolve source packages and renders by key.
	ClassicPath string
	// TrustedHost is the single host the HTTP source is permitted to
	// fetch from.
	TrustedHost string
}

// Backfill configures one backfill run end to end.
type Backfill struct {
	Storage Storage
	Sources Sources

	// EventsPath is a file of newline-delimited canonical-JSON Event
	// records, produced externally by the classic ingest adapter, the
	// input this command streams into the register.
	EventsPath string
	// CachePath is a directory for the cursor file and any local
	// content cache.
	CachePath string
	// Until, if non-zero, stops the run before any event whose
	// EventDate is after it.
	Until time.Time
	// SkipOnError, when set, logs and continues past an event that
	// fails AddEvents instead of halting the run.
	SkipOnError bool
	// Reset discards any existing cursor and starts from the first
	// event in EventsPath.
	Reset bool
}
