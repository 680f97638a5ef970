// Package store defines the storage and source contracts the register is
// built against, plus the adapters that satisfy them: an in-memory store
// for tests, a filesystem store backed by afero, and an HTTP source for
// trusted mirrors.
package store

import "errors"

// ErrDoesNotExist is returned when a key or manifest is missing. Callers
// that initialize register state treat it as "start empty"; user-facing
// load calls treat it as a failure.
var ErrDoesNotExist = errors.New("does not exist")
