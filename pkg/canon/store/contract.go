package store

import (
	"context"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/uri"
)

//go:generate mockgen -destination=./mocks/mock_store.go -package=mocks github.com/arxiv/canonical/pkg/canon/store Source,Storage

// Source dereferences opaque URIs to byte streams. Multiple sources may
// be registered with a resolver; the first whose CanResolve returns true
// is used. Implementations must be safe for concurrent use.
type Source interface {
	// CanResolve reports whether this source is able to load u.
	CanResolve(u uri.URI) bool
	// Load dereferences u. It must defer the underlying I/O until the
	// returned Stream is first read.
	Load(ctx context.Context, u uri.URI) (*Stream, error)
}

// StorableEntry is one bitstream queued for storage: the canonical key
// it will live at, the descriptor that travels with it, and its content.
type StorableEntry struct {
	Key     uri.URI
	File    domain.CanonicalFile
	Content *Stream
}

// Storage is the durable, content-addressed backing store the register
// is built on: a superset of Source that also supports writes, manifest
// persistence, and direct-child enumeration.
type Storage interface {
	Source

	// ListSubkeys returns the direct children of key, non-recursively.
	ListSubkeys(ctx context.Context, key uri.URI) ([]string, error)

	// StoreEntry persists entry. If entry.File.IsGzipped is set, the
	// implementation must transparently gunzip the content as it is
	// written, updating SizeBytes and clearing IsGzipped in what it
	// records, and return the checksum of the stored (decompressed)
	// bytes.
	StoreEntry(ctx context.Context, entry StorableEntry) (integrity.Checksum, error)

	// LoadEntry returns the stream and checksum for key. It returns
	// ErrDoesNotExist if key has no entry.
	LoadEntry(ctx context.Context, key uri.URI) (*Stream, integrity.Checksum, error)

	// StoreManifest persists m at key, overwriting any prior manifest.
	StoreManifest(ctx context.Context, key uri.URI, m integrity.Manifest) error

	// LoadManifest returns the manifest at key. It returns
	// ErrDoesNotExist if key has no manifest, which callers that
	// initialize empty register state should treat as "start empty".
	LoadManifest(ctx context.Context, key uri.URI) (integrity.Manifest, error)
}
