package store

import (
	"context"
	"time"

	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/util/xcache"
)

// entryChecksum is what Cached records after a LoadEntry call: the
// checksum alone, not the stream itself. Streams carry their own mutable
// read state (see Stream.Rewind) and are not safe to share verbatim
// across callers, so every LoadEntry goes to the underlying Storage for
// both the bytes and the checksum; the recorded value is not read back.
type entryChecksum struct {
	checksum integrity.Checksum
	size     int64
}

// Cached wraps a Storage with an in-process memoizing cache in front of
// LoadManifest: repeated concurrent reads of the same hot manifest (an
// e-print or day manifest revisited across many register walks) are
// coalesced instead of making a fresh round-trip to the backing store
// each time. LoadEntry passes through to the wrapped Storage.
type Cached struct {
	Storage
	manifests xcache.Cache[integrity.Manifest]
	entries   xcache.Cache[entryChecksum]
}

// NewCached wraps storage with a TTL-bounded memoizing cache. A ttl of 0
// selects a 1-hour default; a negative ttl disables caching entirely
// (every read goes to the backing store) while keeping the same
// wrapper in place.
func NewCached(storage Storage, ttl time.Duration) *Cached {
	if ttl < 0 {
		return &Cached{
			Storage:   storage,
			manifests: xcache.NewDiscard[integrity.Manifest](),
			entries:   xcache.NewDiscard[entryChecksum](),
		}
	}
	return &Cached{
		Storage:   storage,
		manifests: xcache.NewMemory[integrity.Manifest](ttl),
		entries:   xcache.NewMemory[entryChecksum](ttl),
	}
}

// LoadManifest returns the cached manifest at key, loading and caching it
// from the wrapped Storage on a miss.
func (c *Cached) LoadManifest(ctx context.Context, key uri.URI) (integrity.Manifest, error) {
	var loadErr error
	m, ok := c.manifests.Get(ctx, key.String(), xcache.WithLoader(func(ctx context.Context, _ string) (integrity.Manifest, bool) {
		loaded, err := c.Storage.LoadManifest(ctx, key)
		if err != nil {
			loadErr = err
			return integrity.Manifest{}, false
		}
		return loaded, true
	}))
	if loadErr != nil {
		return integrity.Manifest{}, loadErr
	}
	if !ok {
		return integrity.Manifest{}, ErrDoesNotExist
	}
	return m, nil
}

// StoreManifest persists m and invalidates any cached copy at key, so a
// subsequent LoadManifest observes the write.
func (c *Cached) StoreManifest(ctx context.Context, key uri.URI, m integrity.Manifest) error {
	if err := c.Storage.StoreManifest(ctx, key, m); err != nil {
		return err
	}
	c.manifests.Delete(ctx, key.String())
	return nil
}

// LoadEntry returns the stream and checksum for key from the wrapped
// Storage and records the checksum; the checksum returned always comes
// from the wrapped Storage, never from the cache.
func (c *Cached) LoadEntry(ctx context.Context, key uri.URI) (*Stream, integrity.Checksum, error) {
	stream, checksum, err := c.Storage.LoadEntry(ctx, key)
	if err != nil {
		return nil, "", err
	}
	c.entries.Set(ctx, key.String(), entryChecksum{checksum: checksum})
	return stream, checksum, nil
}

// StoreEntry persists entry and invalidates any cached checksum at its
// key.
func (c *Cached) StoreEntry(ctx context.Context, entry StorableEntry) (integrity.Checksum, error) {
	checksum, err := c.Storage.StoreEntry(ctx, entry)
	if err != nil {
		return "", err
	}
	c.entries.Delete(ctx, entry.Key.String())
	return checksum, nil
}

var _ Storage = (*Cached)(nil)
