package store

import (
	"bytes"
	"context"
	"io"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
)

type memoryEntry struct {
	entry    StorableEntry
	checksum integrity.Checksum
}

// Memory is an in-memory Storage. It never resolves external URIs
// (CanResolve always reports false); content from outside the record
// has to come through a separate Source.
type Memory struct {
	entries   *xsync.MapOf[string, memoryEntry]
	manifests *xsync.MapOf[string, integrity.Manifest]
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		entries:   xsync.NewMapOf[string, memoryEntry](),
		manifests: xsync.NewMapOf[string, integrity.Manifest](),
	}
}

// CanResolve always reports false; Memory is a destination, not a source
// of externally-supplied content.
func (m *Memory) CanResolve(uri.URI) bool { return false }

// Load returns the stream stored at u, as LoadEntry does, without its
// checksum.
func (m *Memory) Load(ctx context.Context, u uri.URI) (*Stream, error) {
	stream, _, err := m.LoadEntry(ctx, u)
	return stream, err
}

// ListSubkeys returns every stored key (entry or manifest) whose path is
// an immediate child of key's path.
func (m *Memory) ListSubkeys(_ context.Context, key uri.URI) ([]string, error) {
	prefix := key.String() + "/"
	seen := map[string]struct{}{}
	collect := func(k string) {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			return
		}
		rest := k[len(prefix):]
		for i := 0; i < len(rest); i++ {
			if rest[i] == '/' {
				rest = rest[:i]
				break
			}
		}
		seen[rest] = struct{}{}
	}
	m.entries.Range(func(k string, _ memoryEntry) bool { collect(k); return true })
	m.manifests.Range(func(k string, _ integrity.Manifest) bool { collect(k); return true })

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out, nil
}

// StoreEntry buffers entry.Content fully into memory, transparently
// gunzipping it first if entry.File.IsGzipped is set.
func (m *Memory) StoreEntry(ctx context.Context, entry StorableEntry) (integrity.Checksum, error) {
	r, err := entry.Content.Reader(ctx)
	if err != nil {
		return "", err
	}
	if entry.File.IsGzipped {
		gz, err := GunzipReader(r, entry.File.SizeBytes)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		r = gz
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	entry.File.IsGzipped = false
	entry.File.SizeBytes = int64(len(raw))
	checksum := integrity.ChecksumBytes(raw)
	entry.Content = BytesStream(raw)

	m.entries.Store(entry.Key.String(), memoryEntry{entry: entry, checksum: checksum})
	return checksum, nil
}

// LoadEntry returns the stream and checksum stored at key.
func (m *Memory) LoadEntry(_ context.Context, key uri.URI) (*Stream, integrity.Checksum, error) {
	stored, ok := m.entries.Load(key.String())
	if !ok {
		return nil, "", errdefs.Newf(ErrDoesNotExist, "no entry at %s", key)
	}
	stored.entry.Content.Rewind()
	raw, err := io.ReadAll(bytesReaderFor(stored.entry.Content))
	if err != nil {
		return nil, "", err
	}
	return BytesStream(raw), stored.checksum, nil
}

func bytesReaderFor(s *Stream) io.Reader {
	r, err := s.Reader(context.Background())
	if err != nil {
		return bytes.NewReader(nil)
	}
	return r
}

// StoreManifest persists m at key.
func (m *Memory) StoreManifest(_ context.Context, key uri.URI, man integrity.Manifest) error {
	m.manifests.Store(key.String(), man)
	return nil
}

// LoadManifest returns the manifest stored at key.
func (m *Memory) LoadManifest(_ context.Context, key uri.URI) (integrity.Manifest, error) {
	man, ok := m.manifests.Load(key.String())
	if !ok {
		return integrity.Manifest{}, errdefs.Newf(ErrDoesNotExist, "no manifest at %s", key)
	}
	return man, nil
}

var _ Storage = (*Memory)(nil)
