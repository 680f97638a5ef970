package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arxiv/canonical/pkg/canon/canonjson"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// FileSystem is a Storage backed by an afero.Fs, rooted at base. It
// refuses to resolve file:// URIs that fall outside base.
type FileSystem struct {
	fs   afero.Fs
	base string
}

// NewFileSystem returns a FileSystem rooted at base on fs.
func NewFileSystem(fs afero.Fs, base string) *FileSystem {
	return &FileSystem{fs: fs, base: filepath.Clean(base)}
}

// CanResolve reports whether u is a file:// URI under this store's base.
func (f *FileSystem) CanResolve(u uri.URI) bool {
	if u.Scheme() != uri.SchemeFile {
		return false
	}
	_, err := f.resolve(u)
	return err == nil
}

func (f *FileSystem) resolve(u uri.URI) (string, error) {
	clean := filepath.Clean(u.Path())
	full := filepath.Join(f.base, strings.TrimPrefix(clean, "/"))
	if !strings.HasPrefix(full, f.base) {
		return "", errdefs.Newf(errdefs.ErrForbidden, "%s resolves outside base %s", u, f.base)
	}
	return full, nil
}

func (f *FileSystem) pathForKey(key uri.URI) string {
	return filepath.Join(f.base, filepath.FromSlash(strings.TrimPrefix(key.Path(), "/")))
}

// Load opens the file named by u, which must be a file:// URI under this
// store's base.
func (f *FileSystem) Load(_ context.Context, u uri.URI) (*Stream, error) {
	path, err := f.resolve(u)
	if err != nil {
		return nil, err
	}
	return NewStream(func(context.Context) (io.ReadCloser, error) {
		file, err := f.fs.Open(path)
		if err != nil {
			return nil, errdefs.NewE(ErrDoesNotExist, err)
		}
		return file, nil
	}), nil
}

// ListSubkeys lists the direct children of key's directory.
func (f *FileSystem) ListSubkeys(_ context.Context, key uri.URI) ([]string, error) {
	dir := f.pathForKey(key)
	entries, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, errdefs.NewE(ErrDoesNotExist, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// StoreEntry writes entry.Content to its key's path, transparently
// gunzipping it first when entry.File.IsGzipped is set.
func (f *FileSystem) StoreEntry(ctx context.Context, entry StorableEntry) (integrity.Checksum, error) {
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

	path := f.pathForKey(entry.Key)
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	file, err := f.fs.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := integrity.NewChecksummingWriter()
	if _, err := io.Copy(io.MultiWriter(file, h), r); err != nil {
		return "", err
	}
	return h.Checksum(), nil
}

// LoadEntry opens the file stored at key and computes its checksum.
func (f *FileSystem) LoadEntry(_ context.Context, key uri.URI) (*Stream, integrity.Checksum, error) {
	path := f.pathForKey(key)
	raw, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, "", errdefs.NewE(ErrDoesNotExist, err)
	}
	return BytesStream(raw), integrity.ChecksumBytes(raw), nil
}

// StoreManifest writes m as canonical JSON at key.
func (f *FileSystem) StoreManifest(_ context.Context, key uri.URI, m integrity.Manifest) error {
	m.Sort()
	raw, err := canonjson.Marshal(m)
	if err != nil {
		return err
	}
	path := f.pathForKey(key)
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(f.fs, path, raw, 0o644)
}

// LoadManifest reads and decodes the manifest stored at key.
func (f *FileSystem) LoadManifest(_ context.Context, key uri.URI) (integrity.Manifest, error) {
	raw, err := afero.ReadFile(f.fs, f.pathForKey(key))
	if err != nil {
		return integrity.Manifest{}, errdefs.NewE(ErrDoesNotExist, err)
	}
	var m integrity.Manifest
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&m); err != nil {
		return integrity.Manifest{}, err
	}
	return m, nil
}

var _ Storage = (*FileSystem)(nil)
