package uri

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arxiv/canonical/pkg/errdefs"
)

const (
	// SchemeArxiv addresses a resource by its canonical key, independent of
	// where it is physically stored, e.g. "arxiv:///2901.00345v1/2901.00345v1.pdf".
	SchemeArxiv = "arxiv"
	// SchemeFile addresses a resource on a local or mounted filesystem.
	SchemeFile = "file"
	// SchemeHTTPS addresses a resource on a remote mirror.
	SchemeHTTPS = "https"
)

// URI is a parsed, validated reference to a resource in the canonical
// record. It wraps url.URL so callers get the usual query/fragment
// handling for free, restricted to schemes this package knows about.
type URI struct {
	u url.URL
}

// Parse validates raw and returns the URI it names. The scheme must be
// registered (see RegisterScheme); unregistered or missing schemes are
// rejected.
func Parse(raw string) (URI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return URI{}, errdefs.NewE(ErrBadURI, err)
	}
	if parsed.Scheme == "" {
		return URI{}, errdefs.Newf(ErrBadURI, "%q has no scheme", raw)
	}
	if !IsRegisteredScheme(parsed.Scheme) {
		return URI{}, errdefs.Newf(ErrBadURI, "%q uses unregistered scheme %q", raw, parsed.Scheme)
	}
	return URI{u: *parsed}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) URI {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// FromPath builds a file:// URI from an absolute filesystem path.
func FromPath(absPath string) (URI, error) {
	if !filepath.IsAbs(absPath) {
		return URI{}, errdefs.Newf(ErrBadURI, "%q is not an absolute path", absPath)
	}
	return URI{u: url.URL{Scheme: SchemeFile, Path: filepath.ToSlash(absPath)}}, nil
}

// Scheme returns the URI's scheme.
func (u URI) Scheme() string {
	return u.u.Scheme
}

// Path returns the URI's path component.
func (u URI) Path() string {
	return u.u.Path
}

// Host returns the URI's host component, empty for arxiv:// and most
// file:// URIs.
func (u URI) Host() string {
	return u.u.Host
}

// IsZero reports whether u is the unparsed zero value.
func (u URI) IsZero() bool {
	return u.u.Scheme == ""
}

// String renders the URI back to its textual form.
func (u URI) String() string {
	return u.u.String()
}

// Join returns a copy of u with additional path segments appended, joined
// by "/". It does not touch the scheme or host.
func (u URI) Join(segments ...string) URI {
	next := u.u
	parts := append([]string{strings.TrimSuffix(next.Path, "/")}, segments...)
	next.Path = strings.Join(parts, "/")
	return URI{u: next}
}

// MarshalText implements encoding.TextMarshaler.
func (u URI) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URI) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
