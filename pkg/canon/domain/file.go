package domain

import (
	"time"

	"github.com/arxiv/canonical/pkg/canon/uri"
)

// CanonicalFile is the immutable descriptor of one bitstream: a source
// package, a rendered PDF, a dissemination format. Content itself is not
// held here; it is fetched on demand by dereferencing Ref, which starts
// out pointing at wherever a source first produced the bytes and is
// rewritten to the record's own arxiv:// key once the register has
// stored them.
type CanonicalFile struct {
	Filename    string      `json:"filename"`
	MimeType    string      `json:"mime_type"`
	Modified    time.Time   `json:"modified"`
	SizeBytes   int64       `json:"size_bytes"`
	ContentType ContentType `json:"content_type"`
	Ref         uri.URI     `json:"ref"`
	IsGzipped   bool        `json:"is_gzipped"`
}

// WithFilename returns a copy of f with Filename replaced.
func (f CanonicalFile) WithFilename(filename string) CanonicalFile {
	f.Filename = filename
	return f
}

// WithRef returns a copy of f with Ref replaced, e.g. to rewrite a
// source-supplied URI to the record's own canonical key once stored.
func (f CanonicalFile) WithRef(ref uri.URI) CanonicalFile {
	f.Ref = ref
	return f
}
