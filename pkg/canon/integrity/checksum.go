// Package integrity implements the hierarchical checksum and manifest
// model: a leaf checksum is the md5 of a bitstream; a collection checksum
// is the md5 of its sorted children's checksums concatenated, so that
// identical contents in any two replicas produce identical hashes all
// the way up to the root.
package integrity

import (
	"crypto/md5" //nolint:gosec // content-addressing digest, not used for security
	"encoding/base64"
	"errors"
	"hash"
	"io"
	"sort"
	"strings"
)

// Checksum is a URL-safe base64-encoded md5 hash, as used throughout the
// record for both leaf bitstreams and collection manifests.
type Checksum string

// ErrMissingChecksum is returned when a manifest entry required for a
// checksum roll-up has no checksum recorded.
var ErrMissingChecksum = errors.New("manifest entry has no checksum")

// ChecksumReader computes the checksum of everything read from r.
func ChecksumReader(r io.Reader) (Checksum, error) {
	h := md5.New() //nolint:gosec
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return Checksum(base64.URLEncoding.EncodeToString(h.Sum(nil))), nil
}

// ChecksumBytes computes the checksum of raw directly.
func ChecksumBytes(raw []byte) Checksum {
	h := md5.Sum(raw) //nolint:gosec
	return Checksum(base64.URLEncoding.EncodeToString(h[:]))
}

// ChecksummingWriter accumulates a checksum over everything written to
// it, for callers that need to compute a checksum while streaming
// content to its destination (e.g. io.MultiWriter with a file) rather
// than buffering it first.
type ChecksummingWriter struct {
	h hash.Hash
}

// NewChecksummingWriter returns a ChecksummingWriter ready to accept
// writes.
func NewChecksummingWriter() *ChecksummingWriter {
	return &ChecksummingWriter{h: md5.New()} //nolint:gosec
}

// Write implements io.Writer.
func (c *ChecksummingWriter) Write(p []byte) (int, error) {
	return c.h.Write(p)
}

// Checksum returns the checksum of everything written so far.
func (c *ChecksummingWriter) Checksum() Checksum {
	return Checksum(base64.URLEncoding.EncodeToString(c.h.Sum(nil)))
}

// RollUp computes a collection's checksum from its children's checksums:
// sort the (key, checksum) pairs by key, concatenate the checksums, and
// checksum the result. This is also how Manifest.Checksum computes a
// manifest's own checksum from its entries.
func RollUp(keyed map[string]Checksum) Checksum {
	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(string(keyed[k]))
	}
	return ChecksumBytes([]byte(sb.String()))
}
