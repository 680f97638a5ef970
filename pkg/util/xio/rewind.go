// Package xio holds small io helpers shared by the storage and source
// adapters.
package xio

import (
	"bytes"
	"io"
)

// RewindReader wraps a reader so that everything read through it can be
// re-read: bytes coming off the underlying stream are copied into a
// buffer as they pass through, and Rewind resets the read position back
// to the start of that buffer. Loosely based on the Connection type
// from https://github.com/mholt/caddy-l4.
type RewindReader struct {
	raw       io.Reader
	buf       *bytes.Buffer
	bufReader io.Reader
}

// NewRewindReader returns a RewindReader over r, or nil when r is nil.
func NewRewindReader(r io.Reader) *RewindReader {
	if r == nil {
		return nil
	}
	return &RewindReader{
		raw: r,
		buf: new(bytes.Buffer),
	}
}

// Read serves buffered bytes first after a Rewind, then continues from
// the underlying stream, recording everything it hands out.
func (rr *RewindReader) Read(p []byte) (n int, err error) {
	if rr == nil {
		panic("internal error: reading from nil RewindReader")
	}
	if rr.bufReader != nil {
		n, err = rr.bufReader.Read(p)
		if err == io.EOF {
			rr.bufReader = nil
			err = nil
		}
		if n == len(p) {
			return
		}
	}

	nr, err := rr.raw.Read(p[n:])
	// whatever came off the stream must be recorded, even on error,
	// or a later Rewind would lose it
	if nr > 0 {
		if nw, errw := rr.buf.Write(p[n : n+nr]); errw != nil {
			return nw, errw
		}
	}
	n += nr
	return
}

// Rewind resets the read position so the next Read starts again from
// the first byte ever read.
func (rr *RewindReader) Rewind() {
	if rr == nil {
		return
	}
	rr.bufReader = bytes.NewReader(rr.buf.Bytes())
}

// Reader returns a plain reader over the buffered bytes followed by the
// rest of the underlying stream. Reads through it are not recorded, so
// no further Rewind is possible afterwards. If the underlying reader is
// seekable it is rewound and returned directly.
func (rr *RewindReader) Reader() io.Reader {
	if rr == nil {
		return nil
	}
	if ras, ok := rr.raw.(io.Seeker); ok {
		if _, err := ras.Seek(0, io.SeekStart); err == nil {
			return rr.raw
		}
	}
	return io.MultiReader(bytes.NewReader(rr.buf.Bytes()), rr.raw)
}
