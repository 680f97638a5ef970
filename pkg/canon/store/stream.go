package store

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/arxiv/canonical/pkg/util/xio"
)

// Opener lazily produces the underlying byte stream for a Stream. It is
// not called until the first Reader call, so constructing a Stream never
// performs I/O by itself.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// Stream is a deferred-open, rewindable byte stream: the storage and
// source contracts return one of these instead of a raw io.Reader so
// that dereferencing a URI never does I/O until something actually
// reads from it, and so a caller (or the register, replaying a batch)
// can re-read content for a free rewind-to-zero.
type Stream struct {
	opener Opener

	mu sync.Mutex
	rc io.ReadCloser
	rr *xio.RewindReader
}

// NewStream wraps opener in a Stream.
func NewStream(opener Opener) *Stream {
	return &Stream{opener: opener}
}

// BytesStream returns a Stream that serves raw from memory, for tests
// and for adapters that already hold the content in hand.
func BytesStream(raw []byte) *Stream {
	return NewStream(func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	})
}

func (s *Stream) ensureOpen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rr != nil {
		return nil
	}
	rc, err := s.opener(ctx)
	if err != nil {
		return err
	}
	s.rc = rc
	s.rr = xio.NewRewindReader(rc)
	return nil
}

// Reader opens the stream if necessary and returns an io.Reader over it.
// Calling Reader again without an intervening Rewind continues reading
// where the last Reader left off.
func (s *Stream) Reader(ctx context.Context) (io.Reader, error) {
	if err := s.ensureOpen(ctx); err != nil {
		return nil, err
	}
	return s.rr, nil
}

// Rewind resets the stream so the next Reader call re-reads from the
// start. It is a no-op if the stream has not been opened yet.
func (s *Stream) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rr != nil {
		s.rr.Rewind()
	}
}

// Close releases the underlying resource, if it was ever opened.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rc == nil {
		return nil
	}
	return s.rc.Close()
}
