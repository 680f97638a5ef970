package lock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arxiv/canonical/pkg/errdefs"
)

// WriteLock is one participant's handle on a named write lock: it
// waits its turn on queue, runs the caller's critical section (Hold),
// and passes the token on to whoever is waiting next.
type WriteLock struct {
	Name string
	ID   uuid.UUID

	queue    Queue
	position int
}

// New returns a WriteLock for name, coordinating through queue.
func New(name string, queue Queue) *WriteLock {
	return &WriteLock{Name: name, ID: uuid.New(), queue: queue, position: -1}
}

// ColdStart seeds queue with the first token, position 0. Exactly one
// participant in a named lock's lifetime calls this, before any
// Acquire/Hold.
func (w *WriteLock) ColdStart(ctx context.Context) error {
	return w.queue.PushBack(ctx, Token{Name: w.Name, Holder: w.ID, Position: 0, Timestamp: time.Now().UTC()})
}

// Acquire blocks until the token at this WriteLock's next position
// arrives, claims it, and passes a freshly-stamped token for the
// following position back onto the queue.
func (w *WriteLock) Acquire(ctx context.Context) error {
	token, err := w.await(ctx)
	if err != nil {
		return err
	}
	w.position = token.Position
	return w.advance(ctx)
}

// Hold acquires the next position in line, runs fn, then always passes
// the token on (whether or not fn returned an error) so the line keeps
// moving.
func (w *WriteLock) Hold(ctx context.Context, fn func(ctx context.Context) error) error {
	token, err := w.await(ctx)
	if err != nil {
		return err
	}
	w.position = token.Position

	runErr := fn(ctx)
	if advErr := w.advance(ctx); advErr != nil && runErr == nil {
		return advErr
	}
	return runErr
}

func (w *WriteLock) await(ctx context.Context) (Token, error) {
	token, err := w.queue.PopFront(ctx)
	if err != nil {
		return Token{}, err
	}
	if token.Name != w.Name {
		return Token{}, errdefs.Newf(ErrWrongLock, "%s: got token for %q", w.Name, token.Name)
	}
	return token, nil
}

func (w *WriteLock) advance(ctx context.Context) error {
	return w.queue.PushBack(ctx, Token{
		Name:      w.Name,
		Holder:    w.ID,
		Position:  w.position + 1,
		Timestamp: time.Now().UTC(),
	})
}
