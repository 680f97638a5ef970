// Package lock implements an optional named write lock for
// cross-process write coordination: a FIFO, positional token exchange.
// The core register itself never needs this; a single process with
// one Register is already safe for one writer at a time.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Token is the baton passed hand-to-hand through a named Queue.
// Whichever holder's Acquire produced the token matching the next
// Position may enter its critical section.
type Token struct {
	Name      string
	Holder    uuid.UUID
	Position  int
	Timestamp time.Time
}

// Queue is the FIFO a Token travels through. PushBack enqueues a token
// at the tail; PopFront blocks, subject to ctx, until a token reaches
// the head.
type Queue interface {
	PushBack(ctx context.Context, token Token) error
	PopFront(ctx context.Context) (Token, error)
}
