package lock

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
)

// MemoryQueue is an in-process Queue backed by a deque.Deque, standing
// in for the external list (typically Redis) a multi-process
// deployment would use. It is what a single-process deployment (and
// this package's tests) coordinate a WriteLock through.
type MemoryQueue struct {
	mu     sync.Mutex
	notify chan struct{}
	dq     deque.Deque[Token]
}

// NewMemoryQueue returns an empty MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{notify: make(chan struct{})}
}

// PushBack implements Queue.
func (q *MemoryQueue) PushBack(ctx context.Context, token Token) error {
	q.mu.Lock()
	q.dq.PushBack(token)
	notify := q.notify
	q.notify = make(chan struct{})
	q.mu.Unlock()
	close(notify)
	return nil
}

// PopFront implements Queue, blocking until a token is available or ctx
// is done.
func (q *MemoryQueue) PopFront(ctx context.Context) (Token, error) {
	for {
		q.mu.Lock()
		if q.dq.Len() > 0 {
			v := q.dq.PopFront()
			q.mu.Unlock()
			return v, nil
		}
		wait := q.notify
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return Token{}, ctx.Err()
		}
	}
}

var _ Queue = (*MemoryQueue)(nil)
