package events

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
)

// subscriberBufferSize bounds how far a subscriber may lag the
// publisher before Publish starts blocking on it.
const subscriberBufferSize = 64

// Bus is an in-memory PubSub: every Publish fans the message out to
// every channel returned by a live Subscribe call. It is what the
// Replicant/Observer roles compose against in tests and single-process
// deployments; a durable transport (Kinesis, Kafka, SQS) would satisfy
// the same PubSub contract.
type Bus struct {
	sequencers *xsync.MapOf[string, *Sequencer]

	mu          sync.Mutex
	subscribers map[int]chan Message
	nextSubID   int
	closed      bool
}

// NewBus returns a ready, empty Bus.
func NewBus() *Bus {
	return &Bus{
		sequencers:  xsync.NewMapOf[string, *Sequencer](),
		subscribers: make(map[int]chan Message),
	}
}

// Publish implements Publisher.
func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	shard := event.Shard
	if shard == "" {
		shard = identifier.DefaultShard
	}
	seq, _ := b.sequencers.LoadOrCompute(shard, func() *Sequencer { return NewSequencer() })
	msg := Message{Shard: shard, Sequence: seq.Next(), Event: event}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	chans := make([]chan Message, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		chans = append(chans, ch)
	}
	b.mu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe implements Subscriber. The returned channel is closed when
// ctx is done; closing the Bus does not close it.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Message, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	id := b.nextSubID
	b.nextSubID++
	ch := make(chan Message, subscriberBufferSize)
	b.subscribers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

// Close stops accepting new publishes and subscriptions. Channels
// already handed out by Subscribe are left for their owning context to
// close.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
	_ PubSub     = (*Bus)(nil)
)
