package roles

import (
	"context"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/events"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// StreamEmitter is the write half of the event stream: Primary's only
// stream capability.
type StreamEmitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// StreamListener is the read half of the event stream: Observer's only
// stream capability, and half of Replicant's.
type StreamListener interface {
	Subscribe(ctx context.Context) (<-chan events.Message, error)
}

// streamProxy wraps whichever half (or both) of a PubSub a role was
// built with; the unused half is left nil and its method rejects any
// call instead of panicking on a nil-pointer dereference.
type streamProxy struct {
	pub events.Publisher
	sub events.Subscriber
}

func (s *streamProxy) Emit(ctx context.Context, event domain.Event) error {
	if s.pub == nil {
		return errdefs.Newf(errdefs.ErrUnsupported, "stream proxy: emit is not permitted by this role")
	}
	return s.pub.Publish(ctx, event)
}

func (s *streamProxy) Subscribe(ctx context.Context) (<-chan events.Message, error) {
	if s.sub == nil {
		return nil, errdefs.Newf(errdefs.ErrUnsupported, "stream proxy: listen is not permitted by this role")
	}
	return s.sub.Subscribe(ctx)
}

var (
	_ StreamEmitter  = (*streamProxy)(nil)
	_ StreamListener = (*streamProxy)(nil)
)
