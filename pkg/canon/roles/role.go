// Package roles composes a Register with an event stream into the four
// capability-restricted participants the canonical record is shared
// between: Primary, Replicant, Repository, Observer. Each
// role exposes only the operations its capability allows; Go has no
// attribute-access trap to raise on a disallowed call, so the
// restriction is enforced the idiomatic way instead, at compile time,
// by typing each role's fields as the narrowest interface that
// capability needs rather than as the concrete Register or stream.
package roles

import (
	"context"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/events"
	"github.com/arxiv/canonical/pkg/canon/register"
)

// Primary is the sole authoritative writer: it reads, writes, and
// emits every event it accepts onto the stream.
type Primary struct {
	Register RegisterWriter
	Stream   StreamEmitter
}

// NewPrimary composes reg and pub into a Primary role.
func NewPrimary(reg *register.Register, pub events.Publisher) *Primary {
	return &Primary{
		Register: &registerProxy{Register: reg, writable: true},
		Stream:   &streamProxy{pub: pub},
	}
}

// AddEvents applies events to the register and, on success, emits each
// one onto the stream in the same order. If emitting event i fails,
// events before it remain committed and emitted; AddEvents returns the
// emit error without retrying.
func (p *Primary) AddEvents(ctx context.Context, evs ...domain.Event) error {
	for _, ev := range evs {
		if err := p.Register.AddEvents(ctx, ev); err != nil {
			return err
		}
		if err := p.Stream.Emit(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Replicant reads and writes a local copy of the register, and keeps it
// current by applying every event it receives from the stream.
type Replicant struct {
	Register RegisterWriter
	Stream   StreamListener
}

// NewReplicant composes reg and sub into a Replicant role.
func NewReplicant(reg *register.Register, sub events.Subscriber) *Replicant {
	return &Replicant{
		Register: &registerProxy{Register: reg, writable: true},
		Stream:   &streamProxy{sub: sub},
	}
}

// Listen subscribes to the stream and applies every received event to
// the local register until ctx is done or the stream closes. It
// returns the first AddEvents error, leaving events already applied
// committed.
func (r *Replicant) Listen(ctx context.Context) error {
	ch, err := r.Stream.Subscribe(ctx)
	if err != nil {
		return err
	}
	for msg := range ch {
		if err := r.Register.AddEvents(ctx, msg.Event); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Repository is read-only and not connected to the stream: a mirror
// that serves reads without participating in replication.
type Repository struct {
	Register RegisterReader
}

// NewRepository composes reg into a read-only Repository role.
func NewRepository(reg *register.Register) *Repository {
	return &Repository{Register: &registerProxy{Register: reg, writable: false}}
}

// Observer listens to the stream but has no register of its own: it
// exists purely to react to announcements (metrics, notifications).
type Observer struct {
	Stream StreamListener
}

// NewObserver composes sub into an Observer role.
func NewObserver(sub events.Subscriber) *Observer {
	return &Observer{Stream: &streamProxy{sub: sub}}
}
