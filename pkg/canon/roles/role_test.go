package roles_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/events"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/register"
	"github.com/arxiv/canonical/pkg/canon/roles"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
)

type pendingSource struct {
	content map[string][]byte
}

func newPendingSource() *pendingSource { return &pendingSource{content: map[string][]byte{}} }

func (p *pendingSource) put(key string, raw []byte) uri.URI {
	p.content[key] = raw
	return uri.MustParse("arxiv:///pending/" + key)
}

func (p *pendingSource) CanResolve(u uri.URI) bool {
	_, ok := p.content[u.Path()[len("/pending/"):]]
	return ok
}

func (p *pendingSource) Load(_ context.Context, u uri.URI) (*store.Stream, error) {
	raw, ok := p.content[u.Path()[len("/pending/"):]]
	if !ok {
		return nil, errdefs.ErrNotFound
	}
	return store.BytesStream(raw), nil
}

func newVersionEvent(t *testing.T, pending *pendingSource, vidStr string, announced time.Time, title string) domain.Event {
	t.Helper()
	vid, err := identifier.ParseVersioned(vidStr)
	require.NoError(t, err)
	v := domain.Version{
		Identifier:         vid,
		AnnouncedDate:      announced,
		AnnouncedDateFirst: announced,
		SubmittedDate:      announced,
		IsAnnounced:        true,
		Source: domain.CanonicalFile{
			Filename: vid.String() + ".tar.gz",
			Ref:      pending.put(vid.String()+".tar.gz", []byte("source bytes for "+vid.String())),
		},
		Metadata: domain.Metadata{PrimaryClassification: "cs.DL", Title: title},
	}
	return domain.NewEvent(vid, announced, domain.EventTypeNew, v)
}

func TestPrimaryAddEventsEmitsToStream(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	reg, err := register.Load(ctx, store.NewMemory(), []store.Source{pending})
	require.NoError(t, err)

	bus := events.NewBus()
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := bus.Subscribe(subCtx)
	require.NoError(t, err)

	primary := roles.NewPrimary(reg, bus)
	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", announced, "A Paper")
	require.NoError(t, primary.AddEvents(ctx, ev))

	select {
	case msg := <-ch:
		assert.Equal(t, ev.Identifier, msg.Event.Identifier)
	case <-time.After(time.Second):
		t.Fatal("expected the event to be emitted onto the stream")
	}

	got, err := primary.Register.LoadVersion(ctx, ev.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "A Paper", got.Metadata.Title)
}

func TestReplicantAppliesReceivedEvents(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	primaryReg, err := register.Load(ctx, store.NewMemory(), []store.Source{pending})
	require.NoError(t, err)
	replicaReg, err := register.Load(ctx, store.NewMemory(), []store.Source{pending})
	require.NoError(t, err)

	bus := events.NewBus()
	primary := roles.NewPrimary(primaryReg, bus)

	listenCtx, cancel := context.WithCancel(ctx)
	replicant := roles.NewReplicant(replicaReg, bus)
	done := make(chan error, 1)
	go func() { done <- replicant.Listen(listenCtx) }()
	time.Sleep(20 * time.Millisecond) // let Listen's Subscribe register before the first publish

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", announced, "A Paper")
	require.NoError(t, primary.AddEvents(ctx, ev))

	require.Eventually(t, func() bool {
		_, err := replicant.Register.LoadVersion(ctx, ev.Identifier)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestRepositoryRejectsWrites(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	reg, err := register.Load(ctx, store.NewMemory(), []store.Source{pending})
	require.NoError(t, err)

	repo := roles.NewRepository(reg)
	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", announced, "A Paper")

	// Repository.Register is typed as RegisterReader, so AddEvents is
	// not even visible to callers at compile time. The underlying proxy
	// still guards the write path at runtime for the rare caller (like
	// this test) that recovers the wider interface.
	writer, ok := repo.Register.(roles.RegisterWriter)
	require.True(t, ok, "registerProxy implements RegisterWriter even when read-only")
	assert.ErrorIs(t, writer.AddEvents(ctx, ev), errdefs.ErrUnsupported)
}

func TestObserverSubscribes(t *testing.T) {
	bus := events.NewBus()
	observer := roles.NewObserver(bus)
	// Observer.Stream is typed as StreamListener: there is no Emit
	// method to call here even at compile time.
	_, err := observer.Stream.Subscribe(context.Background())
	assert.NoError(t, err)
}
