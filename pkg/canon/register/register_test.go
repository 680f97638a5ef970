package register_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/register"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xgeneric/iter"
)

// pendingSource resolves a fixed set of arxiv:// URIs to in-memory
// content, standing in for a submission agent's staging area ahead of
// the register rewriting refs to their canonical keys.
type pendingSource struct {
	content map[string][]byte
}

func newPendingSource() *pendingSource {
	return &pendingSource{content: map[string][]byte{}}
}

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

func mustVID(t *testing.T, s string) identifier.VersionedIdentifier {
	t.Helper()
	vid, err := identifier.ParseVersioned(s)
	require.NoError(t, err)
	return vid
}

func newVersionEvent(t *testing.T, pending *pendingSource, vidStr string, eventType domain.EventType, announced time.Time, title string) domain.Event {
	t.Helper()
	vid := mustVID(t, vidStr)
	source := domain.CanonicalFile{
		Filename: vid.String() + ".tar.gz",
		Ref:      pending.put(vid.String()+".tar.gz", []byte("source bytes for "+vid.String())),
	}
	v := domain.Version{
		Identifier:         vid,
		AnnouncedDate:      announced,
		AnnouncedDateFirst: announced,
		SubmittedDate:      announced,
		IsAnnounced:        true,
		Source:             source,
		Metadata: domain.Metadata{
			PrimaryClassification: "cs.DL",
			Title:                 title,
		},
	}
	return domain.NewEvent(vid, announced, eventType, v)
}

func TestAddEventsNewVersionRoundTrips(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")

	require.NoError(t, reg.AddEvents(ctx, ev))

	got, err := reg.LoadVersion(ctx, ev.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "A Paper", got.Metadata.Title)
	assert.Equal(t, "arxiv", got.Source.Ref.Scheme())
	assert.Len(t, got.Events, 1)
	assert.Equal(t, domain.EventTypeNew, got.Events[0].EventType)

	listing, err := reg.LoadListing(ctx, announced, identifier.DefaultShard)
	require.NoError(t, err)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, ev.Identifier, listing.Events[0].Identifier)
}

// TestLoadEventReturnsFullEvent: LoadEvent must return an event
// structurally equal to the one that was applied, including its
// embedded Version, not a bare summary.
func TestLoadEventReturnsFullEvent(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")
	require.NoError(t, reg.AddEvents(ctx, ev))

	got, err := reg.LoadEvent(ctx, ev.EventID())
	require.NoError(t, err)
	assert.Equal(t, ev, got)
	assert.Equal(t, "A Paper", got.Version.Metadata.Title)
}

func TestAddEventsReplaceCreatesSecondVersion(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	day1 := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2029, 1, 16, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, day1, "A Paper")))

	afterV1, err := storage.LoadManifest(ctx, record.GlobalManifestKey())
	require.NoError(t, err)
	checksumAfterV1, err := afterV1.Checksum()
	require.NoError(t, err)

	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v2", domain.EventTypeReplaced, day2, "A Paper, Revised")))

	afterV2, err := storage.LoadManifest(ctx, record.GlobalManifestKey())
	require.NoError(t, err)
	checksumAfterV2, err := afterV2.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, checksumAfterV1, checksumAfterV2)

	ep, err := reg.LoadEPrint(ctx, mustVID(t, "2901.00345v1").Identifier)
	require.NoError(t, err)
	require.Equal(t, 2, ep.NumberOfVersions())
	assert.Equal(t, "A Paper", ep.Versions[0].Metadata.Title)
	assert.Equal(t, "A Paper, Revised", ep.Versions[1].Metadata.Title)

	history, err := iter.All(reg.LoadHistory(ctx, ep.Identifier))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.EventTypeNew, history[0].EventType)
	assert.Equal(t, mustVID(t, "2901.00345v1"), history[0].Identifier)
	assert.Equal(t, domain.EventTypeReplaced, history[1].EventType)
	assert.Equal(t, mustVID(t, "2901.00345v2"), history[1].Identifier)

	v2Only, err := iter.All(reg.LoadVersionHistory(ctx, mustVID(t, "2901.00345v2")))
	require.NoError(t, err)
	require.Len(t, v2Only, 1)
	assert.Equal(t, domain.EventTypeReplaced, v2Only[0].EventType)
}

func TestAddEventsCrosslistAmendsInPlace(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	vid := mustVID(t, "2901.00345v1")
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")))

	cross := domain.NewEvent(vid, announced.Add(time.Hour), domain.EventTypeCrosslist, domain.Version{Identifier: vid})
	cross.Categories = []domain.Category{"math.CO"}
	require.NoError(t, reg.AddEvents(ctx, cross))

	got, err := reg.LoadVersion(ctx, vid)
	require.NoError(t, err)
	assert.Contains(t, got.Metadata.SecondaryClassification, domain.Category("math.CO"))
	assert.Equal(t, "cs.DL", string(got.Metadata.PrimaryClassification))
	assert.Len(t, got.Events, 2)
}

func TestAddEventsDuplicateNewIsConsistencyError(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	ev := newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")
	require.NoError(t, reg.AddEvents(ctx, ev))

	err = reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper Again"))
	assert.ErrorIs(t, err, errdefs.ErrConsistency)
}

func TestAddEventsUpdateOnMissingVersionIsConsistencyError(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	vid := mustVID(t, "2901.00345v1")
	ev := domain.NewEvent(vid, time.Now(), domain.EventTypeUpdatedMetadata, domain.Version{Identifier: vid})
	err = reg.AddEvents(ctx, ev)
	assert.ErrorIs(t, err, errdefs.ErrConsistency)
}

func TestLoadSourceDereferencesStoredBitstream(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	vid := mustVID(t, "2901.00345v1")
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")))

	file, stream, err := reg.LoadSource(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, vid.String()+".tar.gz", file.Filename)
	r, err := stream.Reader(ctx)
	require.NoError(t, err)
	raw := make([]byte, 64)
	n, _ := r.Read(raw)
	assert.Contains(t, string(raw[:n]), "source bytes for")
}

func TestAddEventsWithdrawCreatesTerminalVersion(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	day1 := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2029, 1, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, day1, "A Paper")))
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v2", domain.EventTypeWithdrawn, day2, "Withdrawn")))

	ep, err := reg.LoadEPrint(ctx, mustVID(t, "2901.00345v1").Identifier)
	require.NoError(t, err)
	require.Equal(t, 2, ep.NumberOfVersions())
	assert.Equal(t, "Withdrawn", ep.Versions[1].Metadata.Title)
	assert.True(t, ep.Versions[1].IsWithdrawn)
	assert.False(t, ep.Versions[0].IsWithdrawn)
	assert.True(t, ep.IsWithdrawn())

	listing, err := reg.LoadListing(ctx, day2, identifier.DefaultShard)
	require.NoError(t, err)
	require.Len(t, listing.Events, 1)
	assert.Equal(t, domain.EventTypeWithdrawn, listing.Events[0].EventType)
}

func TestEPrintManifestValidatesAgainstStoredChecksum(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")))

	id := mustVID(t, "2901.00345v1").Identifier
	manifest, err := storage.LoadManifest(ctx, record.EPrintManifestKey(id))
	require.NoError(t, err)

	want, err := manifest.Checksum()
	require.NoError(t, err)
	assert.NoError(t, manifest.Validate(want))
}

func TestGlobalManifestRollsUpAcrossBothBranches(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")))

	global, err := storage.LoadManifest(ctx, record.GlobalManifestKey())
	require.NoError(t, err)
	assert.Equal(t, 1, global.NumberOfVersions)
	// the e-prints branch and the listings branch each count the event once
	assert.Equal(t, 2, global.NumberOfEvents)
}

// TestAddEventsUpdatePartialOmitsUntouchedMembers: an update event that
// supplies only a new render,
// leaving source empty-content, must carry the existing source forward
// unchanged rather than attempt to (re)materialize a zero ref.
func TestAddEventsUpdatePartialOmitsUntouchedMembers(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	vid := mustVID(t, "2901.00345v1")
	require.NoError(t, reg.AddEvents(ctx, newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, announced, "A Paper")))

	before, err := reg.LoadVersion(ctx, vid)
	require.NoError(t, err)
	require.False(t, before.Source.Ref.IsZero())
	require.Nil(t, before.Render)

	renderRef := pending.put(vid.String()+".render.pdf", []byte("rendered bytes"))
	update := domain.NewEvent(vid, announced.Add(time.Hour), domain.EventTypeUpdated, domain.Version{
		Identifier: vid,
		Metadata:   before.Metadata,
		Render: &domain.CanonicalFile{
			Filename: vid.String() + ".pdf",
			Ref:      renderRef,
		},
	})
	require.NoError(t, reg.AddEvents(ctx, update))

	after, err := reg.LoadVersion(ctx, vid)
	require.NoError(t, err)
	assert.Equal(t, before.Source, after.Source)
	assert.Equal(t, before.Metadata.Title, after.Metadata.Title)
	require.NotNil(t, after.Render)
	assert.Equal(t, "arxiv", after.Render.Ref.Scheme())
	assert.Len(t, after.Events, 2)
}

func TestLoadEventsByYearWalksListingsWithEstimatedCount(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	january := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	march := time.Date(2029, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.AddEvents(ctx,
		newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, january, "First"),
		newVersionEvent(t, pending, "2903.00001v1", domain.EventTypeNew, march, "Second"),
	))

	seq, estimated := reg.LoadEventsByYear(ctx, 2029)
	assert.Equal(t, 2, estimated)
	got, err := iter.All(seq)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, mustVID(t, "2901.00345v1"), got[0].Identifier)
	assert.Equal(t, mustVID(t, "2903.00001v1"), got[1].Identifier)

	daySeq, dayEstimated := reg.LoadEventsByDay(ctx, march)
	assert.Equal(t, 1, dayEstimated)
	dayGot, err := iter.All(daySeq)
	require.NoError(t, err)
	require.Len(t, dayGot, 1)
	assert.Equal(t, domain.EventTypeNew, dayGot[0].EventType)

	_, emptyEstimated := reg.LoadEventsByMonth(ctx, 2029, 2)
	assert.Zero(t, emptyEstimated)
}

// TestAddEventsGunzipsSourceAtStoreTime: a source package whose
// descriptor says gzipped is unwrapped exactly once on its way into
// storage, and the stored descriptor reflects the decompressed bytes.
func TestAddEventsGunzipsSourceAtStoreTime(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	payload := []byte("tar bytes that were wrapped in an outer gzip layer")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	vid := mustVID(t, "2901.00345v1")
	announced := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	v := domain.Version{
		Identifier:         vid,
		AnnouncedDate:      announced,
		AnnouncedDateFirst: announced,
		SubmittedDate:      announced,
		IsAnnounced:        true,
		Source: domain.CanonicalFile{
			Filename:  vid.String() + ".tar.gz",
			Ref:       pending.put(vid.String()+".tar.gz", buf.Bytes()),
			IsGzipped: true,
			SizeBytes: int64(buf.Len()),
		},
		Metadata: domain.Metadata{PrimaryClassification: "cs.DL", Title: "Gzipped"},
	}
	require.NoError(t, reg.AddEvents(ctx, domain.NewEvent(vid, announced, domain.EventTypeNew, v)))

	got, err := reg.LoadVersion(ctx, vid)
	require.NoError(t, err)
	assert.False(t, got.Source.IsGzipped)
	assert.Equal(t, int64(len(payload)), got.Source.SizeBytes)

	_, stream, err := reg.LoadSource(ctx, vid)
	require.NoError(t, err)
	r, err := stream.Reader(ctx)
	require.NoError(t, err)
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, raw)
}

// TestLoadEventsByDayWalksEveryShard: a day that carries listings on
// more than one shard yields the union of their events, not just the
// default shard's.
func TestLoadEventsByDayWalksEveryShard(t *testing.T) {
	ctx := context.Background()
	pending := newPendingSource()
	storage := store.NewMemory()
	reg, err := register.Load(ctx, storage, []store.Source{pending})
	require.NoError(t, err)

	day := time.Date(2029, 1, 15, 0, 0, 0, 0, time.UTC)
	defaultEv := newVersionEvent(t, pending, "2901.00345v1", domain.EventTypeNew, day, "Default Shard")
	shardedEv := newVersionEvent(t, pending, "2901.00777v1", domain.EventTypeNew, day, "Sharded")
	shardedEv.Shard = "cs"
	require.NoError(t, reg.AddEvents(ctx, defaultEv, shardedEv))

	seq, estimated := reg.LoadEventsByDay(ctx, day)
	got, err := iter.All(seq)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, estimated)

	ids := []identifier.VersionedIdentifier{got[0].Identifier, got[1].Identifier}
	assert.Contains(t, ids, defaultEv.Identifier)
	assert.Contains(t, ids, shardedEv.Identifier)

	sharded, err := reg.LoadListing(ctx, day, "cs")
	require.NoError(t, err)
	require.Len(t, sharded.Events, 1)
	assert.Equal(t, shardedEv.Identifier, sharded.Events[0].Identifier)
}
