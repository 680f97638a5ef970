package register

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xcontext"
	"github.com/arxiv/canonical/pkg/util/xgeneric/iter"
)

// Register is the canonical record: the e-prints tree and the listings
// (announcement) tree, plus the global manifest that rolls both up
// together.
type Register struct {
	storage  store.Storage
	sources  []store.Source
	eprints  *eprintsAllNode
	listings *listingsAllNode
}

// Load opens the register rooted at storage. sources is consulted, in
// order, to dereference content supplied by new/replace/update events;
// storage is not one of them. Content the register has already stored
// (e.g. a version's source on read) is read back from storage directly.
func Load(ctx context.Context, storage store.Storage, sources []store.Source) (*Register, error) {
	eprints, err := loadEPrintsAll(ctx, storage)
	if err != nil {
		return nil, err
	}
	listings, err := loadListingsAll(ctx, storage)
	if err != nil {
		return nil, err
	}
	return &Register{
		storage:  storage,
		sources:  sources,
		eprints:  eprints,
		listings: listings,
	}, nil
}

// AddEvents applies events, in order, to both the e-prints tree (which
// creates or amends the version each event names) and the listings tree
// (which always records the event on its announcement day), then
// persists the rolled-up global manifest. An event that violates the
// version-sequence rules (ErrConsistency) aborts the batch immediately;
// events already applied earlier in the batch remain committed.
func (r *Register) AddEvents(ctx context.Context, events ...domain.Event) error {
	for _, ev := range events {
		if _, err := r.eprints.addEvents(ctx, r.storage, r.sources, []domain.Event{ev}); err != nil {
			return err
		}
		if _, err := r.listings.addEvents(ctx, r.storage, []domain.Event{ev}); err != nil {
			return err
		}
	}

	global := integrity.NewManifest()
	global.Upsert(genericEntry(record.EPrintsManifestKey(), r.eprints.checksum, r.eprints.manifest))
	global.Upsert(genericEntry(record.AnnouncementManifestKey(), r.listings.checksum, r.listings.manifest))
	_, err := saveManifest(ctx, r.storage, record.GlobalManifestKey(), &global)
	return err
}

// LoadVersion loads a single announced version by its versioned
// identifier.
func (r *Register) LoadVersion(ctx context.Context, vid identifier.VersionedIdentifier) (domain.Version, error) {
	en, err := loadEPrintDirect(ctx, r.storage, vid.Identifier)
	if err != nil {
		return domain.Version{}, err
	}
	vn, ok, err := en.children.Get(ctx, strconv.Itoa(vid.Version()))
	if err != nil {
		return domain.Version{}, err
	}
	if !ok {
		return domain.Version{}, errdefs.Newf(errdefs.ErrNotFound, "%s: version not found", vid)
	}
	return vn.version, nil
}

// LoadEPrint loads every version of an e-print, oldest first. Versions
// are independent blobs, so they are materialized concurrently; the
// returned slice keeps version order.
func (r *Register) LoadEPrint(ctx context.Context, id identifier.Identifier) (domain.EPrint, error) {
	en, err := loadEPrintDirect(ctx, r.storage, id)
	if err != nil {
		return domain.EPrint{}, err
	}
	keys := en.versionKeys()
	loaded := make([]*versionNode, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			vn, ok, err := en.children.Get(gctx, key)
			if err != nil {
				return err
			}
			if ok {
				loaded[i] = vn
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.EPrint{}, err
	}
	versions := make([]domain.Version, 0, len(loaded))
	for _, vn := range loaded {
		if vn != nil {
			versions = append(versions, vn.version)
		}
	}
	return domain.EPrint{Identifier: id, Versions: versions}, nil
}

// LoadHistory lazily yields every event that ever touched an e-print:
// versions oldest first, each version's events in arrival order. A
// version is loaded only when the caller's range over the sequence
// reaches it.
func (r *Register) LoadHistory(ctx context.Context, id identifier.Identifier) iter.Seq[domain.EventSummary] {
	return func(yield func(domain.EventSummary, error) bool) {
		en, err := loadEPrintDirect(ctx, r.storage, id)
		if err != nil {
			yield(domain.EventSummary{}, err)
			return
		}
		for _, key := range en.versionKeys() {
			vn, ok, err := en.children.Get(ctx, key)
			if err != nil {
				if !yield(domain.EventSummary{}, err) {
					return
				}
				continue
			}
			if !ok {
				continue
			}
			for _, ev := range vn.version.Events {
				if !yield(ev, nil) {
					return
				}
			}
		}
	}
}

// LoadVersionHistory is LoadHistory restricted to a single version: only
// the events that created or amended vid, in arrival order.
func (r *Register) LoadVersionHistory(ctx context.Context, vid identifier.VersionedIdentifier) iter.Seq[domain.EventSummary] {
	return func(yield func(domain.EventSummary, error) bool) {
		v, err := r.LoadVersion(ctx, vid)
		if err != nil {
			yield(domain.EventSummary{}, err)
			return
		}
		for _, ev := range v.Events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// LoadSource returns the canonical descriptor and byte stream for a
// version's source package.
func (r *Register) LoadSource(ctx context.Context, vid identifier.VersionedIdentifier) (domain.CanonicalFile, *store.Stream, error) {
	v, err := r.LoadVersion(ctx, vid)
	if err != nil {
		return domain.CanonicalFile{}, nil, err
	}
	stream, err := r.storage.Load(ctx, v.Source.Ref)
	if err != nil {
		return domain.CanonicalFile{}, nil, err
	}
	return v.Source, stream, nil
}

// LoadRender returns the canonical descriptor and byte stream for a
// version's rendered PDF, if it has one.
func (r *Register) LoadRender(ctx context.Context, vid identifier.VersionedIdentifier) (domain.CanonicalFile, *store.Stream, error) {
	v, err := r.LoadVersion(ctx, vid)
	if err != nil {
		return domain.CanonicalFile{}, nil, err
	}
	if v.Render == nil {
		return domain.CanonicalFile{}, nil, errdefs.Newf(errdefs.ErrNotFound, "%s: no render available", vid)
	}
	stream, err := r.storage.Load(ctx, v.Render.Ref)
	if err != nil {
		return domain.CanonicalFile{}, nil, err
	}
	return *v.Render, stream, nil
}

// LoadListing returns the full listing for one day-and-shard.
func (r *Register) LoadListing(ctx context.Context, date time.Time, shard string) (domain.Listing, error) {
	lid := identifier.NewListingIdentifier(date, shard)
	ls, err := loadListingShard(ctx, r.storage, lid)
	if err != nil {
		return domain.Listing{}, err
	}
	return ls.listing, nil
}

// LoadEvent finds a single event by its reversible identifier, returning
// the full Event (with its embedded Version) rather than a summary —
// structurally equal to the event that was applied. A listing shard
// stores full events for exactly this reason (domain.Listing.Events).
func (r *Register) LoadEvent(ctx context.Context, eventID identifier.EventIdentifier) (domain.Event, error) {
	vid, eventDate, shard, err := eventID.Parts()
	if err != nil {
		return domain.Event{}, err
	}
	lid := identifier.NewListingIdentifier(eventDate, shard)
	ls, err := loadListingShard(ctx, r.storage, lid)
	if err != nil {
		return domain.Event{}, err
	}
	for _, e := range ls.listing.Events {
		if e.EventID() == eventID {
			return e, nil
		}
	}
	return domain.Event{}, errdefs.Newf(errdefs.ErrNotFound, "event %s (version %s) not found", eventID, vid)
}

// LoadEventsByDay lazily walks every event recorded on a single day
// across all of its listing shards, in the order they were applied
// within each shard. The second return is a best-effort event count
// read from the day's manifest without materializing any listing.
func (r *Register) LoadEventsByDay(ctx context.Context, date time.Time) (iter.Seq[domain.EventSummary], int) {
	seq := func(yield func(domain.EventSummary, error) bool) {
		day, err := loadListingDay(ctx, r.storage, date)
		if err != nil {
			yield(domain.EventSummary{}, err)
			return
		}
		for _, shardKey := range day.children.Keys() {
			shard, ok, err := day.children.Get(ctx, shardKey)
			if err != nil {
				if !yield(domain.EventSummary{}, err) {
					return
				}
				continue
			}
			if !ok {
				continue
			}
			for _, e := range shard.listing.Events {
				if !yield(e.Summary(), nil) {
					return
				}
			}
		}
	}
	return seq, r.estimatedEvents(ctx, record.ListingDayManifestKey(date))
}

// estimatedEvents reads the rolled-up event counter off the manifest at
// key; zero when the manifest does not exist or cannot be read.
func (r *Register) estimatedEvents(ctx context.Context, key record.Key) int {
	man, err := loadManifestOrEmpty(ctx, r.storage, key)
	if err != nil {
		return 0
	}
	return man.NumberOfEvents
}

// LoadEventsByMonth lazily walks every event recorded across every day of
// a month, oldest day first, with a best-effort count from the month
// manifest.
func (r *Register) LoadEventsByMonth(ctx context.Context, year, month int) (iter.Seq[domain.EventSummary], int) {
	seq := func(yield func(domain.EventSummary, error) bool) {
		mo, err := loadListingMonth(ctx, r.storage, year, month)
		if err != nil {
			yield(domain.EventSummary{}, err)
			return
		}
		for _, key := range mo.children.Keys() {
			if err := xcontext.NonBlockingCheck(ctx, "listing walk"); err != nil {
				yield(domain.EventSummary{}, err)
				return
			}
			day, ok, err := mo.children.Get(ctx, key)
			if err != nil {
				if !yield(domain.EventSummary{}, err) {
					return
				}
				continue
			}
			if !ok {
				continue
			}
			for _, shardKey := range day.children.Keys() {
				shard, ok, err := day.children.Get(ctx, shardKey)
				if err != nil {
					if !yield(domain.EventSummary{}, err) {
						return
					}
					continue
				}
				if !ok {
					continue
				}
				for _, e := range shard.listing.Events {
					if !yield(e.Summary(), nil) {
						return
					}
				}
			}
		}
	}
	return seq, r.estimatedEvents(ctx, record.ListingMonthManifestKey(year, month))
}

// LoadEventsByYear lazily walks every event recorded across every month
// of a year, oldest month first, with a best-effort count from the year
// manifest.
func (r *Register) LoadEventsByYear(ctx context.Context, year int) (iter.Seq[domain.EventSummary], int) {
	seq := func(yield func(domain.EventSummary, error) bool) {
		for month := 1; month <= 12; month++ {
			cont := true
			months, _ := r.LoadEventsByMonth(ctx, year, month)
			months(func(e domain.EventSummary, err error) bool {
				cont = yield(e, err)
				return cont
			})
			if !cont {
				return
			}
		}
	}
	return seq, r.estimatedEvents(ctx, record.ListingYearManifestKey(year))
}
