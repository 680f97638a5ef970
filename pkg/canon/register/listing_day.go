package register

import (
	"context"
	"time"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// listingDayNode is the "announcement/YYYY/MM/YYYY-MM-DD" manifest: every
// shard that received an event on this day. Like eprintNode, it is
// bespoke rather than generic, because its children (listingShardNode)
// have no manifest of their own to roll counters up from.
type listingDayNode struct {
	date     time.Time
	manifest integrity.Manifest
	children *lazyChildren[*listingShardNode]
	checksum integrity.Checksum
}

func loadListingDay(ctx context.Context, storage store.Storage, date time.Time) (*listingDayNode, error) {
	key := record.ListingDayManifestKey(date)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*listingShardNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		lid := member.ListingID
		children.Declare(lid.String(), func(ctx context.Context) (*listingShardNode, error) {
			return loadListingShard(ctx, storage, lid)
		})
	}
	return &listingDayNode{date: date, manifest: manifest, children: children}, nil
}

func (d *listingDayNode) addEvents(ctx context.Context, storage store.Storage, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) identifier.ListingIdentifier {
		return identifier.NewListingIdentifier(e.EventDate, e.Shard)
	})
	for _, lid := range order {
		key := lid.String()
		child, ok, err := d.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &listingShardNode{id: lid, listing: domain.Listing{Date: lid.Date}}
			d.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, groups[lid])
		if err != nil {
			return "", err
		}
		summaries := make([]domain.EventSummary, len(child.listing.Events))
		for i, e := range child.listing.Events {
			summaries[i] = e.Summary()
		}
		d.manifest.Upsert(integrity.ManifestEntry{
			Key:                  record.ListingKey(lid).String(),
			Checksum:             checksum,
			NumberOfEvents:       len(child.listing.Events),
			NumberOfEventsByType: tallyByType(summaries),
		})
	}
	checksum, err := saveManifest(ctx, storage, record.ListingDayManifestKey(d.date), &d.manifest)
	if err != nil {
		return "", err
	}
	d.checksum = checksum
	return checksum, nil
}
