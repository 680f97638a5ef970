package register

import (
	"context"
	"time"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// listingMonthNode is the "announcement/YYYY/YYYY-MM" manifest: every day
// within the month that saw at least one announcement event.
type listingMonthNode struct {
	year, month int
	manifest    integrity.Manifest
	children    *lazyChildren[*listingDayNode]
	checksum    integrity.Checksum
}

func loadListingMonth(ctx context.Context, storage store.Storage, year, month int) (*listingMonthNode, error) {
	key := record.ListingMonthManifestKey(year, month)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*listingDayNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		date := time.Date(member.Year, time.Month(member.Month), member.Day, 0, 0, 0, 0, time.UTC)
		children.Declare(dayKey(date), func(ctx context.Context) (*listingDayNode, error) {
			return loadListingDay(ctx, storage, date)
		})
	}
	return &listingMonthNode{year: year, month: month, manifest: manifest, children: children}, nil
}

func (mo *listingMonthNode) addEvents(ctx context.Context, storage store.Storage, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) time.Time {
		y, m, d := e.EventDate.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	})
	for _, date := range order {
		key := dayKey(date)
		child, ok, err := mo.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &listingDayNode{date: date, manifest: integrity.NewManifest(), children: newLazyChildren[*listingShardNode]()}
			mo.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, groups[date])
		if err != nil {
			return "", err
		}
		mo.manifest.Upsert(genericEntry(record.ListingDayManifestKey(date), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.ListingMonthManifestKey(mo.year, mo.month), &mo.manifest)
	if err != nil {
		return "", err
	}
	mo.checksum = checksum
	return checksum, nil
}
