package register

import (
	"context"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// listingYearNode is the "announcement/YYYY" manifest: every month of the
// year that saw at least one announcement event.
type listingYearNode struct {
	year     int
	manifest integrity.Manifest
	children *lazyChildren[*listingMonthNode]
	checksum integrity.Checksum
}

func loadListingYear(ctx context.Context, storage store.Storage, year int) (*listingYearNode, error) {
	key := record.ListingYearManifestKey(year)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*listingMonthNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		month := member.Month
		children.Declare(monthKey(month), func(ctx context.Context) (*listingMonthNode, error) {
			return loadListingMonth(ctx, storage, year, month)
		})
	}
	return &listingYearNode{year: year, manifest: manifest, children: children}, nil
}

func (y *listingYearNode) addEvents(ctx context.Context, storage store.Storage, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) int {
		return int(e.EventDate.Month())
	})
	for _, month := range order {
		key := monthKey(month)
		child, ok, err := y.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &listingMonthNode{year: y.year, month: month, manifest: integrity.NewManifest(), children: newLazyChildren[*listingDayNode]()}
			y.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, groups[month])
		if err != nil {
			return "", err
		}
		y.manifest.Upsert(genericEntry(record.ListingMonthManifestKey(y.year, month), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.ListingYearManifestKey(y.year), &y.manifest)
	if err != nil {
		return "", err
	}
	y.checksum = checksum
	return checksum, nil
}
