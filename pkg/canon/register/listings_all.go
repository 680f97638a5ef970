package register

import (
	"context"
	"strconv"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// listingsAllNode is the "announcement" root: every year that ever saw an
// announcement event.
type listingsAllNode struct {
	manifest integrity.Manifest
	children *lazyChildren[*listingYearNode]
	checksum integrity.Checksum
}

func loadListingsAll(ctx context.Context, storage store.Storage) (*listingsAllNode, error) {
	key := record.AnnouncementManifestKey()
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*listingYearNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		year := member.Year
		children.Declare(strconv.Itoa(year), func(ctx context.Context) (*listingYearNode, error) {
			return loadListingYear(ctx, storage, year)
		})
	}
	return &listingsAllNode{manifest: manifest, children: children}, nil
}

func (all *listingsAllNode) addEvents(ctx context.Context, storage store.Storage, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) int {
		return e.EventDate.Year()
	})
	for _, year := range order {
		key := strconv.Itoa(year)
		child, ok, err := all.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &listingYearNode{year: year, manifest: integrity.NewManifest(), children: newLazyChildren[*listingMonthNode]()}
			all.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, groups[year])
		if err != nil {
			return "", err
		}
		all.manifest.Upsert(genericEntry(record.ListingYearManifestKey(year), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.AnnouncementManifestKey(), &all.manifest)
	if err != nil {
		return "", err
	}
	all.checksum = checksum
	return checksum, nil
}
