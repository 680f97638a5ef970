package register

import (
	"context"
	"strconv"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// eprintsAllNode is the "e-prints" root: every year in which an e-print
// was ever announced.
type eprintsAllNode struct {
	manifest integrity.Manifest
	children *lazyChildren[*yearNode]
	checksum integrity.Checksum
}

func loadEPrintsAll(ctx context.Context, storage store.Storage) (*eprintsAllNode, error) {
	key := record.EPrintsManifestKey()
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*yearNode]()
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
		children.Declare(strconv.Itoa(year), func(ctx context.Context) (*yearNode, error) {
			return loadYear(ctx, storage, year)
		})
	}
	return &eprintsAllNode{manifest: manifest, children: children}, nil
}

func (all *eprintsAllNode) addEvents(ctx context.Context, storage store.Storage, sources []store.Source, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) int {
		return e.Version.AnnouncedDateFirst.Year()
	})
	for _, year := range order {
		key := strconv.Itoa(year)
		child, ok, err := all.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &yearNode{year: year, manifest: integrity.NewManifest(), children: newLazyChildren[*monthNode]()}
			all.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, sources, groups[year])
		if err != nil {
			return "", err
		}
		all.manifest.Upsert(genericEntry(record.YearManifestKey(year), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.EPrintsManifestKey(), &all.manifest)
	if err != nil {
		return "", err
	}
	all.checksum = checksum
	return checksum, nil
}
