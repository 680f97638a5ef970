package register

import (
	"context"
	"fmt"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// yearNode is the "e-prints/YYYY" manifest: every month in which an
// e-print's first version was announced during year.
type yearNode struct {
	year     int
	manifest integrity.Manifest
	children *lazyChildren[*monthNode]
	checksum integrity.Checksum
}

func monthKey(month int) string { return fmt.Sprintf("%02d", month) }

func loadYear(ctx context.Context, storage store.Storage, year int) (*yearNode, error) {
	key := record.YearManifestKey(year)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*monthNode]()
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
		children.Declare(monthKey(month), func(ctx context.Context) (*monthNode, error) {
			return loadMonth(ctx, storage, year, month)
		})
	}
	return &yearNode{year: year, manifest: manifest, children: children}, nil
}

func (y *yearNode) addEvents(ctx context.Context, storage store.Storage, sources []store.Source, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) int {
		return int(e.Version.AnnouncedDateFirst.Month())
	})
	for _, month := range order {
		key := monthKey(month)
		child, ok, err := y.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &monthNode{year: y.year, month: month, manifest: integrity.NewManifest(), children: newLazyChildren[*dayNode]()}
			y.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, sources, groups[month])
		if err != nil {
			return "", err
		}
		y.manifest.Upsert(genericEntry(record.MonthManifestKey(y.year, month), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.YearManifestKey(y.year), &y.manifest)
	if err != nil {
		return "", err
	}
	y.checksum = checksum
	return checksum, nil
}
