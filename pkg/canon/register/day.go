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

// dayNode is the "e-prints/YYYY/MM/YYYY-MM-DD" manifest: every e-print
// whose first version was announced on this day, keyed by identifier.
type dayNode struct {
	date     time.Time
	manifest integrity.Manifest
	children *lazyChildren[*eprintNode]
	checksum integrity.Checksum
}

func loadDay(ctx context.Context, storage store.Storage, date time.Time) (*dayNode, error) {
	key := record.DayManifestKey(date)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*eprintNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		id := member.EPrintID
		children.Declare(id.String(), func(ctx context.Context) (*eprintNode, error) {
			return loadEPrintDirect(ctx, storage, id)
		})
	}
	return &dayNode{date: date, manifest: manifest, children: children}, nil
}

func (d *dayNode) addEvents(ctx context.Context, storage store.Storage, sources []store.Source, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) identifier.Identifier {
		return e.Identifier.Identifier
	})
	for _, id := range order {
		key := id.String()
		child, ok, err := d.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			// The e-print manifest key depends on id alone, so an e-print
			// already recorded under another day is loaded, not replaced.
			child, err = loadEPrintDirect(ctx, storage, id)
			if err != nil {
				return "", err
			}
			d.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, sources, groups[id])
		if err != nil {
			return "", err
		}
		d.manifest.Upsert(genericEntry(record.EPrintManifestKey(id), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.DayManifestKey(d.date), &d.manifest)
	if err != nil {
		return "", err
	}
	d.checksum = checksum
	return checksum, nil
}
