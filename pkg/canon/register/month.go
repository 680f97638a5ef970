package register

import (
	"context"
	"time"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// monthNode is the "e-prints/YYYY/YYYY-MM" manifest: every day within the
// month that saw at least one e-print announced.
type monthNode struct {
	year, month int
	manifest    integrity.Manifest
	children    *lazyChildren[*dayNode]
	checksum    integrity.Checksum
}

func dayKey(date time.Time) string { return date.Format("2006-01-02") }

func loadMonth(ctx context.Context, storage store.Storage, year, month int) (*monthNode, error) {
	key := record.MonthManifestKey(year, month)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*dayNode]()
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
		children.Declare(dayKey(date), func(ctx context.Context) (*dayNode, error) {
			return loadDay(ctx, storage, date)
		})
	}
	return &monthNode{year: year, month: month, manifest: manifest, children: children}, nil
}

func (mo *monthNode) addEvents(ctx context.Context, storage store.Storage, sources []store.Source, events []domain.Event) (integrity.Checksum, error) {
	order, groups := groupEventsBy(events, func(e domain.Event) time.Time {
		y, m, d := e.Version.AnnouncedDateFirst.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	})
	for _, date := range order {
		key := dayKey(date)
		child, ok, err := mo.children.Get(ctx, key)
		if err != nil {
			return "", err
		}
		if !ok {
			child = &dayNode{date: date, manifest: integrity.NewManifest(), children: newLazyChildren[*eprintNode]()}
			mo.children.Set(key, child)
		}
		checksum, err := child.addEvents(ctx, storage, sources, groups[date])
		if err != nil {
			return "", err
		}
		mo.manifest.Upsert(genericEntry(record.DayManifestKey(date), checksum, child.manifest))
	}
	checksum, err := saveManifest(ctx, storage, record.MonthManifestKey(mo.year, mo.month), &mo.manifest)
	if err != nil {
		return "", err
	}
	mo.checksum = checksum
	return checksum, nil
}
