package register

import (
	"context"
	"errors"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/canon/uri"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// loadManifestOrEmpty loads the manifest at key, treating "does not exist"
// as an empty manifest rather than an error: a register level that has
// never had anything added to it simply starts empty.
func loadManifestOrEmpty(ctx context.Context, storage store.Storage, key uri.URI) (integrity.Manifest, error) {
	m, err := storage.LoadManifest(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrDoesNotExist) {
			return integrity.NewManifest(), nil
		}
		return integrity.Manifest{}, err
	}
	return m, nil
}

// saveManifest sorts and persists m at key, returning its rolled-up
// checksum.
func saveManifest(ctx context.Context, storage store.Storage, key uri.URI, m *integrity.Manifest) (integrity.Checksum, error) {
	m.Sort()
	checksum, err := m.Checksum()
	if err != nil {
		return "", err
	}
	if err := storage.StoreManifest(ctx, key, *m); err != nil {
		return "", err
	}
	return checksum, nil
}

// genericEntry builds the manifest entry for a child whose own manifest
// already carries the correct rolled-up counters: every level above an
// e-print's versions, and above a listing day's shards.
func genericEntry(key uri.URI, checksum integrity.Checksum, child integrity.Manifest) integrity.ManifestEntry {
	return integrity.ManifestEntry{
		Key:                  key.String(),
		Checksum:             checksum,
		NumberOfVersions:     child.NumberOfVersions,
		NumberOfEvents:       child.NumberOfEvents,
		NumberOfEventsByType: child.NumberOfEventsByType,
	}
}

// parseKey parses a manifest entry's stored key string back into a URI,
// the first step of recovering the typed member name that record.Parse
// needs.
func parseKey(raw string) (uri.URI, error) {
	return uri.Parse(raw)
}

// groupEventsBy partitions events into buckets keyed by keyFn, preserving
// the order in which each bucket was first seen. This is how every
// collection level routes a batch to its children without disturbing
// arrival order within a child.
func groupEventsBy[K comparable](events []domain.Event, keyFn func(domain.Event) K) ([]K, map[K][]domain.Event) {
	order := make([]K, 0)
	groups := make(map[K][]domain.Event)
	for _, e := range events {
		k := keyFn(e)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}
	return order, groups
}

// tallyByType counts events by their event type, for manifest entries
// that must report number_of_events_by_type without a child manifest of
// their own to roll up from (a version's or a listing shard's events).
func tallyByType(events []domain.EventSummary) map[string]int {
	out := make(map[string]int, len(events))
	for _, e := range events {
		out[string(e.EventType)]++
	}
	return out
}

// dereference resolves ref through the first source that can resolve it.
func dereference(ctx context.Context, sources []store.Source, ref uri.URI) (*store.Stream, error) {
	for _, src := range sources {
		if src.CanResolve(ref) {
			return src.Load(ctx, ref)
		}
	}
	return nil, errdefs.Newf(errdefs.ErrResolution, "no source can resolve %s", ref)
}
