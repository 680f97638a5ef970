package register

import (
	"context"
	"sort"
	"strconv"

	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// eprintNode is the "e-prints/YYYY/MM/<id>" manifest: every version of one
// e-print, keyed by version number. Unlike the collection levels above
// it, eprintNode is bespoke rather than generic: a versionNode's own
// manifest tracks its stored files, not its event/version counts, so the
// entry recorded here for each version is built from the version's
// announced Events directly (see versionEntry).
type eprintNode struct {
	identifier identifier.Identifier
	manifest   integrity.Manifest
	children   *lazyChildren[*versionNode]
	checksum   integrity.Checksum
}

func newEPrintNode(id identifier.Identifier) *eprintNode {
	return &eprintNode{identifier: id, manifest: integrity.NewManifest(), children: newLazyChildren[*versionNode]()}
}

// loadEPrintDirect loads an e-print by identifier alone: the e-print's
// manifest key is derived purely from id, independent of any date-keyed
// ancestor, so this is also how direct-by-identifier reads (LoadEPrint,
// LoadVersion) reach it without walking the year/month/day tree.
func loadEPrintDirect(ctx context.Context, storage store.Storage, id identifier.Identifier) (*eprintNode, error) {
	key := record.EPrintManifestKey(id)
	manifest, err := loadManifestOrEmpty(ctx, storage, key)
	if err != nil {
		return nil, err
	}
	children := newLazyChildren[*versionNode]()
	for _, e := range manifest.Entries {
		entryKey, err := parseKey(e.Key)
		if err != nil {
			return nil, err
		}
		member, err := record.Parse(entryKey)
		if err != nil {
			return nil, err
		}
		vid := member.VersionID
		children.Declare(strconv.Itoa(vid.Version()), func(ctx context.Context) (*versionNode, error) {
			return loadVersionNode(ctx, storage, vid)
		})
	}
	return &eprintNode{identifier: id, manifest: manifest, children: children}, nil
}

// addEvents applies events (already filtered to this e-print, in arrival
// order) one at a time and persists the resulting manifest.
func (e *eprintNode) addEvents(ctx context.Context, storage store.Storage, sources []store.Source, events []domain.Event) (integrity.Checksum, error) {
	for _, ev := range events {
		if err := e.applyEvent(ctx, storage, sources, ev); err != nil {
			return "", err
		}
	}
	checksum, err := saveManifest(ctx, storage, record.EPrintManifestKey(e.identifier), &e.manifest)
	if err != nil {
		return "", err
	}
	e.checksum = checksum
	return checksum, nil
}

// applyEvent dispatches a single event per the version-sequence rules:
// new/replace/withdraw create a version that must not already exist;
// everything else amends a version that must already exist.
func (e *eprintNode) applyEvent(ctx context.Context, storage store.Storage, sources []store.Source, ev domain.Event) error {
	vkey := strconv.Itoa(ev.Identifier.Version())

	if ev.EventType.IsNewVersion() {
		if e.children.Has(vkey) {
			return errdefs.Newf(errdefs.ErrConsistency, "%s: %w", ev.Identifier, ErrVersionExists)
		}
		v := withEventSummary(ev.Version, ev)
		if ev.EventType == domain.EventTypeWithdrawn {
			v.IsWithdrawn = true
		}
		vn, err := createVersion(ctx, storage, sources, v)
		if err != nil {
			return err
		}
		e.children.Set(vkey, vn)
		e.manifest.Upsert(versionEntry(ev.Identifier, vn))
		return nil
	}

	vn, ok, err := e.children.Get(ctx, vkey)
	if err != nil {
		return err
	}
	if !ok {
		return errdefs.Newf(errdefs.ErrConsistency, "%s: %w", ev.Identifier, ErrVersionMissing)
	}
	allowContentChange := ev.EventType == domain.EventTypeUpdated || ev.EventType == domain.EventTypeMigrate
	next := applyMutation(vn.version, ev)
	if err := vn.update(ctx, storage, sources, next, allowContentChange); err != nil {
		return err
	}
	e.manifest.Upsert(versionEntry(ev.Identifier, vn))
	return nil
}

// versionKeys returns the e-print's version keys in numeric version
// order. The lazy map's own Keys() is lexical, which would put "10"
// before "2".
func (e *eprintNode) versionKeys() []string {
	keys := e.children.Keys()
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// versionEntry builds the eprint-level manifest entry for a version: its
// own event/version counters, not rolled up from the version's internal
// file manifest, which tracks something else entirely.
func versionEntry(vid identifier.VersionedIdentifier, vn *versionNode) integrity.ManifestEntry {
	return integrity.ManifestEntry{
		Key:                  record.VersionManifestKey(vid).String(),
		Checksum:             vn.checksum,
		NumberOfVersions:     1,
		NumberOfEvents:       len(vn.version.Events),
		NumberOfEventsByType: tallyByType(vn.version.Events),
	}
}
