package register

import (
	"context"
	"encoding/json"
	"io"
	"path"

	"github.com/smallnest/deepcopy"

	"github.com/arxiv/canonical/pkg/canon/canonjson"
	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// versionNode is a single announced (or in-progress) Version and the
// manifest of its stored members: its metadata blob, source package,
// optional render, and any dissemination formats.
type versionNode struct {
	version  domain.Version
	manifest integrity.Manifest
	checksum integrity.Checksum
}

// loadVersionNode reconstructs a versionNode from storage: the version's
// metadata blob already embeds the (now-canonical) Source/Render/Formats
// refs, so reading it back requires no re-dereferencing of content. The
// version's own manifest is loaded alongside it purely so its checksum
// can be validated or rolled up by a caller; it plays no part in
// reconstructing the domain.Version itself.
func loadVersionNode(ctx context.Context, storage store.Storage, vid identifier.VersionedIdentifier) (*versionNode, error) {
	stream, _, err := storage.LoadEntry(ctx, record.VersionMetadataKey(vid))
	if err != nil {
		return nil, err
	}
	r, err := stream.Reader(ctx)
	if err != nil {
		return nil, err
	}
	var v domain.Version
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, err
	}
	manifest, err := loadManifestOrEmpty(ctx, storage, record.VersionManifestKey(vid))
	if err != nil {
		return nil, err
	}
	checksum, err := manifest.Checksum()
	if err != nil {
		return nil, err
	}
	return &versionNode{version: v, manifest: manifest, checksum: checksum}, nil
}

// createVersion materializes every member of a freshly-announced version
// (dereferencing source, render, and format content through sources and
// rewriting each ref to its new canonical key), writes the version's own
// metadata blob, and saves the resulting manifest.
func createVersion(ctx context.Context, storage store.Storage, sources []store.Source, v domain.Version) (*versionNode, error) {
	vid := v.Identifier
	man := integrity.NewManifest()

	source, err := materializeMember(ctx, storage, sources, &man, vid, v.Source)
	if err != nil {
		return nil, err
	}
	v.Source = source

	if v.Render != nil {
		render, err := materializeMember(ctx, storage, sources, &man, vid, *v.Render)
		if err != nil {
			return nil, err
		}
		v.Render = &render
	}
	for ct, cf := range v.Formats {
		stored, err := materializeMember(ctx, storage, sources, &man, vid, cf)
		if err != nil {
			return nil, err
		}
		v.Formats[ct] = stored
	}

	if err := storeVersionMetadata(ctx, storage, &man, v); err != nil {
		return nil, err
	}
	checksum, err := saveManifest(ctx, storage, record.VersionManifestKey(vid), &man)
	if err != nil {
		return nil, err
	}
	return &versionNode{version: v, manifest: man, checksum: checksum}, nil
}

// hasContent reports whether cf carries a dereferenceable bitstream.
// A CanonicalFile never holds content inline (Ref is dereferenced on
// demand), so "no content" is exactly "no ref to dereference".
func hasContent(cf domain.CanonicalFile) bool {
	return !cf.Ref.IsZero()
}

// update diffs next's members (source, optional render, and the
// open-ended formats map) against the stored state: a member present in
// next with content is
// added (if new) or replaced (if its ref changed); a member present in
// next with an empty content field is ignored, carrying the existing
// stored member forward untouched; a member (render, or a format)
// absent from next entirely is deleted. allowContentChange gates
// whether an actual content replacement is permitted at all (asserted
// false for the metadata-only event types).
func (vn *versionNode) update(ctx context.Context, storage store.Storage, sources []store.Source, next domain.Version, allowContentChange bool) error {
	man := integrity.NewManifest()

	// Source is mandatory and has no "absent" state: either the event
	// supplies new content (add/replace) or it doesn't (ignore, carry
	// the existing source forward).
	if hasContent(next.Source) {
		source, err := vn.carryOrMaterialize(ctx, storage, sources, &man, next.Identifier, vn.version.Source, next.Source, allowContentChange)
		if err != nil {
			return err
		}
		next.Source = source
	} else {
		if err := vn.carryEntry(&man, next.Identifier, vn.version.Source); err != nil {
			return err
		}
		next.Source = vn.version.Source
	}

	// Render is optional: nil in next deletes it; non-nil with no
	// content ignores it (carries the old render, if any, forward);
	// non-nil with content adds or replaces it.
	switch {
	case next.Render == nil:
		// deleted: nothing carried forward.
	case !hasContent(*next.Render):
		if vn.version.Render != nil {
			if err := vn.carryEntry(&man, next.Identifier, *vn.version.Render); err != nil {
				return err
			}
			render := *vn.version.Render
			next.Render = &render
		} else {
			next.Render = nil
		}
	default:
		var old domain.CanonicalFile
		if vn.version.Render != nil {
			old = *vn.version.Render
		}
		render, err := vn.carryOrMaterialize(ctx, storage, sources, &man, next.Identifier, old, *next.Render, allowContentChange)
		if err != nil {
			return err
		}
		next.Render = &render
	}

	// Formats is the open-ended member map. A key present in next with
	// content is added/replaced; present with no content is ignored
	// (the old entry, if any, is carried forward); a key that exists in
	// the old version but is missing from next entirely is deleted by
	// simply not appearing in merged.
	merged := make(map[domain.ContentType]domain.CanonicalFile, len(next.Formats))
	for ct, cf := range next.Formats {
		if !hasContent(cf) {
			if old, ok := vn.version.Formats[ct]; ok {
				if err := vn.carryEntry(&man, next.Identifier, old); err != nil {
					return err
				}
				merged[ct] = old
			}
			continue
		}
		old := vn.version.Formats[ct]
		stored, err := vn.carryOrMaterialize(ctx, storage, sources, &man, next.Identifier, old, cf, allowContentChange)
		if err != nil {
			return err
		}
		merged[ct] = stored
	}
	next.Formats = merged

	if err := storeVersionMetadata(ctx, storage, &man, next); err != nil {
		return err
	}
	checksum, err := saveManifest(ctx, storage, record.VersionManifestKey(next.Identifier), &man)
	if err != nil {
		return err
	}
	vn.version = next
	vn.manifest = man
	vn.checksum = checksum
	return nil
}

// carryEntry re-registers member's existing manifest entry in man
// unchanged. Used when a member is ignored (no content supplied) or
// carried forward because its ref did not change.
func (vn *versionNode) carryEntry(man *integrity.Manifest, vid identifier.VersionedIdentifier, member domain.CanonicalFile) error {
	if member.Ref.IsZero() {
		return nil
	}
	key := record.VersionFileKey(vid, member.Filename)
	entry, ok := vn.manifest.Find(key.String())
	if !ok {
		return errdefs.Newf(errdefs.ErrNotFound, "%s: no stored entry for %q to carry forward", vid, member.Filename)
	}
	man.Upsert(entry)
	return nil
}

// carryOrMaterialize keeps the previously-stored member when its ref is
// unchanged, and otherwise (re)stores it, subject to allowContentChange.
func (vn *versionNode) carryOrMaterialize(ctx context.Context, storage store.Storage, sources []store.Source, man *integrity.Manifest, vid identifier.VersionedIdentifier, old, next domain.CanonicalFile, allowContentChange bool) (domain.CanonicalFile, error) {
	if old.Ref == next.Ref && !old.Ref.IsZero() {
		if err := vn.carryEntry(man, vid, old); err == nil {
			return old, nil
		}
	}
	if !allowContentChange {
		return domain.CanonicalFile{}, errdefs.Newf(ErrContentChangeNotAllowed, "member %q changed by an event that does not allow content changes", next.Filename)
	}
	return materializeMember(ctx, storage, sources, man, vid, next)
}

// materializeMember dereferences cf.Ref through sources, gunzips it
// in-band when cf.IsGzipped is set, stores the decompressed bytes at the
// member's canonical key, and returns the rewritten descriptor.
func materializeMember(ctx context.Context, storage store.Storage, sources []store.Source, man *integrity.Manifest, vid identifier.VersionedIdentifier, cf domain.CanonicalFile) (domain.CanonicalFile, error) {
	stream, err := dereference(ctx, sources, cf.Ref)
	if err != nil {
		return domain.CanonicalFile{}, err
	}
	r, err := stream.Reader(ctx)
	if err != nil {
		return domain.CanonicalFile{}, err
	}
	if cf.IsGzipped {
		gz, err := store.GunzipReader(r, cf.SizeBytes)
		if err != nil {
			return domain.CanonicalFile{}, err
		}
		defer gz.Close()
		r = gz
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.CanonicalFile{}, err
	}

	key := record.VersionFileKey(vid, cf.Filename)
	rewritten := cf.WithRef(key)
	rewritten.IsGzipped = false
	rewritten.SizeBytes = int64(len(raw))
	checksum, err := storage.StoreEntry(ctx, store.StorableEntry{
		Key:     key,
		File:    rewritten,
		Content: store.BytesStream(raw),
	})
	if err != nil {
		return domain.CanonicalFile{}, err
	}

	man.Upsert(integrity.ManifestEntry{
		Key:       key.String(),
		Checksum:  checksum,
		SizeBytes: rewritten.SizeBytes,
		MimeType:  rewritten.MimeType,
	})
	return rewritten, nil
}

// storeVersionMetadata canonically serializes v and stores it at its
// metadata key, recording the resulting entry in man.
func storeVersionMetadata(ctx context.Context, storage store.Storage, man *integrity.Manifest, v domain.Version) error {
	raw, err := canonjson.Marshal(v)
	if err != nil {
		return err
	}
	key := record.VersionMetadataKey(v.Identifier)
	file := domain.CanonicalFile{
		Filename:    path.Base(key.Path()),
		MimeType:    domain.ContentTypeJSON.MimeType(),
		ContentType: domain.ContentTypeJSON,
		SizeBytes:   int64(len(raw)),
		Ref:         key,
	}
	checksum, err := storage.StoreEntry(ctx, store.StorableEntry{Key: key, File: file, Content: store.BytesStream(raw)})
	if err != nil {
		return err
	}
	man.Upsert(integrity.ManifestEntry{
		Key:       key.String(),
		Checksum:  checksum,
		SizeBytes: int64(len(raw)),
		MimeType:  domain.ContentTypeJSON.MimeType(),
	})
	return nil
}

// withEventSummary returns a copy of v with ev appended to its event
// history.
func withEventSummary(v domain.Version, ev domain.Event) domain.Version {
	v.Events = append(append([]domain.EventSummary{}, v.Events...), ev.Summary())
	return v
}

// applyMutation builds the next Version state for an update-family event,
// starting from a deep copy of old so unrelated fields (previous
// versions, submitter, legacy flags) are carried forward untouched.
// Metadata mutates per event type (cross only appends secondaries;
// every other update-family event replaces it wholesale), but the
// bitstream members (source, render, formats) are always passed through
// verbatim from the event's Version and left for versionNode.update's
// ignore/add/replace/delete diff to resolve; an update_metadata, cross,
// or migrate_metadata event's Version is expected to carry empty
// (no-ref) members, which update treats as "ignore".
func applyMutation(old domain.Version, ev domain.Event) domain.Version {
	next := deepcopy.Copy(old)
	next.UpdatedDate = ev.EventDate
	switch ev.EventType {
	case domain.EventTypeCrosslist:
		next.Metadata = next.Metadata.WithSecondaries(ev.Categories...)
	default:
		next.Metadata = ev.Version.Metadata
	}
	next.Source = ev.Version.Source
	next.Render = ev.Version.Render
	next.Formats = ev.Version.Formats
	return withEventSummary(next, ev)
}
