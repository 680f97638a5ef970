package register

import (
	"context"
	"encoding/json"
	"errors"
	"path"

	"github.com/arxiv/canonical/pkg/canon/canonjson"
	"github.com/arxiv/canonical/pkg/canon/domain"
	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/integrity"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/store"
)

// listingShardNode is a single day-and-shard's listing file: the ordered
// record of every event that occurred on that day within that shard. It
// is a terminal member, not a collection: it has no children and no
// manifest of its own, which is why listingDayNode (its parent) must
// construct its manifest entry directly from the listing's events rather
// than rolling one up generically.
type listingShardNode struct {
	id       identifier.ListingIdentifier
	listing  domain.Listing
	checksum integrity.Checksum
}

func loadListingShard(ctx context.Context, storage store.Storage, lid identifier.ListingIdentifier) (*listingShardNode, error) {
	key := record.ListingKey(lid)
	stream, checksum, err := storage.LoadEntry(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrDoesNotExist) {
			return &listingShardNode{id: lid, listing: domain.Listing{Date: lid.Date}}, nil
		}
		return nil, err
	}
	r, err := stream.Reader(ctx)
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.NewDecoder(r).Decode(&listing); err != nil {
		return nil, err
	}
	return &listingShardNode{id: lid, listing: listing, checksum: checksum}, nil
}

// addEvents appends events (in arrival order) to the shard's listing and
// re-stores the whole file rather than patching it incrementally, so the
// stored bytes are always the canonical serialization of the listing.
func (ls *listingShardNode) addEvents(ctx context.Context, storage store.Storage, events []domain.Event) (integrity.Checksum, error) {
	ls.listing.Events = append(ls.listing.Events, events...)
	raw, err := canonjson.Marshal(ls.listing)
	if err != nil {
		return "", err
	}
	key := record.ListingKey(ls.id)
	file := domain.CanonicalFile{
		Filename:    path.Base(key.Path()),
		MimeType:    domain.ContentTypeJSON.MimeType(),
		ContentType: domain.ContentTypeJSON,
		SizeBytes:   int64(len(raw)),
		Ref:         key,
	}
	checksum, err := storage.StoreEntry(ctx, store.StorableEntry{Key: key, File: file, Content: store.BytesStream(raw)})
	if err != nil {
		return "", err
	}
	ls.checksum = checksum
	return checksum, nil
}
