package identifier

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/arxiv/canonical/pkg/errdefs"
)

// eventIdentifierSeparator joins the parts of an EventIdentifier before
// base64-encoding. It must not appear inside any of the parts.
const eventIdentifierSeparator = "::"

// EventIdentifier uniquely identifies an Event within one
// (VersionedIdentifier, instant, shard) triple. It is a reversible,
// URL-safe base64 encoding of those three parts, so no lookup table is
// needed to recover them.
type EventIdentifier string

// NewEventIdentifier builds the identifier for an event on the given
// version, at the given timestamp, in the given shard.
func NewEventIdentifier(vid VersionedIdentifier, eventDate time.Time, shard string) EventIdentifier {
	if shard == "" {
		shard = DefaultShard
	}
	raw := strings.Join([]string{
		vid.String(),
		eventDate.UTC().Format(time.RFC3339Nano),
		shard,
	}, eventIdentifierSeparator)
	return EventIdentifier(base64.URLEncoding.EncodeToString([]byte(raw)))
}

// Parts decodes the identifier back into its constituent version,
// timestamp, and shard.
func (e EventIdentifier) Parts() (vid VersionedIdentifier, eventDate time.Time, shard string, err error) {
	decoded, err := base64.URLEncoding.DecodeString(string(e))
	if err != nil {
		return vid, eventDate, shard, errdefs.NewE(ErrBadEventIdentifier, err)
	}
	parts := strings.SplitN(string(decoded), eventIdentifierSeparator, 3)
	if len(parts) != 3 {
		return vid, eventDate, shard, errdefs.Newf(ErrBadEventIdentifier,
			"%q decodes to %d parts, want 3", e, len(parts))
	}
	vid, err = ParseVersioned(parts[0])
	if err != nil {
		return vid, eventDate, shard, errdefs.NewE(ErrBadEventIdentifier, err)
	}
	eventDate, err = time.Parse(time.RFC3339Nano, parts[1])
	if err != nil {
		return vid, eventDate, shard, errdefs.NewE(ErrBadEventIdentifier, err)
	}
	shard = parts[2]
	return vid, eventDate, shard, nil
}

// String implements fmt.Stringer.
func (e EventIdentifier) String() string {
	return string(e)
}

var _ fmt.Stringer = EventIdentifier("")
