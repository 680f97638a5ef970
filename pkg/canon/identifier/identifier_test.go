package identifier_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/identifier"
)

func TestParseNewStyle(t *testing.T) {
	id, err := identifier.Parse("2901.00345")
	require.NoError(t, err)
	assert.False(t, id.IsOldStyle())
	assert.Equal(t, 2029, id.Year())
	assert.Equal(t, 1, id.Month())
	assert.Equal(t, 345, id.NumericPart())
	assert.Equal(t, "2901.00345", id.String())
}

func TestParseOldStyle(t *testing.T) {
	id, err := identifier.Parse("cs.DL/9901007")
	require.NoError(t, err)
	assert.True(t, id.IsOldStyle())
	assert.Equal(t, 1999, id.Year())
	assert.Equal(t, 1, id.Month())
	assert.Equal(t, 7, id.NumericPart())
	assert.Equal(t, "cs.DL", id.CategoryPart())
}

func TestParseInvalid(t *testing.T) {
	_, err := identifier.Parse("not-an-id")
	assert.ErrorIs(t, err, identifier.ErrBadIdentifier)
}

func TestIdentifierOrdering(t *testing.T) {
	a := identifier.MustParse("2901.00001")
	b := identifier.MustParse("2901.00002")
	c := identifier.MustParse("2902.00001")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, c.Compare(a))
}

func TestVersionedIdentifierRoundTrip(t *testing.T) {
	vid, err := identifier.ParseVersioned("2901.00345v2")
	require.NoError(t, err)
	assert.Equal(t, 2, vid.Version())
	assert.Equal(t, "2901.00345v2", vid.String())

	text, err := vid.MarshalText()
	require.NoError(t, err)

	var roundTripped identifier.VersionedIdentifier
	require.NoError(t, roundTripped.UnmarshalText(text))
	assert.Equal(t, vid, roundTripped)
}

func TestNewVersionedIdentifierRejectsNonPositive(t *testing.T) {
	id := identifier.MustParse("2901.00345")
	_, err := identifier.NewVersionedIdentifier(id, 0)
	assert.ErrorIs(t, err, identifier.ErrBadVersion)
}

func TestEventIdentifierRoundTrip(t *testing.T) {
	vid, err := identifier.ParseVersioned("2901.00345v1")
	require.NoError(t, err)
	when := time.Date(2029, 1, 29, 12, 0, 0, 0, time.UTC)

	eid := identifier.NewEventIdentifier(vid, when, "")
	gotVID, gotDate, gotShard, err := eid.Parts()
	require.NoError(t, err)
	assert.Equal(t, vid, gotVID)
	assert.True(t, when.Equal(gotDate))
	assert.Equal(t, identifier.DefaultShard, gotShard)
}

func TestListingIdentifierString(t *testing.T) {
	l := identifier.NewListingIdentifier(time.Date(2029, 1, 29, 15, 4, 5, 0, time.UTC), "")
	assert.Equal(t, "2029-01-29-listing", l.String())
}
