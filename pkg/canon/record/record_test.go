package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/record"
	"github.com/arxiv/canonical/pkg/canon/uri"
)

func mustVID(t *testing.T, s string) identifier.VersionedIdentifier {
	t.Helper()
	vid, err := identifier.ParseVersioned(s)
	require.NoError(t, err)
	return vid
}

func TestVersionMetadataKeyNewStyle(t *testing.T) {
	vid := mustVID(t, "2901.00345v2")
	key := record.VersionMetadataKey(vid)
	assert.Equal(t, "arxiv:///e-prints/2029/01/2901.00345/v2/2901.00345v2.json", key.String())

	member, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberVersionMetadata, member.Kind)
	assert.Equal(t, vid, member.VersionID)
}

func TestVersionMetadataKeyOldStyle(t *testing.T) {
	id := identifier.MustParse("cs.DL/9901007")
	vid, err := identifier.NewVersionedIdentifier(id, 1)
	require.NoError(t, err)

	key := record.VersionMetadataKey(vid)
	assert.Equal(t, "arxiv:///e-prints/1999/01/cs.DL/9901007/v1/9901007v1.json", key.String())

	member, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberVersionMetadata, member.Kind)
	assert.Equal(t, vid, member.VersionID)
}

func TestVersionManifestKeyRoundTrip(t *testing.T) {
	vid := mustVID(t, "2901.00345v1")
	key := record.VersionManifestKey(vid)
	assert.Equal(t, "arxiv:///e-prints/2029/01/2901.00345/v1/v1.manifest.json", key.String())

	member, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberVersionManifest, member.Kind)
	assert.Equal(t, vid, member.VersionID)
}

func TestVersionFileKeyRoundTrip(t *testing.T) {
	vid := mustVID(t, "2901.00345v1")
	key := record.VersionFileKey(vid, "2901.00345v1.pdf")
	member, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberVersionFile, member.Kind)
	assert.Equal(t, "2901.00345v1.pdf", member.Filename)
}

func TestEPrintManifestKeyRoundTrip(t *testing.T) {
	id := identifier.MustParse("2901.00345")
	key := record.EPrintManifestKey(id)
	assert.Equal(t, "arxiv:///e-prints/2029/01/2901.00345.manifest.json", key.String())

	member, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberEPrintManifest, member.Kind)
	assert.Equal(t, id, member.EPrintID)

	oldID := identifier.MustParse("cs.DL/9901007")
	oldKey := record.EPrintManifestKey(oldID)
	assert.Equal(t, "arxiv:///e-prints/1999/01/cs.DL/9901007.manifest.json", oldKey.String())
	member, err = record.Parse(oldKey)
	require.NoError(t, err)
	assert.Equal(t, record.MemberEPrintManifest, member.Kind)
	assert.Equal(t, oldID, member.EPrintID)
}

func TestDayMonthYearManifestKeys(t *testing.T) {
	date := time.Date(2029, 1, 29, 0, 0, 0, 0, time.UTC)

	dayKey := record.DayManifestKey(date)
	assert.Equal(t, "arxiv:///e-prints/2029/01/2029-01-29.manifest.json", dayKey.String())
	m, err := record.Parse(dayKey)
	require.NoError(t, err)
	assert.Equal(t, record.MemberDayManifest, m.Kind)
	assert.Equal(t, 29, m.Day)

	monthKey := record.MonthManifestKey(2029, 1)
	assert.Equal(t, "arxiv:///e-prints/2029/2029-01.manifest.json", monthKey.String())
	m, err = record.Parse(monthKey)
	require.NoError(t, err)
	assert.Equal(t, record.MemberMonthManifest, m.Kind)

	yearKey := record.YearManifestKey(2029)
	assert.Equal(t, "arxiv:///e-prints/2029.manifest.json", yearKey.String())
	m, err = record.Parse(yearKey)
	require.NoError(t, err)
	assert.Equal(t, record.MemberYearManifest, m.Kind)
}

func TestTopLevelManifestKeys(t *testing.T) {
	cases := []struct {
		key  record.Key
		kind record.MemberKind
	}{
		{record.EPrintsManifestKey(), record.MemberEPrintsManifest},
		{record.AnnouncementManifestKey(), record.MemberAnnouncementManifest},
		{record.GlobalManifestKey(), record.MemberGlobalManifest},
	}
	for _, tc := range cases {
		m, err := record.Parse(tc.key)
		require.NoError(t, err)
		assert.Equal(t, tc.kind, m.Kind)
	}
}

func TestListingKeyRoundTrip(t *testing.T) {
	lid := identifier.NewListingIdentifier(time.Date(2029, 1, 29, 0, 0, 0, 0, time.UTC), "")
	key := record.ListingKey(lid)
	assert.Equal(t, "arxiv:///announcement/2029/01/29/2029-01-29-listing.json", key.String())

	m, err := record.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, record.MemberListing, m.Kind)
	assert.Equal(t, lid, m.ListingID)
}

func TestListingManifestKeys(t *testing.T) {
	date := time.Date(2029, 1, 29, 0, 0, 0, 0, time.UTC)

	m, err := record.Parse(record.ListingDayManifestKey(date))
	require.NoError(t, err)
	assert.Equal(t, record.MemberListingDayManifest, m.Kind)

	m, err = record.Parse(record.ListingMonthManifestKey(2029, 1))
	require.NoError(t, err)
	assert.Equal(t, record.MemberListingMonthManifest, m.Kind)

	m, err = record.Parse(record.ListingYearManifestKey(2029))
	require.NoError(t, err)
	assert.Equal(t, record.MemberListingYearManifest, m.Kind)
}

func TestParseRejectsUnknownShape(t *testing.T) {
	_, err := record.Parse(uri.MustParse("arxiv:///not/a/recognized/shape.txt"))
	assert.ErrorIs(t, err, record.ErrBadKey)
}
