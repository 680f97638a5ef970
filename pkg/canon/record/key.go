package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/canon/uri"
)

// Key is a URI scoped to the arxiv:// scheme: a canonical position in the
// record, independent of where the bytes it names are physically stored.
type Key = uri.URI

// newKey builds a Key from path segments, joined with "/" and rooted at
// "arxiv:///".
func newKey(segments ...string) Key {
	return uri.MustParse("arxiv:///" + strings.Join(segments, "/"))
}

// eprintSegments returns the directory segments and base filename stem
// for an e-print identifier. Both styles live under their announcement
// year/month; old-style ids additionally split into a category directory
// with the bare digits as the stem, matching the legacy on-disk layout.
func eprintSegments(id identifier.Identifier) (dir []string, base string) {
	raw := id.String()
	datePart := []string{fmt.Sprintf("%04d", id.Year()), fmt.Sprintf("%02d", id.Month())}
	if id.IsOldStyle() {
		category, digits, _ := strings.Cut(raw, "/")
		return append(datePart, category), digits
	}
	return datePart, raw
}

// EPrintDir is the directory holding every version of an e-print.
func EPrintDir(id identifier.Identifier) string {
	dir, base := eprintSegments(id)
	return strings.Join(append(append([]string{"e-prints"}, dir...), base), "/")
}

// VersionDir is the directory holding one version's members.
func VersionDir(vid identifier.VersionedIdentifier) string {
	return fmt.Sprintf("%s/v%d", EPrintDir(vid.Identifier), vid.Version())
}

func versionBase(vid identifier.VersionedIdentifier) string {
	_, base := eprintSegments(vid.Identifier)
	return fmt.Sprintf("%sv%d", base, vid.Version())
}

// VersionMetadataKey is the key of a version's metadata JSON blob.
func VersionMetadataKey(vid identifier.VersionedIdentifier) Key {
	return newKey(VersionDir(vid), versionBase(vid)+".json")
}

// VersionFileKey is the key of an arbitrary named member file belonging
// to a version: its source package, render, or a dissemination format.
func VersionFileKey(vid identifier.VersionedIdentifier, filename string) Key {
	return newKey(VersionDir(vid), filename)
}

// VersionManifestKey is the key of a version's own manifest.
func VersionManifestKey(vid identifier.VersionedIdentifier) Key {
	return newKey(VersionDir(vid), fmt.Sprintf("v%d.manifest.json", vid.Version()))
}

// EPrintManifestKey is the key of the manifest rolling up all of an
// e-print's versions.
func EPrintManifestKey(id identifier.Identifier) Key {
	dir, base := eprintSegments(id)
	return newKey(append(append([]string{"e-prints"}, dir...), base+".manifest.json")...)
}

// DayManifestKey is the key of the manifest rolling up every e-print
// announced on date, within its month.
func DayManifestKey(date time.Time) Key {
	return newKey(fmt.Sprintf("e-prints/%04d/%02d/%04d-%02d-%02d.manifest.json",
		date.Year(), date.Month(), date.Year(), date.Month(), date.Day()))
}

// MonthManifestKey is the key of the manifest rolling up a whole month.
func MonthManifestKey(year, month int) Key {
	return newKey(fmt.Sprintf("e-prints/%04d/%04d-%02d.manifest.json", year, year, month))
}

// YearManifestKey is the key of the manifest rolling up a whole year.
func YearManifestKey(year int) Key {
	return newKey(fmt.Sprintf("e-prints/%04d.manifest.json", year))
}

// EPrintsManifestKey is the key of the manifest rolling up every e-print
// ever announced.
func EPrintsManifestKey() Key {
	return newKey("e-prints.manifest.json")
}

// AnnouncementManifestKey is the key of the manifest rolling up every
// listing ever produced.
func AnnouncementManifestKey() Key {
	return newKey("announcement.manifest.json")
}

// GlobalManifestKey is the key of the manifest covering the entire
// record: e-prints and announcements together.
func GlobalManifestKey() Key {
	return newKey("global.manifest.json")
}

// ListingKey is the key of a single day's listing file.
func ListingKey(lid identifier.ListingIdentifier) Key {
	y, m, d := lid.Date.Date()
	return newKey(fmt.Sprintf("announcement/%04d/%02d/%02d/%s.json", y, m, d, lid.String()))
}

// ListingDayManifestKey is the key of the manifest rolling up every
// listing shard produced on date.
func ListingDayManifestKey(date time.Time) Key {
	return newKey(fmt.Sprintf("announcement/%04d/%02d/%04d-%02d-%02d.manifest.json",
		date.Year(), date.Month(), date.Year(), date.Month(), date.Day()))
}

// ListingMonthManifestKey is the key of the manifest rolling up a whole
// month of listings.
func ListingMonthManifestKey(year, month int) Key {
	return newKey(fmt.Sprintf("announcement/%04d/%04d-%02d.manifest.json", year, year, month))
}

// ListingYearManifestKey is the key of the manifest rolling up a whole
// year of listings.
func ListingYearManifestKey(year int) Key {
	return newKey(fmt.Sprintf("announcement/%04d.manifest.json", year))
}
