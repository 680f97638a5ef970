package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xregexp"
)

var (
	category = identifier.CategoryPartPattern()

	// eprintNewDir captures (year, month, full-new-style-id).
	eprintNewDir = xregexp.Expression(`(\d{4})`, `/`, `(\d{2})`, `/`, `(\d{4}\.\d{4,5})`)
	// eprintOldDir captures (year, month, category, 7-digit-numeric).
	eprintOldDir = xregexp.Expression(`(\d{4})`, `/`, `(\d{2})`, `/`, `(`+category+`)`, `/`, `(\d{7})`)

	globalManifestRe       = regexp.MustCompile(`^global\.manifest\.json$`)
	eprintsManifestRe      = regexp.MustCompile(`^e-prints\.manifest\.json$`)
	announcementManifestRe = regexp.MustCompile(`^announcement\.manifest\.json$`)

	eprintsYearManifestRe  = regexp.MustCompile(`^e-prints/(\d{4})\.manifest\.json$`)
	eprintsMonthManifestRe = regexp.MustCompile(`^e-prints/(\d{4})/(\d{4})-(\d{2})\.manifest\.json$`)
	eprintsDayManifestRe   = regexp.MustCompile(`^e-prints/(\d{4})/(\d{2})/(\d{4})-(\d{2})-(\d{2})\.manifest\.json$`)

	listingYearManifestRe  = regexp.MustCompile(`^announcement/(\d{4})\.manifest\.json$`)
	listingMonthManifestRe = regexp.MustCompile(`^announcement/(\d{4})/(\d{4})-(\d{2})\.manifest\.json$`)
	listingDayManifestRe   = regexp.MustCompile(`^announcement/(\d{4})/(\d{2})/(\d{4})-(\d{2})-(\d{2})\.manifest\.json$`)
	listingRe              = regexp.MustCompile(`^announcement/(\d{4})/(\d{2})/(\d{2})/(\d{4}-\d{2}-\d{2}-[a-zA-Z0-9_-]+)\.json$`)

	eprintManifestNewRe = regexp.MustCompile(`^e-prints/` + eprintNewDir + `\.manifest\.json$`)
	eprintManifestOldRe = regexp.MustCompile(`^e-prints/` + eprintOldDir + `\.manifest\.json$`)

	versionDirNewRe = regexp.MustCompile(`^e-prints/` + eprintNewDir + `/v(\d+)/(.+)$`)
	versionDirOldRe = regexp.MustCompile(`^e-prints/` + eprintOldDir + `/v(\d+)/(.+)$`)
)

// Parse is the exact inverse of the key-construction functions above: it
// recovers the typed Member a Key names. It never inspects storage; it
// works purely from the key's path shape.
func Parse(key Key) (Member, error) {
	path := strings.TrimPrefix(key.Path(), "/")

	switch {
	case globalManifestRe.MatchString(path):
		return Member{Kind: MemberGlobalManifest}, nil
	case eprintsManifestRe.MatchString(path):
		return Member{Kind: MemberEPrintsManifest}, nil
	case announcementManifestRe.MatchString(path):
		return Member{Kind: MemberAnnouncementManifest}, nil
	}

	if m := eprintsYearManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberYearManifest, Year: atoi(m[1])}, nil
	}
	if m := eprintsMonthManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberMonthManifest, Year: atoi(m[1]), Month: atoi(m[3])}, nil
	}
	if m := eprintsDayManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberDayManifest, Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[5])}, nil
	}
	if m := listingYearManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberListingYearManifest, Year: atoi(m[1])}, nil
	}
	if m := listingMonthManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberListingMonthManifest, Year: atoi(m[1]), Month: atoi(m[3])}, nil
	}
	if m := listingDayManifestRe.FindStringSubmatch(path); m != nil {
		return Member{Kind: MemberListingDayManifest, Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[5])}, nil
	}
	if m := listingRe.FindStringSubmatch(path); m != nil {
		lid, err := parseListingStem(m[4])
		if err != nil {
			return Member{}, err
		}
		return Member{Kind: MemberListing, ListingID: lid, Year: atoi(m[1]), Month: atoi(m[2]), Day: atoi(m[3])}, nil
	}
	if m := eprintManifestNewRe.FindStringSubmatch(path); m != nil {
		id, err := identifier.Parse(m[3])
		if err != nil {
			return Member{}, errdefs.NewE(ErrBadKey, err)
		}
		return Member{Kind: MemberEPrintManifest, EPrintID: id, Year: atoi(m[1]), Month: atoi(m[2])}, nil
	}
	if m := eprintManifestOldRe.FindStringSubmatch(path); m != nil {
		id, err := identifier.Parse(m[3] + "/" + m[4])
		if err != nil {
			return Member{}, errdefs.NewE(ErrBadKey, err)
		}
		return Member{Kind: MemberEPrintManifest, EPrintID: id, Year: atoi(m[1]), Month: atoi(m[2])}, nil
	}
	if m := versionDirNewRe.FindStringSubmatch(path); m != nil {
		return parseVersionTail(m[3], m[4], m[5])
	}
	if m := versionDirOldRe.FindStringSubmatch(path); m != nil {
		return parseVersionTail(m[3]+"/"+m[4], m[5], m[6])
	}

	return Member{}, errdefs.Newf(ErrBadKey, "%q does not match any known record member shape", path)
}

// parseVersionTail interprets the "v<n>/<rest>" tail common to version
// metadata, version manifests, and arbitrary version member files.
func parseVersionTail(rawID, versionStr, rest string) (Member, error) {
	id, err := identifier.Parse(rawID)
	if err != nil {
		return Member{}, errdefs.NewE(ErrBadKey, err)
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return Member{}, errdefs.Newf(ErrBadKey, "bad version number %q", versionStr)
	}
	vid, err := identifier.NewVersionedIdentifier(id, version)
	if err != nil {
		return Member{}, errdefs.NewE(ErrBadKey, err)
	}

	base := versionBase(vid)
	switch rest {
	case fmt.Sprintf("v%d.manifest.json", version):
		return Member{Kind: MemberVersionManifest, VersionID: vid}, nil
	case base + ".json":
		return Member{Kind: MemberVersionMetadata, VersionID: vid}, nil
	default:
		return Member{Kind: MemberVersionFile, VersionID: vid, Filename: rest}, nil
	}
}

func parseListingStem(stem string) (identifier.ListingIdentifier, error) {
	parts := strings.SplitN(stem, "-", 4)
	if len(parts) != 4 {
		return identifier.ListingIdentifier{}, errdefs.Newf(ErrBadKey, "%q is not a valid listing stem", stem)
	}
	year, yerr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	day, derr := strconv.Atoi(parts[2])
	if yerr != nil || merr != nil || derr != nil {
		return identifier.ListingIdentifier{}, errdefs.Newf(ErrBadKey, "%q is not a valid listing stem", stem)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return identifier.NewListingIdentifier(date, parts[3]), nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
