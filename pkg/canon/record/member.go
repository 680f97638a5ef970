package record

import "github.com/arxiv/canonical/pkg/canon/identifier"

// MemberKind discriminates the shape of a parsed Member.
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	MemberVersionMetadata
	MemberVersionFile
	MemberVersionManifest
	MemberEPrintManifest
	MemberDayManifest
	MemberMonthManifest
	MemberYearManifest
	MemberEPrintsManifest
	MemberAnnouncementManifest
	MemberGlobalManifest
	MemberListing
	MemberListingDayManifest
	MemberListingMonthManifest
	MemberListingYearManifest
)

// Member is the result of parsing a Key: the kind of record-hierarchy
// entity it names, plus whichever of the following fields apply to that
// kind. Exactly one of VersionID/EPrintID/ListingID is meaningful for
// most kinds; Year/Month/Day are meaningful for the manifest kinds that
// roll up a date range.
type Member struct {
	Kind      MemberKind
	VersionID identifier.VersionedIdentifier
	EPrintID  identifier.Identifier
	ListingID identifier.ListingIdentifier
	Filename  string
	Year      int
	Month     int
	Day       int
}
