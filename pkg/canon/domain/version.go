package domain

import (
	"time"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// VersionReference is an abridged pointer to a previously announced
// Version, carried by later versions so a reader can walk history
// without loading every full Version.
type VersionReference struct {
	Identifier    identifier.VersionedIdentifier `json:"identifier"`
	AnnouncedDate time.Time                      `json:"announced_date"`
	SubmittedDate time.Time                      `json:"submitted_date"`
}

// Version is a single announced (or pending) state of an e-print. Each
// event that is_new_version (new, replace, withdraw) produces a new
// Version; metadata-only and cross-list events amend the current
// version's Metadata/events in place without changing its identity.
type Version struct {
	Identifier          identifier.VersionedIdentifier `json:"identifier"`
	AnnouncedDate       time.Time                      `json:"announced_date"`
	AnnouncedDateFirst  time.Time                      `json:"announced_date_first"`
	SubmittedDate       time.Time                      `json:"submitted_date"`
	UpdatedDate         time.Time                      `json:"updated_date"`
	Metadata            Metadata                       `json:"metadata"`
	Events              []EventSummary                 `json:"events"`
	PreviousVersions    []VersionReference              `json:"previous_versions"`
	Submitter           *Person                         `json:"submitter,omitempty"`
	Proxy               string                          `json:"proxy,omitempty"`
	IsAnnounced         bool                            `json:"is_announced"`
	IsWithdrawn         bool                            `json:"is_withdrawn"`
	ReasonForWithdrawal string                          `json:"reason_for_withdrawal,omitempty"`
	IsLegacy            bool                            `json:"is_legacy"`
	Source              CanonicalFile                   `json:"source"`
	Render              *CanonicalFile                  `json:"render,omitempty"`
	SourceType          SourceType                      `json:"source_type,omitempty"`
	Formats             map[ContentType]CanonicalFile   `json:"formats"`
}

// NumberOfEvents is always 0 for a Version; it exists so Version and
// EPrint/Listing share a shape when a caller wants a uniform "how much
// happened here" count across collection levels.
func (Version) NumberOfEvents() int { return 0 }

// NumberOfVersions is always 1 for a single Version.
func (Version) NumberOfVersions() int { return 1 }

// SizeKilobytes is the size of the source package, in kilobytes,
// matching the legacy convention of dividing by 1028 rather than 1024.
func (v Version) SizeKilobytes() int {
	return int((v.Source.SizeBytes + 514) / 1028)
}

// Format returns the requested dissemination format for this version.
// "source" and "render" are handled specially since they are not keyed
// in Formats; every other name is looked up as a ContentType.
func (v Version) Format(name string) (CanonicalFile, error) {
	switch name {
	case "source":
		return v.Source, nil
	case "render":
		if v.Render != nil {
			return *v.Render, nil
		}
	}
	ct, err := ContentTypeFromExt(name)
	if err != nil {
		ct = ContentType(name)
	}
	if _, known := mimeTypes[ct]; !known {
		return CanonicalFile{}, errdefs.Newf(ErrUnknownFormat, "unknown dissemination format %q", name)
	}
	cf, ok := v.Formats[ct]
	if !ok {
		return CanonicalFile{}, errdefs.Newf(ErrFormatNotAvailable, "format %q not available for %s", name, v.Identifier)
	}
	return cf, nil
}
