package domain

import (
	"time"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// EPrint is the full history of an e-print: every Version announced for
// it, oldest first. It has no independent state beyond its Versions; an
// EPrint's manifest is derived entirely from its members.
type EPrint struct {
	Identifier identifier.Identifier `json:"identifier"`
	Versions   []Version             `json:"versions"`
}

// AnnouncedDate is the date the first version was announced, i.e. the
// e-print's original announcement date.
func (e EPrint) AnnouncedDate() (time.Time, error) {
	if len(e.Versions) == 0 {
		return time.Time{}, errdefs.Newf(errdefs.ErrNotFound, "eprint %s has no versions", e.Identifier)
	}
	return e.Versions[0].AnnouncedDate, nil
}

// IsWithdrawn reports whether the most recent version is a withdrawal.
func (e EPrint) IsWithdrawn() bool {
	if len(e.Versions) == 0 {
		return false
	}
	return e.Versions[len(e.Versions)-1].IsWithdrawn
}

// SizeKilobytes is the size of the most recent version's source package.
func (e EPrint) SizeKilobytes() int {
	if len(e.Versions) == 0 {
		return 0
	}
	return e.Versions[len(e.Versions)-1].SizeKilobytes()
}

// Latest returns the most recently announced version.
func (e EPrint) Latest() (Version, error) {
	if len(e.Versions) == 0 {
		return Version{}, errdefs.Newf(errdefs.ErrNotFound, "eprint %s has no versions", e.Identifier)
	}
	return e.Versions[len(e.Versions)-1], nil
}

// NumberOfVersions reports how many versions this e-print has.
func (e EPrint) NumberOfVersions() int {
	return len(e.Versions)
}
