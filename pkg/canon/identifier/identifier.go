package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/arxiv/canonical/pkg/errdefs"
	"github.com/arxiv/canonical/pkg/util/xregexp"
)

// Grammar for the two accepted identifier shapes:
//
//	old-style := category-part "/" yy mm nnn
//	new-style := yy mm "." nnnnn
//
// category-part is an archive name with an optional subject class, e.g.
// "hep-th" or "cs.DL". yy/mm are two-digit year/month; nnn/nnnnn are the
// incremental part, zero-padded.
var (
	categoryPart = xregexp.Expression(`[a-zA-Z][a-zA-Z\-]*`, xregexp.Optional(`\.`, `[a-zA-Z][a-zA-Z\-]*`))

	oldStyleRe = regexp.MustCompile(xregexp.Anchored(
		xregexp.Capture(categoryPart), `/`, xregexp.Capture(`\d{7}`),
	))
	newStyleRe = regexp.MustCompile(xregexp.Anchored(
		xregexp.Capture(`\d{4}`), `\.`, xregexp.Capture(`\d{4,5}`),
	))
)

// CategoryPartPattern returns the (non-anchored) regex fragment that
// matches an archive/subject-class pair, for callers that need to embed
// it in a larger pattern (e.g. the record package's key parser).
func CategoryPartPattern() string {
	return categoryPart
}

// Identifier is an arXiv e-print identifier, in either old-style
// ("archive[.sub]/YYMMNNN") or new-style ("YYMM.NNNNN") form. Ordering is
// total and chronological by (year, month, numeric_part).
type Identifier struct {
	raw          string
	isOldStyle   bool
	categoryPart string // only set for old-style identifiers
	year         int
	month        int
	numeric      int
}

// Parse validates and parses value as an arXiv identifier.
func Parse(value string) (Identifier, error) {
	var zero Identifier
	if m := oldStyleRe.FindStringSubmatch(value); m != nil {
		category, digits := m[1], m[2]
		yy, _ := strconv.Atoi(digits[0:2])
		mm, _ := strconv.Atoi(digits[2:4])
		num, _ := strconv.Atoi(digits[4:7])
		return Identifier{
			raw:          value,
			isOldStyle:   true,
			categoryPart: category,
			year:         expandYear(yy),
			month:        mm,
			numeric:      num,
		}, nil
	}
	if m := newStyleRe.FindStringSubmatch(value); m != nil {
		yymm, inc := m[1], m[2]
		yy, _ := strconv.Atoi(yymm[0:2])
		mm, _ := strconv.Atoi(yymm[2:4])
		num, _ := strconv.Atoi(inc)
		return Identifier{
			raw:     value,
			year:    expandYear(yy),
			month:   mm,
			numeric: num,
		}, nil
	}
	return zero, errdefs.Newf(ErrBadIdentifier, "%q is not a valid arxiv identifier", value)
}

// MustParse is like Parse but panics on error. Intended for tests and
// literal construction of known-good identifiers.
func MustParse(value string) Identifier {
	id, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

// expandYear turns a two-digit year into a four-digit one, following the
// arXiv convention that YY > 90 means 19YY, otherwise 20YY.
func expandYear(yy int) int {
	if yy > 90 {
		return 1900 + yy
	}
	return 2000 + yy
}

// String returns the canonical textual form of the identifier.
func (id Identifier) String() string {
	return id.raw
}

// IsZero reports whether id is the zero value (not a parsed identifier).
func (id Identifier) IsZero() bool {
	return id.raw == ""
}

// IsOldStyle reports whether the identifier uses the archive/YYMMNNN form.
func (id Identifier) IsOldStyle() bool {
	return id.isOldStyle
}

// Year returns the four-digit year component.
func (id Identifier) Year() int {
	return id.year
}

// Month returns the two-digit month component (1-12).
func (id Identifier) Month() int {
	return id.month
}

// NumericPart returns the incremental numeric suffix.
func (id Identifier) NumericPart() int {
	return id.numeric
}

// IncrementalPart is an alias for NumericPart.
func (id Identifier) IncrementalPart() int {
	return id.numeric
}

// CategoryPart returns the archive/category component for old-style
// identifiers, or "" for new-style identifiers.
func (id Identifier) CategoryPart() string {
	return id.categoryPart
}

// Compare returns -1, 0, or 1 if id sorts before, equal to, or after other,
// ordering chronologically by (year, month, numeric_part).
func (id Identifier) Compare(other Identifier) int {
	if id.year != other.year {
		return cmpInt(id.year, other.year)
	}
	if id.month != other.month {
		return cmpInt(id.month, other.month)
	}
	return cmpInt(id.numeric, other.numeric)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// VersionedIdentifier is an Identifier plus a positive integer version,
// serialized as "<identifier>v<n>".
type VersionedIdentifier struct {
	Identifier
	version int
}

// NewVersionedIdentifier builds a VersionedIdentifier from its parts.
func NewVersionedIdentifier(id Identifier, version int) (VersionedIdentifier, error) {
	if version < 1 {
		return VersionedIdentifier{}, errdefs.Newf(ErrBadVersion, "version must be >= 1, got %d", version)
	}
	return VersionedIdentifier{Identifier: id, version: version}, nil
}

// ParseVersioned parses a "<identifier>v<n>" string.
func ParseVersioned(value string) (VersionedIdentifier, error) {
	var zero VersionedIdentifier
	idx := strings.LastIndexByte(value, 'v')
	if idx < 0 || idx == len(value)-1 {
		return zero, errdefs.Newf(ErrBadVersion, "%q is missing a version suffix", value)
	}
	versionPart := value[idx+1:]
	version, err := strconv.Atoi(versionPart)
	if err != nil {
		return zero, errdefs.Newf(ErrBadVersion, "%q has a non-numeric version suffix", value)
	}
	id, err := Parse(value[:idx])
	if err != nil {
		return zero, err
	}
	return NewVersionedIdentifier(id, version)
}

// Version returns the positive version number.
func (vid VersionedIdentifier) Version() int {
	return vid.version
}

// String returns "<identifier>v<n>".
func (vid VersionedIdentifier) String() string {
	return fmt.Sprintf("%sv%d", vid.Identifier.String(), vid.version)
}

// MarshalText implements encoding.TextMarshaler.
func (vid VersionedIdentifier) MarshalText() ([]byte, error) {
	return []byte(vid.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (vid *VersionedIdentifier) UnmarshalText(text []byte) error {
	parsed, err := ParseVersioned(string(text))
	if err != nil {
		return err
	}
	*vid = parsed
	return nil
}

// Compare orders versioned identifiers first by their underlying
// Identifier, then by version.
func (vid VersionedIdentifier) Compare(other VersionedIdentifier) int {
	if c := vid.Identifier.Compare(other.Identifier); c != 0 {
		return c
	}
	return cmpInt(vid.version, other.version)
}
