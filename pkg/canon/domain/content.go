package domain

import (
	"path/filepath"
	"strings"

	"github.com/arxiv/canonical/pkg/canon/identifier"
	"github.com/arxiv/canonical/pkg/errdefs"
)

// ContentType enumerates the MIME-ish content categories the record deals
// in: the original source package, its dissemination formats, and
// metadata/listing payloads.
type ContentType string

const (
	ContentTypePDF    ContentType = "pdf"
	ContentTypeTarGZ  ContentType = "targz"
	ContentTypeJSON   ContentType = "json"
	ContentTypeAbs    ContentType = "abs"
	ContentTypeHTML   ContentType = "html"
	ContentTypeDVI    ContentType = "dvi"
	ContentTypePS     ContentType = "ps"
	ContentTypeUnknown ContentType = ""
)

var mimeTypes = map[ContentType]string{
	ContentTypePDF:   "application/pdf",
	ContentTypeTarGZ: "application/gzip",
	ContentTypeJSON:  "application/json",
	ContentTypeAbs:   "text/plain",
	ContentTypeHTML:  "text/html",
	ContentTypeDVI:   "application/x-dvi",
	ContentTypePS:    "application/postscript",
}

var extensions = map[ContentType]string{
	ContentTypePDF:   ".pdf",
	ContentTypeTarGZ: ".tar.gz",
	ContentTypeJSON:  ".json",
	ContentTypeAbs:   ".abs",
	ContentTypeHTML:  ".html",
	ContentTypeDVI:   ".dvi",
	ContentTypePS:    ".ps",
}

// MimeType returns the IANA media type for the content type.
func (c ContentType) MimeType() string {
	return mimeTypes[c]
}

// Ext returns the canonical filename extension, including the leading dot.
func (c ContentType) Ext() string {
	return extensions[c]
}

// ContentTypeFromExt looks up a ContentType by its filename extension.
func ContentTypeFromExt(ext string) (ContentType, error) {
	for ct, e := range extensions {
		if e == ext {
			return ct, nil
		}
	}
	return ContentTypeUnknown, errdefs.Newf(errdefs.ErrNotFound, "no content type for extension %q", ext)
}

// ContentTypeFromFilename derives a ContentType from a filename's
// extension. ".tar.gz" is checked before the single-suffix case.
func ContentTypeFromFilename(name string) (ContentType, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") {
		return ContentTypeTarGZ, nil
	}
	return ContentTypeFromExt(filepath.Ext(lower))
}

// ContentTypeFromMimeType looks up a ContentType by IANA media type.
func ContentTypeFromMimeType(mimeType string) (ContentType, error) {
	for ct, m := range mimeTypes {
		if m == mimeType {
			return ct, nil
		}
	}
	return ContentTypeUnknown, errdefs.Newf(errdefs.ErrNotFound, "no content type for mime type %q", mimeType)
}

// MakeFilename builds the conventional on-disk filename for this content
// type and version, e.g. "2901.00345v2.pdf" or, for old-style identifiers,
// "hep-th/9901007v1.pdf" (the slash of the identifier is kept).
func (c ContentType) MakeFilename(vid identifier.VersionedIdentifier) string {
	return vid.String() + c.Ext()
}

// SourceFileType is a single-character legacy code describing one aspect
// of a source package's makeup. Multiple codes combine into a SourceType.
type SourceFileType byte

const (
	SourceFileIgnore          SourceFileType = 'I'
	SourceFileEncrypted       SourceFileType = 'S'
	SourceFilePostscriptOnly  SourceFileType = 'P'
	SourceFilePDFLaTeX        SourceFileType = 'D'
	SourceFileHTML            SourceFileType = 'H'
	SourceFileAncillary       SourceFileType = 'A'
	SourceFileDCPilot         SourceFileType = 'B'
	SourceFileDOCX            SourceFileType = 'X'
	SourceFileODF             SourceFileType = 'O'
	SourceFilePDFOnly         SourceFileType = 'F'
)

// SourceType is the ordered set of SourceFileType codes that describe a
// version's source package, e.g. "D" for a plain PDFLaTeX submission or
// "DA" for PDFLaTeX with ancillary files.
type SourceType string

// Has reports whether code is present in the source type.
func (s SourceType) Has(code SourceFileType) bool {
	return strings.IndexByte(string(s), byte(code)) >= 0
}

func (s SourceType) HasDOCX() bool           { return s.Has(SourceFileDOCX) }
func (s SourceType) HasEncryptedSource() bool { return s.Has(SourceFileEncrypted) }
func (s SourceType) HasHTML() bool           { return s.Has(SourceFileHTML) }
func (s SourceType) HasIgnore() bool         { return s.Has(SourceFileIgnore) }
func (s SourceType) HasODF() bool            { return s.Has(SourceFileODF) }
func (s SourceType) HasPostscriptOnly() bool { return s.Has(SourceFilePostscriptOnly) }
func (s SourceType) HasPDFLaTeX() bool       { return s.Has(SourceFilePDFLaTeX) }
func (s SourceType) HasPDFOnly() bool        { return s.Has(SourceFilePDFOnly) }

// sourceExtFormats mirrors the legacy DISSEMINATION_FORMATS_BY_SOURCE_EXT
// table: which dissemination formats are derivable from which source
// codes, in priority order.
var sourceExtFormats = []struct {
	code    SourceFileType
	formats []ContentType
}{
	{SourceFileHTML, []ContentType{ContentTypeHTML}},
	{SourceFileDOCX, []ContentType{ContentTypePDF}},
	{SourceFileODF, []ContentType{ContentTypePDF}},
	{SourceFilePostscriptOnly, []ContentType{ContentTypePS, ContentTypePDF}},
	{SourceFilePDFOnly, []ContentType{ContentTypePDF}},
	{SourceFilePDFLaTeX, []ContentType{ContentTypePDF}},
}

// AvailableFormats derives the dissemination formats obtainable from this
// source type. Encrypted and ignored sources yield nothing; otherwise
// every matching code in the table contributes its formats, deduplicated
// in first-seen order. A source with none of the recognized codes falls
// back to ContentTypeDVI, matching the legacy default for plain TeX.
func (s SourceType) AvailableFormats() []ContentType {
	if s.HasEncryptedSource() || s.HasIgnore() {
		return nil
	}
	seen := make(map[ContentType]struct{})
	var out []ContentType
	for _, entry := range sourceExtFormats {
		if !s.Has(entry.code) {
			continue
		}
		for _, f := range entry.formats {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = []ContentType{ContentTypeDVI}
	}
	return out
}
