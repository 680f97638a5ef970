package domain

// Category is an arXiv subject classification, e.g. "cs.DL" or "hep-th".
// It is validated against the identifier package's category grammar at
// the boundary (submission agents), not here.
type Category string

// Metadata is the submitter-provided descriptive content of a version:
// title, abstract, authors, and classification. It does not change once
// a version is announced except through an update-family event, which
// amends the existing Version in place rather than creating a new one.
type Metadata struct {
	PrimaryClassification   Category   `json:"primary_classification"`
	SecondaryClassification []Category `json:"secondary_classification"`
	Title                   string     `json:"title"`
	Abstract                string     `json:"abstract"`
	Authors                 string     `json:"authors"`
	License                 License    `json:"license"`
	Comments                string     `json:"comments,omitempty"`
	JournalRef              string     `json:"journal_ref,omitempty"`
	ReportNum               string     `json:"report_num,omitempty"`
	DOI                     string     `json:"doi,omitempty"`
	MSCClass                string     `json:"msc_class,omitempty"`
	ACMClass                string     `json:"acm_class,omitempty"`
}

// AllCategories returns the primary classification followed by every
// secondary (cross-list) classification.
func (m Metadata) AllCategories() []Category {
	out := make([]Category, 0, 1+len(m.SecondaryClassification))
	out = append(out, m.PrimaryClassification)
	out = append(out, m.SecondaryClassification...)
	return out
}

// WithSecondaries returns a copy of m with any of the given categories
// not already present appended to SecondaryClassification, preserving
// order and skipping duplicates. This is how a cross-list (cross) event
// is applied to a version's metadata.
func (m Metadata) WithSecondaries(categories ...Category) Metadata {
	existing := make(map[Category]struct{}, len(m.SecondaryClassification))
	for _, c := range m.SecondaryClassification {
		existing[c] = struct{}{}
	}
	next := make([]Category, len(m.SecondaryClassification), len(m.SecondaryClassification)+len(categories))
	copy(next, m.SecondaryClassification)
	for _, c := range categories {
		if _, ok := existing[c]; ok {
			continue
		}
		existing[c] = struct{}{}
		next = append(next, c)
	}
	m.SecondaryClassification = next
	return m
}
