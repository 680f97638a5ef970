package integrity

import (
	"sort"

	"github.com/arxiv/canonical/pkg/errdefs"
)

// ManifestEntry is one child's row in a Manifest: its key, checksum, and
// whichever optional aggregated/per-file counters apply at this level.
type ManifestEntry struct {
	Key                  string         `json:"key"`
	Checksum             Checksum       `json:"checksum"`
	SizeBytes            int64          `json:"size_bytes,omitempty"`
	MimeType             string         `json:"mime_type,omitempty"`
	NumberOfVersions     int            `json:"number_of_versions,omitempty"`
	NumberOfEvents       int            `json:"number_of_events,omitempty"`
	NumberOfEventsByType map[string]int `json:"number_of_events_by_type,omitempty"`
}

// Manifest is the serialized form of an integrity collection: its
// sorted-by-key entries, plus counters rolled up additively from them.
// Manifests are themselves addressable bitstreams with their own key.
type Manifest struct {
	Entries              []ManifestEntry `json:"entries"`
	NumberOfEvents        int            `json:"number_of_events"`
	NumberOfVersions      int            `json:"number_of_versions"`
	NumberOfEventsByType  map[string]int `json:"number_of_events_by_type,omitempty"`
}

// NewManifest returns an empty Manifest ready for Upsert calls.
func NewManifest() Manifest {
	return Manifest{NumberOfEventsByType: map[string]int{}}
}

// Sort orders Entries by key, the form required before serialization so
// the byte representation is deterministic.
func (m *Manifest) Sort() {
	sort.Slice(m.Entries, func(i, j int) bool { return m.Entries[i].Key < m.Entries[j].Key })
}

// Find returns the entry for key, if present.
func (m Manifest) Find(key string) (ManifestEntry, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// Upsert inserts entry, or replaces the existing entry with the same
// key, then re-sorts and rolls the counters up from scratch.
func (m *Manifest) Upsert(entry ManifestEntry) {
	replaced := false
	for i, e := range m.Entries {
		if e.Key == entry.Key {
			m.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		m.Entries = append(m.Entries, entry)
	}
	m.Sort()
	m.rollUpCounters()
}

// Remove deletes the entry for key, if present, re-rolling counters.
func (m *Manifest) Remove(key string) bool {
	for i, e := range m.Entries {
		if e.Key == key {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			m.rollUpCounters()
			return true
		}
	}
	return false
}

func (m *Manifest) rollUpCounters() {
	m.NumberOfEvents = 0
	m.NumberOfVersions = 0
	byType := map[string]int{}
	for _, e := range m.Entries {
		m.NumberOfEvents += e.NumberOfEvents
		m.NumberOfVersions += e.NumberOfVersions
		for t, n := range e.NumberOfEventsByType {
			byType[t] += n
		}
	}
	m.NumberOfEventsByType = byType
}

// Checksum computes the manifest's own checksum: the roll-up of its
// entries' checksums, keyed by entry key. It is an error for any entry
// to carry an empty checksum.
func (m Manifest) Checksum() (Checksum, error) {
	keyed := make(map[string]Checksum, len(m.Entries))
	for _, e := range m.Entries {
		if e.Checksum == "" {
			return "", errdefs.Newf(ErrMissingChecksum, "entry %q has no checksum", e.Key)
		}
		keyed[e.Key] = e.Checksum
	}
	return RollUp(keyed), nil
}

// Validate recomputes the manifest's checksum and compares it to want,
// the value recorded by its parent.
func (m Manifest) Validate(want Checksum) error {
	got, err := m.Checksum()
	if err != nil {
		return err
	}
	if got != want {
		return errdefs.Newf(errdefs.ErrChecksumMismatch, "manifest checksum mismatch: got %s, want %s", got, want)
	}
	return nil
}
