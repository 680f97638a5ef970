package domain

import "time"

// Listing is the collection of announcement events that occurred on a
// single day, in the order they were applied. Unlike Version.Events
// (which only ever keeps a summary), a listing stores the full Event,
// including its Version snapshot, so an event looked up later by its
// identifier comes back structurally equal to the one that was applied.
type Listing struct {
	Date   time.Time `json:"date"`
	Events []Event   `json:"events"`
}

// NumberOfEvents reports how many events occurred on this day.
func (l Listing) NumberOfEvents() int {
	return len(l.Events)
}
