package domain

import (
	"time"

	"github.com/arxiv/canonical/pkg/canon/identifier"
)

// EventType enumerates the kinds of announcement events the register
// understands. Go string values match the legacy event log's codes so
// backfill data can be loaded without a translation table.
type EventType string

const (
	EventTypeNew              EventType = "new"
	EventTypeUpdated          EventType = "update"
	EventTypeUpdatedMetadata  EventType = "update_metadata"
	EventTypeReplaced         EventType = "replace"
	EventTypeCrosslist        EventType = "cross"
	EventTypeJref             EventType = "jref" // Deprecated.
	EventTypeWithdrawn        EventType = "withdraw"
	EventTypeMigrate          EventType = "migrate"
	EventTypeMigrateMetadata  EventType = "migrate_metadata"
)

// IsNewVersion reports whether this event type results in a new Version
// being appended to the e-print's history, as opposed to amending the
// current version in place.
func (t EventType) IsNewVersion() bool {
	switch t {
	case EventTypeNew, EventTypeReplaced, EventTypeWithdrawn:
		return true
	default:
		return false
	}
}

// eventCore holds the fields shared by Event and EventSummary.
type eventCore struct {
	Identifier  identifier.VersionedIdentifier `json:"identifier"`
	EventDate   time.Time                      `json:"event_date"`
	EventType   EventType                      `json:"event_type"`
	Categories  []Category                     `json:"categories"`
	Description string                         `json:"description"`
	IsLegacy    bool                            `json:"is_legacy"`
	EventAgent  string                          `json:"event_agent,omitempty"`
}

// DefaultShard is the listing shard every Event currently resolves to.
// The field exists on Event so a future sharding policy (by category, by
// event type) can vary it without changing the event's shape.
const DefaultShard = identifier.DefaultShard

// Event is a full announcement-related event: the event's own metadata
// plus the resulting state of the version it pertains to.
type Event struct {
	eventCore
	Version Version `json:"version"`
	Shard   string  `json:"shard,omitempty"`
}

// NewEvent builds an Event, defaulting Shard to DefaultShard.
func NewEvent(id identifier.VersionedIdentifier, eventDate time.Time, eventType EventType, version Version) Event {
	return Event{
		eventCore: eventCore{
			Identifier: id,
			EventDate:  eventDate,
			EventType:  eventType,
		},
		Version: version,
		Shard:   DefaultShard,
	}
}

// EventID returns the unique, reversible identifier for this event.
func (e Event) EventID() identifier.EventIdentifier {
	shard := e.Shard
	if shard == "" {
		shard = DefaultShard
	}
	return identifier.NewEventIdentifier(e.Identifier, e.EventDate, shard)
}

// Summary reduces this Event to an EventSummary, dropping the (large)
// version state but keeping the event's own identity.
func (e Event) Summary() EventSummary {
	return EventSummary{
		eventCore: e.eventCore,
		EventID:   e.EventID(),
	}
}

// EventSummary carries everything about an Event except the full version
// state. It is what gets attached to a Version's Events field and what
// the register's event-history loaders yield; a listing holds full Events.
type EventSummary struct {
	eventCore
	EventID identifier.EventIdentifier `json:"event_id"`
}
