package models

import "encoding/json"

// EventType is the kind of change a realtime event describes.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Watched table names carried in [ChangeEvent.Table].
const (
	TableItems  = "items"
	TableSpaces = "spaces"
)

// ChangeEvent is one push notification from the remote store's realtime
// feed, scoped to a single row of a watched table. New carries the row after
// the change, Old the row before it; either may be empty depending on the
// event type. Events for one row must be applied in the order received.
type ChangeEvent struct {
	Table     string          `json:"table"`
	EventType EventType       `json:"type"`
	New       json.RawMessage `json:"record,omitempty"`
	Old       json.RawMessage `json:"old_record,omitempty"`
}

// DecodeItem unmarshals ev.New (or ev.Old for deletes, when New is absent)
// into an Item.
func (ev ChangeEvent) DecodeItem() (Item, error) {
	var item Item
	raw := ev.New
	if len(raw) == 0 {
		raw = ev.Old
	}
	err := json.Unmarshal(raw, &item)
	return item, err
}

// DecodeSpace unmarshals ev.New (or ev.Old for deletes, when New is absent)
// into a Space.
func (ev ChangeEvent) DecodeSpace() (Space, error) {
	var space Space
	raw := ev.New
	if len(raw) == 0 {
		raw = ev.Old
	}
	err := json.Unmarshal(raw, &space)
	return space, err
}
