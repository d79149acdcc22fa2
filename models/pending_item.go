package models

import "time"

// PendingStatus is the lifecycle state of a [PendingItem].
type PendingStatus string

const (
	PendingStatusPending    PendingStatus = "pending"
	PendingStatusProcessing PendingStatus = "processing"
	PendingStatusCompleted  PendingStatus = "completed"
	PendingStatusFailed     PendingStatus = "failed"
)

// Terminal reports whether the status can no longer advance.
func (s PendingStatus) Terminal() bool {
	return s == PendingStatusCompleted || s == PendingStatusFailed
}

// PendingItem is an ephemeral record of a just-shared item that is not yet
// confirmed to exist as a full [Item]. It lives on the cross-process shared
// queue while waiting for the main app, and in the pending tracker while the
// enrichment pipeline runs. CompletedItemID links to the real item once it
// has materialised.
type PendingItem struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	URL             string        `json:"url,omitempty"`
	Text            string        `json:"text,omitempty"`
	ContentType     ContentType   `json:"content_type"`
	Status          PendingStatus `json:"status"`
	ErrorMessage    string        `json:"error_message,omitempty"`
	CompletedItemID string        `json:"completed_item_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}
