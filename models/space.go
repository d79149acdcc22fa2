package models

import "time"

// Space is a user-defined collection of items. OrderIndex defines display
// order; values need not be contiguous, only stably sortable. Reordering
// rewrites OrderIndex for every affected space in one batch.
type Space struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Color      string     `json:"color,omitempty"`
	Desc       string     `json:"desc,omitempty"`
	OrderIndex int64      `json:"order_index"`
	IsArchived bool       `json:"is_archived"`
	IsDeleted  bool       `json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Live reports whether the space should be visible to read paths.
func (s Space) Live() bool {
	return !s.IsDeleted
}
