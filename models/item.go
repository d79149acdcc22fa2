package models

import "time"

// Item is a saved unit of content: a bookmark, a note, a media file and so
// on. The same JSON shape travels to the remote store and into the local
// cache collections, so field tags are part of the persisted schema.
//
// Deletion is always a soft delete: IsDeleted and DeletedAt are set, the row
// stays in both stores so other devices learn of the deletion through the
// realtime feed.
type Item struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	URL          string      `json:"url,omitempty"`
	Title        string      `json:"title"`
	ContentType  ContentType `json:"content_type"`
	Desc         string      `json:"desc,omitempty"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	Content      string      `json:"content,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	SpaceID      *string     `json:"space_id,omitempty"`

	// Pipeline-derived fields. Populated progressively by the enrichment
	// stages; any of them may stay empty if a stage failed or was skipped.
	TLDR          string `json:"tldr,omitempty"`
	TranscriptURL string `json:"transcript_url,omitempty"`
	ImageDescURL  string `json:"image_desc_url,omitempty"`

	IsArchived bool       `json:"is_archived"`
	IsDeleted  bool       `json:"is_deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Live reports whether the item should be visible to read paths: not
// tombstoned. Read paths must filter with Live rather than rely on absence.
func (i Item) Live() bool {
	return !i.IsDeleted
}
