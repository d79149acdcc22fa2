package models

// SharePayload is what the OS share sheet hands to the share-extension entry
// point. Exactly which fields are populated decides the provisional content
// type of the item being created.
type SharePayload struct {
	URL    string   `json:"url,omitempty"`
	Text   string   `json:"text,omitempty"`
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
}

// Classify maps the populated payload fields to a provisional content type:
// url → bookmark (refined later by the pipeline's detection stage),
// text → note, images → image, videos → video.
func (p SharePayload) Classify() ContentType {
	switch {
	case p.URL != "":
		return ContentTypeBookmark
	case len(p.Videos) > 0:
		return ContentTypeVideo
	case len(p.Images) > 0:
		return ContentTypeImage
	default:
		return ContentTypeNote
	}
}

// Empty reports whether the payload carries nothing usable.
func (p SharePayload) Empty() bool {
	return p.URL == "" && p.Text == "" && len(p.Images) == 0 && len(p.Videos) == 0
}
