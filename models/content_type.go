package models

// ContentType classifies what kind of content an [Item] holds. The value is
// stored as-is in the cache and the remote store, so the string constants are
// part of the persisted schema and must not be renamed.
type ContentType string

const (
	ContentTypeBookmark ContentType = "bookmark"
	ContentTypeNote     ContentType = "note"
	ContentTypeArticle  ContentType = "article"
	ContentTypeYouTube  ContentType = "youtube"
	ContentTypeX        ContentType = "x"
	ContentTypeGitHub   ContentType = "github"
	ContentTypeReddit   ContentType = "reddit"
	ContentTypeImage    ContentType = "image"
	ContentTypePDF      ContentType = "pdf"
	ContentTypeVideo    ContentType = "video"
	ContentTypeAudio    ContentType = "audio"
	ContentTypeProduct  ContentType = "product"
)

// NeedsTranscription reports whether items of this type go through the
// transcription stage of the enrichment pipeline.
func (c ContentType) NeedsTranscription() bool {
	return c == ContentTypeYouTube || c == ContentTypeVideo || c == ContentTypeAudio
}
