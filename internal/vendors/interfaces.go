// Package vendors contains the clients for the external content-enrichment
// services the pipeline calls: metadata extraction, media transcription,
// language-model summarization and public social-post APIs. Each client is a
// thin resty wrapper with its own timeout; callers decide retry and fallback
// policy beyond what the client itself guarantees.
package vendors

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_vendors.go -package=mock

// Metadata is the normalized result of a metadata extraction call.
type Metadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Content      string `json:"content"`
	SiteName     string `json:"site_name"`
}

// Extractor fetches page metadata for a URL.
// Реализация обязана иметь жёсткий таймаут и не более одного повтора:
// при исчерпании попыток конвейер переходит на локальный fallback.
type Extractor interface {
	Extract(ctx context.Context, pageURL string, contentType string) (Metadata, error)
}

// TranscriptJob is the state of one transcription job.
type TranscriptJob struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Text          string `json:"text"`
	TranscriptURL string `json:"transcript_url"`
	Error         string `json:"error"`
}

// Transcriber submits media transcription jobs and polls their state.
type Transcriber interface {
	SubmitJob(ctx context.Context, mediaURL string) (string, error)
	GetJob(ctx context.Context, jobID string) (TranscriptJob, error)
}

// Summarizer produces a short summary for the given source text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// SocialPost is the subset of a public social post the pipeline consumes.
type SocialPost struct {
	Text   string   `json:"text"`
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// SocialClient resolves short links and reads public post JSON.
type SocialClient interface {
	ResolveRedirect(ctx context.Context, shortURL string) (string, error)
	FetchPost(ctx context.Context, postURL string) (SocialPost, error)
}

// job statuses reported by the transcription vendor
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusError      = "error"
)
