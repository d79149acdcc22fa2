package vendors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── extractor ────────────────────────────────────────────────────────────────

func TestExtractor_Extract(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v0/extract", r.URL.Path)
		assert.Equal(t, "Bearer ex-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Metadata{
			Title:        "Example Title",
			Description:  "Example description",
			ThumbnailURL: "https://cdn.example/x.png",
		})
	}))
	defer srv.Close()

	meta, err := NewExtractor(srv.URL, "ex-key").Extract(context.Background(), "https://example.com/post", "article")
	require.NoError(t, err)
	assert.Equal(t, "Example Title", meta.Title)
	assert.Equal(t, "https://example.com/post", gotBody["url"])
	assert.Equal(t, "article", gotBody["content_type"])
}

func TestExtractor_RetriesOnceOnServerError(t *testing.T) {
	// первый ответ 500, второй успешный: клиент обязан повторить ровно один раз
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(Metadata{Title: "after retry"})
	}))
	defer srv.Close()

	meta, err := NewExtractor(srv.URL, "").Extract(context.Background(), "https://example.com", "bookmark")
	require.NoError(t, err)
	assert.Equal(t, "after retry", meta.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExtractor_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewExtractor(srv.URL, "").Extract(context.Background(), "https://example.com", "bookmark")
	require.ErrorIs(t, err, ErrRateLimited)
}

// ── transcriber ──────────────────────────────────────────────────────────────

func TestTranscriber_SubmitAndPoll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			assert.Equal(t, "tr-key", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(TranscriptJob{ID: "job-1", Status: JobStatusQueued})
		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/job-1":
			_ = json.NewEncoder(w).Encode(TranscriptJob{ID: "job-1", Status: JobStatusCompleted, Text: "hello world"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tr := NewTranscriber(srv.URL, "tr-key")

	jobID, err := tr.SubmitJob(context.Background(), "https://cdn.example/talk.mp4")
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)

	job, err := tr.GetJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, "hello world", job.Text)
}

func TestTranscriber_JobFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TranscriptJob{ID: "job-2", Status: JobStatusError, Error: "unsupported codec"})
	}))
	defer srv.Close()

	_, err := NewTranscriber(srv.URL, "").GetJob(context.Background(), "job-2")
	require.ErrorIs(t, err, ErrJobFailed)
	assert.Contains(t, err.Error(), "unsupported codec")
}

// ── summarizer ───────────────────────────────────────────────────────────────

func TestSummarizer_Summarize(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  A short TLDR.  "}},
			},
		})
	}))
	defer srv.Close()

	got, err := NewSummarizer(srv.URL, "llm-key", "gpt-4o-mini").Summarize(context.Background(), "long transcript")
	require.NoError(t, err)
	assert.Equal(t, "A short TLDR.", got)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "long transcript", gotReq.Messages[1].Content)
}

func TestSummarizer_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	_, err := NewSummarizer(srv.URL, "", "m").Summarize(context.Background(), "text")
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

// ── social ───────────────────────────────────────────────────────────────────

func TestSocialClient_ResolveRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://social.example/u/author/status/42", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	got, err := NewSocialClient().ResolveRedirect(context.Background(), srv.URL+"/t/AbCdEf")
	require.NoError(t, err)
	assert.Equal(t, "https://social.example/u/author/status/42", got)
}

func TestSocialClient_ResolveRedirect_NoRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	target := srv.URL + "/u/author/status/42"
	got, err := NewSocialClient().ResolveRedirect(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestSocialClient_FetchPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/u/author/status/42.json", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SocialPost{
			Text:   "post body",
			Images: []string{"https://cdn.example/a.jpg"},
			Videos: []string{"https://cdn.example/b.mp4"},
		})
	}))
	defer srv.Close()

	post, err := NewSocialClient().FetchPost(context.Background(), srv.URL+"/u/author/status/42")
	require.NoError(t, err)
	assert.Equal(t, "post body", post.Text)
	assert.Len(t, post.Images, 1)
	assert.Len(t, post.Videos, 1)
}

func TestJSONEndpoint_AlreadyJSON(t *testing.T) {
	assert.Equal(t, "https://x/p.json", jsonEndpoint("https://x/p.json"))
	assert.Equal(t, "https://x/p.json", jsonEndpoint("https://x/p/"))
}
