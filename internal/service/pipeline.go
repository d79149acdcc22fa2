// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/internal/vendors"
	"github.com/MKhiriev/go-mind-keeper/models"
)

const (
	// Transcription polling: fixed interval, bounded attempts, 10 minute
	// wall ceiling. Exceeding the ceiling is a timeout failure of the
	// stage, never an unbounded wait.
	transcribePollInterval = 5 * time.Second
	transcribePollAttempts = 120

	// summaryContextLimit bounds the text handed to the language model.
	summaryContextLimit = 8000

	transcriptBucket = "transcripts"
	imageDescBucket  = "image-descriptions"
)

// ErrTranscriptionTimeout marks a transcription poll that exhausted its
// attempt budget before the job reached a terminal status.
var ErrTranscriptionTimeout = errors.New("transcription polling timed out")

// PipelineVendors bundles the enrichment vendor clients the pipeline calls.
// Primary and Fallback are the two metadata providers; the preference flag
// picks which one serves a run.
type PipelineVendors struct {
	Primary     vendors.Extractor
	Fallback    vendors.Extractor
	Transcriber vendors.Transcriber
	Summarizer  vendors.Summarizer
	Social      vendors.SocialClient
}

type enrichmentPipeline struct {
	engine   SyncEngine
	cache    store.CacheStore
	remote   adapter.RemoteStore
	vendors  PipelineVendors
	settings Settings
	log      *logger.Logger

	pollInterval time.Duration
	pollAttempts int

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPipeline constructs the enrichment pipeline. The settings accessor is
// injected so the pipeline never reaches for preferences through a global.
func NewPipeline(engine SyncEngine, cache store.CacheStore, remote adapter.RemoteStore, v PipelineVendors, settings Settings, log *logger.Logger) Pipeline {
	return &enrichmentPipeline{
		engine:       engine,
		cache:        cache,
		remote:       remote,
		vendors:      v,
		settings:     settings,
		log:          log,
		pollInterval: transcribePollInterval,
		pollAttempts: transcribePollAttempts,
		inflight:     make(map[string]struct{}),
	}
}

// begin registers itemID in the in-flight set. Returns false when a run for
// the same id is already active.
func (p *enrichmentPipeline) begin(itemID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, running := p.inflight[itemID]; running {
		return false
	}
	p.inflight[itemID] = struct{}{}
	return true
}

func (p *enrichmentPipeline) end(itemID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, itemID)
}

func (p *enrichmentPipeline) Run(ctx context.Context, itemID string) error {
	if !p.begin(itemID) {
		p.log.Debug().Str("func", "enrichmentPipeline.Run").Str("item_id", itemID).Msg("run already in flight, skipping")
		return nil
	}
	defer p.end(itemID)

	items, err := p.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}
	idx := indexOfItem(items, itemID)
	if idx < 0 {
		return fmt.Errorf("enrich %s: %w", itemID, ErrItemNotFound)
	}

	item := items[idx]
	if item.UserID == "" {
		return fmt.Errorf("enrich %s: item has no user", itemID)
	}
	if item.URL == "" && strings.TrimSpace(item.Content) == "" {
		return fmt.Errorf("enrich %s: nothing to enrich", itemID)
	}

	// Stage 1: deterministic content-type detection.
	if err = ctx.Err(); err != nil {
		return err
	}
	if item.URL != "" {
		if detected := DetectContentType(item.URL); detected != item.ContentType {
			item.ContentType = detected
			p.persistStage(ctx, &item, "detect")
		}
	}

	// Stage 2: metadata extraction with local fallback.
	if err = ctx.Err(); err != nil {
		return err
	}
	if item.URL != "" {
		p.runMetadataStage(ctx, &item)
	}

	// Stage 3: type-specific enrichment.
	if err = ctx.Err(); err != nil {
		return err
	}
	transcript := p.runTypeStage(ctx, &item)

	// Stage 4: optional summarization.
	if err = ctx.Err(); err != nil {
		return err
	}
	p.runSummaryStage(ctx, &item, transcript)

	return nil
}

// persistStage pushes the partial result through the sync engine. Failures
// are logged and contained: the run keeps its in-memory progress and later
// stages still persist theirs.
func (p *enrichmentPipeline) persistStage(ctx context.Context, item *models.Item, stage string) {
	if err := p.engine.UpdateItemWithSync(ctx, *item); err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.persistStage").
			Str("item_id", item.ID).Str("stage", stage).Err(err).
			Msg("stage persist failed")
	}
}

func (p *enrichmentPipeline) runMetadataStage(ctx context.Context, item *models.Item) {
	extractor := p.pickExtractor(ctx)

	meta, err := extractor.Extract(ctx, item.URL, string(item.ContentType))
	if err != nil {
		// Degraded but valid: the item is never left titleless.
		p.log.Warn().Str("func", "enrichmentPipeline.runMetadataStage").
			Str("item_id", item.ID).Err(err).
			Msg("extraction failed, using hostname fallback")
		meta = hostMetadata(item.URL)
	}

	if meta.Title != "" {
		item.Title = meta.Title
	} else if item.Title == "" {
		item.Title = hostMetadata(item.URL).Title
	}
	if meta.Description != "" {
		item.Desc = meta.Description
	}
	if meta.ThumbnailURL != "" {
		item.ThumbnailURL = meta.ThumbnailURL
	}
	if meta.Content != "" && item.Content == "" {
		item.Content = meta.Content
	}

	p.persistStage(ctx, item, "metadata")
}

func (p *enrichmentPipeline) pickExtractor(ctx context.Context) vendors.Extractor {
	prefs, err := p.settings.Preferences(ctx)
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.pickExtractor").Err(err).Msg("load preferences failed, using primary extractor")
		return p.vendors.Primary
	}
	if prefs.PreferFallbackExtractor && p.vendors.Fallback != nil {
		return p.vendors.Fallback
	}
	return p.vendors.Primary
}

// runTypeStage performs the type-dependent side fetches. Each sub-fetch is
// independent: a failure here never touches what stage 2 already persisted.
// The transcript text, when produced, is returned for the summarization
// stage.
func (p *enrichmentPipeline) runTypeStage(ctx context.Context, item *models.Item) string {
	switch {
	case item.ContentType.NeedsTranscription() && item.URL != "":
		transcript, err := p.transcribe(ctx, item.URL)
		if err != nil {
			p.log.Warn().Str("func", "enrichmentPipeline.runTypeStage").
				Str("item_id", item.ID).Err(err).
				Msg("transcription failed")
			return ""
		}

		transcriptURL, err := p.remote.Upload(ctx, transcriptBucket, item.UserID+"/"+item.ID+".txt", []byte(transcript), "text/plain")
		if err != nil {
			p.log.Warn().Str("func", "enrichmentPipeline.runTypeStage").
				Str("item_id", item.ID).Err(err).
				Msg("transcript upload failed")
			return transcript
		}
		item.TranscriptURL = transcriptURL
		p.persistStage(ctx, item, "transcription")
		return transcript

	case item.ContentType == models.ContentTypeX || item.ContentType == models.ContentTypeReddit:
		p.enrichSocialPost(ctx, item)

	case item.ContentType == models.ContentTypeImage:
		p.enrichImage(ctx, item)
	}
	return ""
}

// enrichImage stores the extracted image description as a text object and
// records the reference, mirroring how transcripts are kept out of the row.
func (p *enrichmentPipeline) enrichImage(ctx context.Context, item *models.Item) {
	if item.Desc == "" || item.ImageDescURL != "" {
		return
	}

	descURL, err := p.remote.Upload(ctx, imageDescBucket, item.UserID+"/"+item.ID+".txt", []byte(item.Desc), "text/plain")
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.enrichImage").
			Str("item_id", item.ID).Err(err).
			Msg("image description upload failed")
		return
	}
	item.ImageDescURL = descURL
	p.persistStage(ctx, item, "image_desc")
}

func (p *enrichmentPipeline) enrichSocialPost(ctx context.Context, item *models.Item) {
	canonical, err := p.vendors.Social.ResolveRedirect(ctx, item.URL)
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.enrichSocialPost").
			Str("item_id", item.ID).Err(err).
			Msg("redirect resolution failed, using shared url as canonical")
		canonical = item.URL
	}

	post, err := p.vendors.Social.FetchPost(ctx, canonical)
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.enrichSocialPost").
			Str("item_id", item.ID).Err(err).
			Msg("post fetch failed")
		return
	}

	if post.Text != "" && item.Content == "" {
		item.Content = post.Text
	}
	if item.ThumbnailURL == "" && len(post.Images) > 0 {
		item.ThumbnailURL = post.Images[0]
	}
	p.persistStage(ctx, item, "social")
}

// transcribe submits a job and polls it to a terminal status within the
// stage's attempt budget.
func (p *enrichmentPipeline) transcribe(ctx context.Context, mediaURL string) (string, error) {
	jobID, err := p.vendors.Transcriber.SubmitJob(ctx, mediaURL)
	if err != nil {
		return "", fmt.Errorf("submit transcription job: %w", err)
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		job, err := p.vendors.Transcriber.GetJob(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("poll transcription job %s: %w", jobID, err)
		}
		if job.Status == vendors.JobStatusCompleted {
			return job.Text, nil
		}
	}

	return "", fmt.Errorf("job %s after %d attempts: %w", jobID, p.pollAttempts, ErrTranscriptionTimeout)
}

func (p *enrichmentPipeline) runSummaryStage(ctx context.Context, item *models.Item, transcript string) {
	if item.TLDR != "" {
		return
	}

	prefs, err := p.settings.Preferences(ctx)
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.runSummaryStage").Err(err).Msg("load preferences failed, skipping summary")
		return
	}
	if !prefs.SummarizeEnabled {
		return
	}

	source := transcript
	if source == "" {
		source = item.Content
	}
	if source == "" {
		source = item.Desc
	}
	if strings.TrimSpace(source) == "" {
		// Upstream content the summary would build on is missing, e.g.
		// after a transcription timeout. Skip rather than summarize air.
		return
	}

	summary, err := p.vendors.Summarizer.Summarize(ctx, truncateText(source, summaryContextLimit))
	if err != nil {
		p.log.Warn().Str("func", "enrichmentPipeline.runSummaryStage").
			Str("item_id", item.ID).Err(err).
			Msg("summarization failed")
		return
	}

	item.TLDR = summary
	p.persistStage(ctx, item, "summary")
}

func hostMetadata(rawURL string) vendors.Metadata {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return vendors.Metadata{Title: rawURL}
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	return vendors.Metadata{Title: host, SiteName: host}
}

// truncateText cuts s to at most limit bytes without splitting a UTF-8 rune.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
