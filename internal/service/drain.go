// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/models"
)

type drainService struct {
	queue    store.SharedQueue
	engine   SyncEngine
	pipeline Pipeline
	tracker  PendingTracker
	log      *logger.Logger
}

// NewDrainService constructs the queue drain. Ownership of drained entries
// moves to the sync engine's creation path, which de-duplicates against the
// remote store, so a server-side function racing the drain is harmless.
func NewDrainService(queue store.SharedQueue, engine SyncEngine, pipeline Pipeline, tracker PendingTracker, log *logger.Logger) DrainService {
	return &drainService{
		queue:    queue,
		engine:   engine,
		pipeline: pipeline,
		tracker:  tracker,
		log:      log,
	}
}

func (d *drainService) DrainQueue(ctx context.Context) (int, error) {
	entries, err := d.queue.Drain(ctx)
	if err != nil {
		return 0, fmt.Errorf("drain shared queue: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	d.log.Info().Str("func", "drainService.DrainQueue").Int("count", len(entries)).Msg("draining shared queue")

	for _, entry := range entries {
		d.handleEntry(ctx, entry)
	}
	return len(entries), nil
}

func (d *drainService) handleEntry(ctx context.Context, entry models.PendingItem) {
	shownAt := time.Now()
	entry.Status = models.PendingStatusProcessing
	if err := d.tracker.Add(ctx, entry); err != nil {
		d.log.Warn().Str("func", "drainService.handleEntry").Err(err).Msg("track pending entry failed")
	}

	draft := models.Item{
		URL:         entry.URL,
		Content:     entry.Text,
		ContentType: entry.ContentType,
	}

	item, err := d.engine.CreateItemWithSync(ctx, draft)
	if err != nil {
		d.log.Error().Str("func", "drainService.handleEntry").
			Str("pending_id", entry.ID).Err(err).
			Msg("create drained item failed")
		if trackErr := d.tracker.UpdateStatus(ctx, entry.ID, models.PendingStatusFailed, err.Error()); trackErr != nil {
			d.log.Warn().Str("func", "drainService.handleEntry").Err(trackErr).Msg("track failure failed")
		}
		return
	}

	if err = d.tracker.Complete(ctx, entry.ID, item.ID); err != nil {
		d.log.Warn().Str("func", "drainService.handleEntry").Err(err).Msg("track completion failed")
	}

	// Enrichment and placeholder removal run off the drain path; pipelines
	// for different items are independent and concurrent.
	go func() {
		if runErr := d.pipeline.Run(ctx, item.ID); runErr != nil {
			d.log.Warn().Str("func", "drainService.handleEntry").
				Str("item_id", item.ID).Err(runErr).
				Msg("enrichment run failed")
		}
	}()
	go func() {
		if removeErr := d.tracker.RemoveAfterMinDisplay(ctx, entry.ID, shownAt); removeErr != nil && ctx.Err() == nil {
			d.log.Warn().Str("func", "drainService.handleEntry").Err(removeErr).Msg("remove pending entry failed")
		}
	}()
}
