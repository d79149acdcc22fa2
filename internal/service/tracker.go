// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/models"
)

const (
	// minDisplayDuration keeps a completed placeholder visible long enough
	// that it does not flicker in and out of the list.
	minDisplayDuration = 500 * time.Millisecond

	// Stale cutoffs: terminal entries past terminalRetention are leftovers
	// of a missed removal, non-terminal entries past stuckCutoff are
	// likely abandoned, anything past hardCutoff goes regardless.
	terminalRetention = 30 * time.Second
	stuckCutoff       = 5 * time.Minute
	hardCutoff        = 10 * time.Minute
)

type pendingTracker struct {
	cache store.CacheStore
	log   *logger.Logger

	// mu serialises whole load-apply-save cycles over the pending
	// collection; the cache store only serialises individual calls.
	mu sync.Mutex
}

// NewPendingTracker constructs the tracker over the cache store's pending
// collection.
func NewPendingTracker(cache store.CacheStore, log *logger.Logger) PendingTracker {
	return &pendingTracker{cache: cache, log: log}
}

func (t *pendingTracker) Add(ctx context.Context, pending models.PendingItem) error {
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = time.Now().UTC()
	}
	if pending.Status == "" {
		pending.Status = models.PendingStatusPending
	}

	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		for i := range entries {
			if entries[i].ID == pending.ID {
				entries[i] = pending
				return entries
			}
		}
		return append(entries, pending)
	})
}

func (t *pendingTracker) UpdateStatus(ctx context.Context, id string, status models.PendingStatus, errorMessage string) error {
	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Status = status
				entries[i].ErrorMessage = errorMessage
			}
		}
		return entries
	})
}

func (t *pendingTracker) Complete(ctx context.Context, id, completedItemID string) error {
	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		for i := range entries {
			if entries[i].ID == id {
				entries[i].Status = models.PendingStatusCompleted
				entries[i].ErrorMessage = ""
				entries[i].CompletedItemID = completedItemID
			}
		}
		return entries
	})
}

func (t *pendingTracker) Remove(ctx context.Context, id string) error {
	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		kept := entries[:0]
		for _, entry := range entries {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		return kept
	})
}

func (t *pendingTracker) RemoveAfterMinDisplay(ctx context.Context, id string, shownAt time.Time) error {
	if wait := minDisplayDuration - time.Since(shownAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.Remove(ctx, id)
}

// ReconcileItem marks pending entries for the same (user, url) completed
// when the corresponding item arrives through the realtime feed. Covers the
// case where another device or a server-side function finished the creation
// this tracker was showing a placeholder for.
func (t *pendingTracker) ReconcileItem(ctx context.Context, item models.Item) error {
	if item.URL == "" {
		return nil
	}
	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		for i := range entries {
			if entries[i].Status.Terminal() {
				continue
			}
			if entries[i].UserID == item.UserID && entries[i].URL == item.URL {
				entries[i].Status = models.PendingStatusCompleted
				entries[i].CompletedItemID = item.ID
			}
		}
		return entries
	})
}

func (t *pendingTracker) Cleanup(ctx context.Context) error {
	now := time.Now().UTC()
	return t.mutate(ctx, func(entries []models.PendingItem) []models.PendingItem {
		kept := entries[:0]
		for _, entry := range entries {
			age := now.Sub(entry.CreatedAt)
			switch {
			case age > hardCutoff:
			case entry.Status.Terminal() && age > terminalRetention:
			case !entry.Status.Terminal() && age > stuckCutoff:
				t.log.Warn().Str("func", "pendingTracker.Cleanup").
					Str("pending_id", entry.ID).Str("status", string(entry.Status)).
					Msg("purging likely-abandoned pending entry")
			default:
				kept = append(kept, entry)
			}
		}
		return kept
	})
}

func (t *pendingTracker) ProcessingCount(ctx context.Context) (int, error) {
	entries, err := t.cache.LoadPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("load pending entries: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (t *pendingTracker) mutate(ctx context.Context, apply func([]models.PendingItem) []models.PendingItem) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries, err := t.cache.LoadPending(ctx)
	if err != nil {
		return fmt.Errorf("load pending entries: %w", err)
	}
	if err = t.cache.SavePending(ctx, apply(entries)); err != nil {
		return fmt.Errorf("save pending entries: %w", err)
	}
	return nil
}
