// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// ApplyRemoteChange merges one realtime event into the cache. The caller
// consumes the subscription channel on a single goroutine, so events for a
// given row arrive here in order and are never interleaved.
func (s *syncEngine) ApplyRemoteChange(ctx context.Context, ev models.ChangeEvent) error {
	switch ev.Table {
	case models.TableItems:
		return s.applyItemChange(ctx, ev)
	case models.TableSpaces:
		return s.applySpaceChange(ctx, ev)
	default:
		s.log.Warn().Str("func", "syncEngine.ApplyRemoteChange").Str("table", ev.Table).Msg("event for unwatched table ignored")
		return nil
	}
}

func (s *syncEngine) applyItemChange(ctx context.Context, ev models.ChangeEvent) error {
	item, err := ev.DecodeItem()
	if err != nil {
		return fmt.Errorf("decode item event: %w", err)
	}
	if item.ID == "" {
		return fmt.Errorf("item event without id")
	}

	if err = s.mergeItemEvent(ctx, ev.EventType, item); err != nil {
		return err
	}

	// Observers run outside stateMu.
	if ev.EventType == models.EventInsert && item.Live() {
		s.notifyRemoteItem(ctx, item)
	}
	return nil
}

func (s *syncEngine) mergeItemEvent(ctx context.Context, eventType models.EventType, item models.Item) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	items, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}

	switch eventType {
	case models.EventInsert, models.EventUpdate:
		// Remote wins wholesale. An update for a row the cache never saw
		// is treated as an insert, which makes re-delivery harmless.
		s.persistItems(ctx, upsertItem(cloneItems(items), item))
	case models.EventDelete:
		// Physical delete upstream becomes a local tombstone so read
		// paths hide the row immediately and purge handles the rest.
		idx := indexOfItem(items, item.ID)
		if idx < 0 {
			return nil
		}
		now := time.Now().UTC()
		tombstone := items[idx]
		tombstone.IsDeleted = true
		tombstone.DeletedAt = &now
		s.persistItems(ctx, upsertItem(cloneItems(items), tombstone))
	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}
	return nil
}

func (s *syncEngine) applySpaceChange(ctx context.Context, ev models.ChangeEvent) error {
	space, err := ev.DecodeSpace()
	if err != nil {
		return fmt.Errorf("decode space event: %w", err)
	}
	if space.ID == "" {
		return fmt.Errorf("space event without id")
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	spaces, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}

	switch ev.EventType {
	case models.EventInsert, models.EventUpdate:
		merged := upsertSpace(cloneSpaces(spaces), space)
		sortSpaces(merged)
		s.persistSpaces(ctx, merged)
	case models.EventDelete:
		idx := indexOfSpace(spaces, space.ID)
		if idx < 0 {
			return nil
		}
		now := time.Now().UTC()
		tombstone := spaces[idx]
		tombstone.IsDeleted = true
		tombstone.DeletedAt = &now
		s.persistSpaces(ctx, upsertSpace(cloneSpaces(spaces), tombstone))
	default:
		return fmt.Errorf("unknown event type %q", ev.EventType)
	}
	return nil
}
