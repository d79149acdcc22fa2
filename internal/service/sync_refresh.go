// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-mind-keeper/models"
)

// Refresh reconciles the cache with the full remote collections. The remote
// store is the cross-device source of truth, so its rows replace cached rows
// with the same id wholesale. Live rows only the cache knows about are
// creations the remote never received (offline writes whose insert failed
// after rollback was skipped by a crash); they are pushed up and kept.
// Local-only tombstones stay cached until PurgeTombstones drops them.
func (s *syncEngine) Refresh(ctx context.Context) error {
	userID := s.user()
	if userID == "" {
		return ErrNoUser
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	remoteItems, err := s.remote.ListItems(ctx, userID)
	if err != nil {
		return fmt.Errorf("list remote items: %w", err)
	}
	localItems, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}

	s.persistItems(ctx, s.mergeItems(ctx, remoteItems, localItems))

	remoteSpaces, err := s.remote.ListSpaces(ctx, userID)
	if err != nil {
		return fmt.Errorf("list remote spaces: %w", err)
	}
	localSpaces, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}

	s.persistSpaces(ctx, s.mergeSpaces(ctx, remoteSpaces, localSpaces))
	return nil
}

func (s *syncEngine) mergeItems(ctx context.Context, remote, local []models.Item) []models.Item {
	known := make(map[string]struct{}, len(remote))
	for _, item := range remote {
		known[item.ID] = struct{}{}
	}

	merged := cloneItems(remote)
	for _, item := range local {
		if _, ok := known[item.ID]; ok {
			continue
		}
		if item.Live() {
			if err := s.remote.InsertItem(ctx, item); err != nil {
				s.log.Warn().Str("func", "syncEngine.mergeItems").Str("item_id", item.ID).Err(err).Msg("push local-only item failed")
			}
		}
		merged = append(merged, item)
	}
	return merged
}

func (s *syncEngine) mergeSpaces(ctx context.Context, remote, local []models.Space) []models.Space {
	known := make(map[string]struct{}, len(remote))
	for _, space := range remote {
		known[space.ID] = struct{}{}
	}

	merged := cloneSpaces(remote)
	for _, space := range local {
		if _, ok := known[space.ID]; ok {
			continue
		}
		if space.Live() {
			if err := s.remote.InsertSpace(ctx, space); err != nil {
				s.log.Warn().Str("func", "syncEngine.mergeSpaces").Str("space_id", space.ID).Err(err).Msg("push local-only space failed")
			}
		}
		merged = append(merged, space)
	}
	sortSpaces(merged)
	return merged
}
