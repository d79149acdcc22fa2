// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/internal/utils"
	"github.com/MKhiriev/go-mind-keeper/internal/validators"
	"github.com/MKhiriev/go-mind-keeper/models"
)

const (
	// recentURLTTL bounds the creation-dedup memo: a URL created through
	// this engine short-circuits repeat creations for this long without a
	// cache scan.
	recentURLTTL = 5 * time.Minute

	// rePersistDelay is the single best-effort retry delay after a failed
	// cache write.
	rePersistDelay = 5 * time.Second
)

type syncEngine struct {
	cache    store.CacheStore
	remote   adapter.RemoteStore
	uuid     *utils.UUIDGenerator
	validate validators.Validator
	log      *logger.Logger

	mu     sync.RWMutex
	userID string

	// stateMu serialises whole read-modify-write cycles over the cached
	// items and spaces collections. The cache store only serialises
	// individual reads and writes, so without it two interleaved mutations
	// could both load, then overwrite each other's save.
	stateMu sync.Mutex

	recentURLs *gocache.Cache

	obsMu        sync.RWMutex
	onRemoteItem func(ctx context.Context, item models.Item)
}

// NewSyncEngine constructs the sync engine over the given cache store and
// remote store client.
func NewSyncEngine(cache store.CacheStore, remote adapter.RemoteStore, log *logger.Logger) SyncEngine {
	return &syncEngine{
		cache:      cache,
		remote:     remote,
		uuid:       utils.NewUUIDGenerator(),
		validate:   validators.NewContentValidator(),
		log:        log,
		recentURLs: gocache.New(recentURLTTL, 2*recentURLTTL),
	}
}

func (s *syncEngine) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *syncEngine) user() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *syncEngine) SetRemoteItemObserver(fn func(ctx context.Context, item models.Item)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.onRemoteItem = fn
}

func (s *syncEngine) notifyRemoteItem(ctx context.Context, item models.Item) {
	s.obsMu.RLock()
	fn := s.onRemoteItem
	s.obsMu.RUnlock()
	if fn != nil {
		fn(ctx, item)
	}
}

// ── items ────────────────────────────────────────────────────────────────────

func (s *syncEngine) CreateItemWithSync(ctx context.Context, draft models.Item) (models.Item, error) {
	userID := s.user()
	if userID == "" {
		return models.Item{}, ErrNoUser
	}

	itemURL := strings.TrimSpace(draft.URL)
	if itemURL == "" && strings.TrimSpace(draft.Content) == "" && strings.TrimSpace(draft.Title) == "" {
		return models.Item{}, ErrEmptyDraft
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	items, err := s.cache.LoadItems(ctx)
	if err != nil {
		return models.Item{}, fmt.Errorf("load cached items: %w", err)
	}

	if itemURL != "" {
		if err = s.validate.Validate(ctx, models.Item{URL: itemURL}, validators.FieldURL); err != nil {
			return models.Item{}, fmt.Errorf("validate item: %w", err)
		}
		if existing := s.findDuplicate(ctx, items, userID, itemURL); existing != nil {
			return *existing, nil
		}
	}

	now := time.Now().UTC()
	item := draft
	item.ID = s.uuid.Generate()
	item.UserID = userID
	item.URL = itemURL
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.ContentType == "" {
		if itemURL != "" {
			item.ContentType = models.ContentTypeBookmark
		} else {
			item.ContentType = models.ContentTypeNote
		}
	}

	// Malformed drafts stop here, before anything reaches the cache or
	// the remote store.
	if err = s.validate.Validate(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("validate item: %w", err)
	}

	s.persistItems(ctx, append(cloneItems(items), item))

	if err = s.remote.InsertItem(ctx, item); err != nil {
		s.rollbackItems(ctx, items)
		return models.Item{}, fmt.Errorf("insert item remotely: %w", err)
	}

	if itemURL != "" {
		s.recentURLs.SetDefault(dedupKey(userID, itemURL), item.ID)
	}
	return item, nil
}

// findDuplicate resolves a creation race: a live cached item with the same
// (url, user) wins, then a remote lookup covers rows created by another
// device or a server-side function before this engine heard of them.
func (s *syncEngine) findDuplicate(ctx context.Context, items []models.Item, userID, itemURL string) *models.Item {
	if id, ok := s.recentURLs.Get(dedupKey(userID, itemURL)); ok {
		for i := range items {
			if items[i].ID == id.(string) && items[i].Live() {
				return &items[i]
			}
		}
	}

	for i := range items {
		if items[i].Live() && items[i].UserID == userID && items[i].URL == itemURL {
			return &items[i]
		}
	}

	remoteItem, err := s.remote.FindItemByURL(ctx, userID, itemURL)
	if err != nil {
		// Offline or degraded: creation proceeds, the remote insert will
		// surface the real failure if there is one.
		s.log.Warn().Str("func", "syncEngine.findDuplicate").Err(err).Msg("remote duplicate lookup failed")
		return nil
	}
	if remoteItem == nil {
		return nil
	}

	// Remote already has the row: pull it into the cache so the caller
	// attaches to it instead of creating a double.
	s.persistItems(ctx, upsertItem(cloneItems(items), *remoteItem))
	s.recentURLs.SetDefault(dedupKey(userID, itemURL), remoteItem.ID)
	return remoteItem
}

func (s *syncEngine) UpdateItemWithSync(ctx context.Context, item models.Item) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	snapshot, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}
	if !containsItem(snapshot, item.ID) {
		return ErrItemNotFound
	}

	item.UpdatedAt = time.Now().UTC()
	s.persistItems(ctx, upsertItem(cloneItems(snapshot), item))

	if err = s.remote.UpdateItem(ctx, item); err != nil {
		s.rollbackItems(ctx, snapshot)
		return fmt.Errorf("update item remotely: %w", err)
	}
	return nil
}

func (s *syncEngine) SoftDeleteItemWithSync(ctx context.Context, itemID string) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	snapshot, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}

	idx := indexOfItem(snapshot, itemID)
	if idx < 0 {
		return ErrItemNotFound
	}

	now := time.Now().UTC()
	tombstone := snapshot[idx]
	tombstone.IsDeleted = true
	tombstone.DeletedAt = &now
	tombstone.UpdatedAt = now

	s.persistItems(ctx, upsertItem(cloneItems(snapshot), tombstone))

	if err = s.remote.UpdateItem(ctx, tombstone); err != nil {
		s.rollbackItems(ctx, snapshot)
		return fmt.Errorf("delete item remotely: %w", err)
	}

	if tombstone.URL != "" {
		s.recentURLs.Delete(dedupKey(tombstone.UserID, tombstone.URL))
	}
	return nil
}

func (s *syncEngine) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.cache.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached items: %w", err)
	}

	visible := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.Live() {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

// ── spaces ───────────────────────────────────────────────────────────────────

func (s *syncEngine) CreateSpaceWithSync(ctx context.Context, draft models.Space) (models.Space, error) {
	userID := s.user()
	if userID == "" {
		return models.Space{}, ErrNoUser
	}
	if strings.TrimSpace(draft.Name) == "" {
		return models.Space{}, ErrEmptyDraft
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	spaces, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return models.Space{}, fmt.Errorf("load cached spaces: %w", err)
	}

	now := time.Now().UTC()
	space := draft
	space.ID = s.uuid.Generate()
	space.UserID = userID
	space.OrderIndex = nextOrderIndex(spaces)
	space.CreatedAt = now
	space.UpdatedAt = now

	if err = s.validate.Validate(ctx, space); err != nil {
		return models.Space{}, fmt.Errorf("validate space: %w", err)
	}

	s.persistSpaces(ctx, append(cloneSpaces(spaces), space))

	if err = s.remote.InsertSpace(ctx, space); err != nil {
		s.rollbackSpaces(ctx, spaces)
		return models.Space{}, fmt.Errorf("insert space remotely: %w", err)
	}
	return space, nil
}

func (s *syncEngine) UpdateSpaceWithSync(ctx context.Context, space models.Space) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	snapshot, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}
	if indexOfSpace(snapshot, space.ID) < 0 {
		return ErrSpaceNotFound
	}

	space.UpdatedAt = time.Now().UTC()
	s.persistSpaces(ctx, upsertSpace(cloneSpaces(snapshot), space))

	if err = s.remote.UpdateSpace(ctx, space); err != nil {
		s.rollbackSpaces(ctx, snapshot)
		return fmt.Errorf("update space remotely: %w", err)
	}
	return nil
}

func (s *syncEngine) SoftDeleteSpaceWithSync(ctx context.Context, spaceID string, cascade bool) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	spacesSnapshot, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}

	idx := indexOfSpace(spacesSnapshot, spaceID)
	if idx < 0 {
		return ErrSpaceNotFound
	}

	itemsSnapshot, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}

	now := time.Now().UTC()
	tombstone := spacesSnapshot[idx]
	tombstone.IsDeleted = true
	tombstone.DeletedAt = &now
	tombstone.UpdatedAt = now

	// Contained items either fall with the space or move to "no space".
	changedItems := make([]models.Item, 0)
	newItems := cloneItems(itemsSnapshot)
	for i := range newItems {
		if newItems[i].SpaceID == nil || *newItems[i].SpaceID != spaceID || !newItems[i].Live() {
			continue
		}
		if cascade {
			newItems[i].IsDeleted = true
			newItems[i].DeletedAt = &now
		} else {
			newItems[i].SpaceID = nil
		}
		newItems[i].UpdatedAt = now
		changedItems = append(changedItems, newItems[i])
	}

	s.persistSpaces(ctx, upsertSpace(cloneSpaces(spacesSnapshot), tombstone))
	s.persistItems(ctx, newItems)

	if err = s.remote.UpdateSpace(ctx, tombstone); err != nil {
		s.rollbackSpaces(ctx, spacesSnapshot)
		s.rollbackItems(ctx, itemsSnapshot)
		return fmt.Errorf("delete space remotely: %w", err)
	}
	for _, item := range changedItems {
		if err = s.remote.UpdateItem(ctx, item); err != nil {
			s.rollbackSpaces(ctx, spacesSnapshot)
			s.rollbackItems(ctx, itemsSnapshot)
			return fmt.Errorf("update item %s for space delete: %w", item.ID, err)
		}
	}
	return nil
}

func (s *syncEngine) ReorderSpacesWithSync(ctx context.Context, orderedIDs []string) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	snapshot, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}

	position := make(map[string]int64, len(orderedIDs))
	for i, id := range orderedIDs {
		position[id] = int64(i)
	}

	now := time.Now().UTC()
	reordered := cloneSpaces(snapshot)
	changed := make([]models.Space, 0, len(orderedIDs))
	for i := range reordered {
		pos, ok := position[reordered[i].ID]
		if !ok {
			continue
		}
		reordered[i].OrderIndex = pos
		reordered[i].UpdatedAt = now
		changed = append(changed, reordered[i])
	}
	sortSpaces(reordered)

	s.persistSpaces(ctx, reordered)

	if len(changed) == 0 {
		return nil
	}
	if err = s.remote.UpsertSpaces(ctx, changed); err != nil {
		s.rollbackSpaces(ctx, snapshot)
		return fmt.Errorf("upsert reordered spaces remotely: %w", err)
	}
	return nil
}

func (s *syncEngine) ListSpaces(ctx context.Context) ([]models.Space, error) {
	spaces, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cached spaces: %w", err)
	}

	visible := make([]models.Space, 0, len(spaces))
	for _, space := range spaces {
		if space.Live() {
			visible = append(visible, space)
		}
	}
	sortSpaces(visible)
	return visible, nil
}

// ── tombstone retention ──────────────────────────────────────────────────────

func (s *syncEngine) PurgeTombstones(ctx context.Context, retention time.Duration) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	cutoff := time.Now().UTC().Add(-retention)

	items, err := s.cache.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load cached items: %w", err)
	}
	keptItems := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.IsDeleted && item.DeletedAt != nil && item.DeletedAt.Before(cutoff) {
			continue
		}
		keptItems = append(keptItems, item)
	}
	if len(keptItems) != len(items) {
		s.persistItems(ctx, keptItems)
	}

	spaces, err := s.cache.LoadSpaces(ctx)
	if err != nil {
		return fmt.Errorf("load cached spaces: %w", err)
	}
	keptSpaces := make([]models.Space, 0, len(spaces))
	for _, space := range spaces {
		if space.IsDeleted && space.DeletedAt != nil && space.DeletedAt.Before(cutoff) {
			continue
		}
		keptSpaces = append(keptSpaces, space)
	}
	if len(keptSpaces) != len(spaces) {
		s.persistSpaces(ctx, keptSpaces)
	}
	return nil
}

// ── persistence helpers ──────────────────────────────────────────────────────

// persistItems writes the full items collection. A disk failure here is
// serious but non-fatal: it is logged and retried once after a short delay,
// while the caller proceeds with the optimistic state.
func (s *syncEngine) persistItems(ctx context.Context, items []models.Item) {
	if err := s.cache.SaveItems(ctx, items); err != nil {
		s.log.Error().Str("func", "syncEngine.persistItems").Err(err).Msg("cache write failed, scheduling re-persist")
		time.AfterFunc(rePersistDelay, func() {
			s.stateMu.Lock()
			defer s.stateMu.Unlock()
			if retryErr := s.cache.SaveItems(context.Background(), items); retryErr != nil {
				s.log.Error().Str("func", "syncEngine.persistItems").Err(retryErr).Msg("re-persist failed")
			}
		})
	}
}

func (s *syncEngine) persistSpaces(ctx context.Context, spaces []models.Space) {
	if err := s.cache.SaveSpaces(ctx, spaces); err != nil {
		s.log.Error().Str("func", "syncEngine.persistSpaces").Err(err).Msg("cache write failed, scheduling re-persist")
		time.AfterFunc(rePersistDelay, func() {
			s.stateMu.Lock()
			defer s.stateMu.Unlock()
			if retryErr := s.cache.SaveSpaces(context.Background(), spaces); retryErr != nil {
				s.log.Error().Str("func", "syncEngine.persistSpaces").Err(retryErr).Msg("re-persist failed")
			}
		})
	}
}

func (s *syncEngine) rollbackItems(ctx context.Context, snapshot []models.Item) {
	if err := s.cache.SaveItems(ctx, snapshot); err != nil {
		s.log.Error().Str("func", "syncEngine.rollbackItems").Err(err).Msg("rollback write failed")
	}
}

func (s *syncEngine) rollbackSpaces(ctx context.Context, snapshot []models.Space) {
	if err := s.cache.SaveSpaces(ctx, snapshot); err != nil {
		s.log.Error().Str("func", "syncEngine.rollbackSpaces").Err(err).Msg("rollback write failed")
	}
}

// ── collection helpers ───────────────────────────────────────────────────────

func dedupKey(userID, itemURL string) string {
	return userID + "|" + itemURL
}

func cloneItems(items []models.Item) []models.Item {
	return append([]models.Item(nil), items...)
}

func cloneSpaces(spaces []models.Space) []models.Space {
	return append([]models.Space(nil), spaces...)
}

func indexOfItem(items []models.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func containsItem(items []models.Item, id string) bool {
	return indexOfItem(items, id) >= 0
}

func indexOfSpace(spaces []models.Space, id string) int {
	for i := range spaces {
		if spaces[i].ID == id {
			return i
		}
	}
	return -1
}

// upsertItem replaces the row with the same id wholesale, or appends.
func upsertItem(items []models.Item, item models.Item) []models.Item {
	if idx := indexOfItem(items, item.ID); idx >= 0 {
		items[idx] = item
		return items
	}
	return append(items, item)
}

func upsertSpace(spaces []models.Space, space models.Space) []models.Space {
	if idx := indexOfSpace(spaces, space.ID); idx >= 0 {
		spaces[idx] = space
		return spaces
	}
	return append(spaces, space)
}

func nextOrderIndex(spaces []models.Space) int64 {
	var next int64
	for _, space := range spaces {
		if space.Live() && space.OrderIndex >= next {
			next = space.OrderIndex + 1
		}
	}
	return next
}

func sortSpaces(spaces []models.Space) {
	sort.SliceStable(spaces, func(i, j int) bool {
		return spaces[i].OrderIndex < spaces[j].OrderIndex
	})
}
