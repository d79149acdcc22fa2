// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/models"
)

type cacheStore struct {
	db     *DB
	logger *logger.Logger

	// mu serialises every collection read-modify-write. Collections are
	// small denormalized arrays; one writer at a time is the consistency
	// model, not a bottleneck.
	mu sync.Mutex

	subMu sync.RWMutex
	subs  []func(collection string)
}

// NewCacheStore constructs the [CacheStore] over an opened cache database.
func NewCacheStore(db *DB, log *logger.Logger) CacheStore {
	return &cacheStore{db: db, logger: log}
}

func (c *cacheStore) LoadItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.loadCollection(ctx, CollectionItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *cacheStore) SaveItems(ctx context.Context, items []models.Item) error {
	if items == nil {
		items = []models.Item{}
	}
	return c.saveCollection(ctx, CollectionItems, items)
}

func (c *cacheStore) LoadSpaces(ctx context.Context) ([]models.Space, error) {
	var spaces []models.Space
	if err := c.loadCollection(ctx, CollectionSpaces, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (c *cacheStore) SaveSpaces(ctx context.Context, spaces []models.Space) error {
	if spaces == nil {
		spaces = []models.Space{}
	}
	return c.saveCollection(ctx, CollectionSpaces, spaces)
}

func (c *cacheStore) LoadPending(ctx context.Context) ([]models.PendingItem, error) {
	var pending []models.PendingItem
	if err := c.loadCollection(ctx, CollectionPending, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (c *cacheStore) SavePending(ctx context.Context, pending []models.PendingItem) error {
	if pending == nil {
		pending = []models.PendingItem{}
	}
	return c.saveCollection(ctx, CollectionPending, pending)
}

func (c *cacheStore) LoadPreferences(ctx context.Context) (models.Preferences, error) {
	var prefs models.Preferences
	if err := c.loadCollection(ctx, CollectionPreferences, &prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func (c *cacheStore) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	return c.saveCollection(ctx, CollectionPreferences, prefs)
}

func (c *cacheStore) Subscribe(fn func(collection string)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subs = append(c.subs, fn)
}

// loadCollection reads the JSON blob stored under key and unmarshals it into
// target. A key that has never been written leaves target untouched (the
// caller's zero value stands for the empty collection).
func (c *cacheStore) loadCollection(ctx context.Context, key string, target any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := c.readKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return err
	}

	if err = json.Unmarshal(payload, target); err != nil {
		c.logger.Err(err).
			Str("func", "cacheStore.loadCollection").
			Str("collection", key).
			Msg("failed to decode cached collection")
		return fmt.Errorf("decode cached collection %s: %w", key, err)
	}

	return nil
}

// saveCollection marshals value and replaces the whole blob under key in one
// upsert, then notifies subscribers. The write is atomic at the SQLite level,
// so a process kill leaves either the old or the new collection, never a mix.
func (c *cacheStore) saveCollection(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}

	c.mu.Lock()
	query, args, err := sq.Insert("collections").
		Columns("key", "payload", "updated_at").
		Values(key, string(payload), time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("build upsert for collection %s: %w", key, err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.mu.Unlock()
		c.logger.Err(err).
			Str("func", "cacheStore.saveCollection").
			Str("collection", key).
			Msg("failed to persist collection")
		return fmt.Errorf("persist collection %s: %w", key, err)
	}
	c.mu.Unlock()

	c.notify(key)
	return nil
}

func (c *cacheStore) readKey(ctx context.Context, key string) ([]byte, error) {
	query, args, err := sq.Select("payload").
		From("collections").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select for collection %s: %w", key, err)
	}

	var payload string
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		c.logger.Err(err).
			Str("func", "cacheStore.readKey").
			Str("collection", key).
			Msg("failed to read cached collection")
		return nil, fmt.Errorf("read collection %s: %w", key, err)
	}

	return []byte(payload), nil
}

func (c *cacheStore) notify(collection string) {
	c.subMu.RLock()
	subs := make([]func(string), len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	for _, fn := range subs {
		fn(collection)
	}
}
