// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/models"
)

// queueKey is the single shared_kv key holding the JSON array of queued
// share payloads. Part of the cross-process contract with the extension.
const queueKey = "pending_share_items"

type sharedQueue struct {
	db     *DB
	path   string
	logger *logger.Logger
}

// NewSharedQueue constructs the [SharedQueue] over the shared app-group
// database. path is the database file path, exposed via Path for file
// watching.
//
// The queue deliberately has no cross-process lock: the main app and the
// share extension are never simultaneously active by platform design, so a
// transactional read-modify-write per operation is sufficient.
func NewSharedQueue(db *DB, path string, log *logger.Logger) SharedQueue {
	return &sharedQueue{db: db, path: path, logger: log}
}

func (q *sharedQueue) Path() string {
	return q.path
}

func (q *sharedQueue) Enqueue(ctx context.Context, item models.PendingItem) error {
	log := logger.FromContext(ctx)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enqueue tx: %w", err)
	}
	defer tx.Rollback()

	items, err := readQueue(ctx, tx)
	if err != nil {
		return err
	}

	items = append(items, item)
	if err = writeQueue(ctx, tx, items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "sharedQueue.Enqueue").
			Str("pending_id", item.ID).
			Msg("failed to commit enqueue")
		return fmt.Errorf("commit enqueue: %w", err)
	}

	return nil
}

// Drain returns all queued payloads and empties the queue in the same
// transaction. Idempotent: a second drain with no intervening enqueue
// returns an empty slice.
func (q *sharedQueue) Drain(ctx context.Context) ([]models.PendingItem, error) {
	log := logger.FromContext(ctx)

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin drain tx: %w", err)
	}
	defer tx.Rollback()

	items, err := readQueue(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	if err = writeQueue(ctx, tx, []models.PendingItem{}); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "sharedQueue.Drain").
			Int("count", len(items)).
			Msg("failed to commit drain")
		return nil, fmt.Errorf("commit drain: %w", err)
	}

	return items, nil
}

func (q *sharedQueue) Clear(ctx context.Context) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer tx.Rollback()

	if err = writeQueue(ctx, tx, []models.PendingItem{}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

func readQueue(ctx context.Context, tx *sql.Tx) ([]models.PendingItem, error) {
	query, args, err := sq.Select("payload").
		From("shared_kv").
		Where(sq.Eq{"key": queueKey}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build queue select: %w", err)
	}

	var payload string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && payload == "") {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}

	var items []models.PendingItem
	if err = json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("decode queue payload: %w", err)
	}
	return items, nil
}

func writeQueue(ctx context.Context, tx *sql.Tx, items []models.PendingItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode queue payload: %w", err)
	}

	query, args, err := sq.Insert("shared_kv").
		Columns("key", "payload").
		Values(queueKey, string(payload)).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("build queue upsert: %w", err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write queue: %w", err)
	}
	return nil
}
