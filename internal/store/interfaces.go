// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the durable client-side stores: the local cache
// database owned by the main app process, the cross-process shared queue, and
// the shared-auth credential store.
//
// All three are SQLite-backed key→JSON-blob stores. The cache store holds
// whole denormalized collections (items, spaces, pending items) under fixed
// keys and only ever writes a full collection at once, so a process kill can
// never leave a collection half-written.
package store

import (
	"context"

	"github.com/MKhiriev/go-mind-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Collection keys of the cache store. Part of the persisted schema.
const (
	CollectionItems       = "items"
	CollectionSpaces      = "spaces"
	CollectionPending     = "pending_items"
	CollectionPreferences = "preferences"
)

// CacheStore is the canonical on-device copy of the user's data. Collections
// are read and written whole; no row-in-place mutation exists by design. Every
// successful write notifies subscribers with the collection key, which is the
// UI layer's re-render signal.
type CacheStore interface {
	LoadItems(ctx context.Context) ([]models.Item, error)
	SaveItems(ctx context.Context, items []models.Item) error

	LoadSpaces(ctx context.Context) ([]models.Space, error)
	SaveSpaces(ctx context.Context, spaces []models.Space) error

	LoadPending(ctx context.Context) ([]models.PendingItem, error)
	SavePending(ctx context.Context, pending []models.PendingItem) error

	LoadPreferences(ctx context.Context) (models.Preferences, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error

	// Subscribe registers fn to be called after every successful collection
	// write with the written collection's key. Callbacks run synchronously
	// on the writing goroutine and must be cheap.
	Subscribe(fn func(collection string))
}

// SharedQueue is the cross-process hand-off queue bridging the
// share-extension process and the main app. Enqueue appends to a single
// JSON-array value; Drain returns the array and empties it in the same
// transaction, so draining twice with no new enqueues yields nothing the
// second time.
type SharedQueue interface {
	Enqueue(ctx context.Context, item models.PendingItem) error
	Drain(ctx context.Context) ([]models.PendingItem, error)
	Clear(ctx context.Context) error

	// Path returns the file path of the backing database, so the main app
	// can watch it for cross-process change notifications.
	Path() string
}

// SharedAuthStore is the narrow durable secret store of the shared-auth
// bridge. Get returns (nil, nil) when no usable credential exists, where an
// expired access token counts as no credential. GetRaw skips the expiry
// check so the main app can refresh a stale session from the stored refresh
// token.
type SharedAuthStore interface {
	Save(ctx context.Context, cred models.SharedCredential) error
	Get(ctx context.Context) (*models.SharedCredential, error)
	GetRaw(ctx context.Context) (*models.SharedCredential, error)
	Clear(ctx context.Context) error
}
