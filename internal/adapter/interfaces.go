// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer for the hosted backend:
// row CRUD with row-level security, the auth session endpoints, object
// storage upload, and the realtime change-event stream.
//
// The primary abstraction is [RemoteStore], which decouples the service
// layer from the wire protocol. The package ships a REST implementation
// ([NewRemoteStore]) speaking the PostgREST-style dialect hosted backends
// expose, with the realtime feed carried over a websocket.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-mind-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the hosted
// backend. Implementations are responsible for serialisation, auth header
// management, and mapping transport-level errors to the sentinel values
// defined in this package.
//
// The remote store is the cross-device source of truth; the sync engine is
// the only caller allowed to mutate rows through it.
type RemoteStore interface {
	// SetSession stores the bearer token attached to all subsequent
	// authenticated requests. It should be called after SignIn,
	// RefreshSession, or after loading a credential from the shared-auth
	// bridge.
	SetSession(accessToken string)

	// SignIn authenticates with email and password and returns the full
	// credential. On success the access token is stored via SetSession.
	SignIn(ctx context.Context, email, password string) (models.SharedCredential, error)

	// RefreshSession exchanges a refresh token for a fresh credential. On
	// success the new access token is stored via SetSession.
	RefreshSession(ctx context.Context, refreshToken string) (models.SharedCredential, error)

	// ListItems fetches all item rows owned by userID, tombstones included.
	ListItems(ctx context.Context, userID string) ([]models.Item, error)

	// FindItemByURL looks up a live (non-deleted) item by exact URL for
	// userID. Returns (nil, nil) when no such row exists; used by the sync
	// engine's creation de-duplication.
	FindItemByURL(ctx context.Context, userID, url string) (*models.Item, error)

	// InsertItem creates one item row. Returns [ErrConflict] (wrapped) if a
	// row with the same id already exists.
	InsertItem(ctx context.Context, item models.Item) error

	// UpdateItem replaces the row identified by item.ID with the given
	// full row. Soft deletes travel through here as tombstone-field
	// updates.
	UpdateItem(ctx context.Context, item models.Item) error

	// ListSpaces fetches all space rows owned by userID, tombstones
	// included.
	ListSpaces(ctx context.Context, userID string) ([]models.Space, error)

	// InsertSpace creates one space row.
	InsertSpace(ctx context.Context, space models.Space) error

	// UpdateSpace replaces the row identified by space.ID.
	UpdateSpace(ctx context.Context, space models.Space) error

	// UpsertSpaces writes a batch of space rows in one request. Used by
	// reorder, which rewrites order_index for every affected space.
	UpsertSpaces(ctx context.Context, spaces []models.Space) error

	// Upload stores data in the object-storage bucket under path and
	// returns the public URL of the stored object.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)

	// Subscribe opens the realtime change feed scoped to rows owned by
	// userID. Events arrive on the returned channel strictly in the order
	// the backend emitted them; the channel closes when ctx is cancelled
	// or the connection drops.
	Subscribe(ctx context.Context, userID string) (<-chan models.ChangeEvent, error)
}
