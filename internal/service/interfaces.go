// Package service implements the core behaviour of the client: the sync
// engine mediating between the local cache and the remote store, the
// enrichment pipeline, the pending-item tracker, the share surface and the
// queue drain.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-mind-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncEngine reconciles the local cache store with the remote store. All
// writes go through it: UI code never touches the remote store directly, so
// cache and remote always change as a pair. Mutations are optimistic, local
// first; if the remote write fails the local change is rolled back and the
// error propagates to the caller.
type SyncEngine interface {
	// SetUser binds the engine to the authenticated user. Mutating calls
	// fail with ErrNoUser until a user is set.
	SetUser(userID string)

	// CreateItemWithSync creates an item from draft: it de-duplicates
	// against live cached items and the remote store by (url, user), mints
	// an id and timestamps, writes the item to the cache and then to the
	// remote store. When a duplicate is found the existing item is returned
	// and nothing is created.
	CreateItemWithSync(ctx context.Context, draft models.Item) (models.Item, error)

	// UpdateItemWithSync replaces the cached item wholesale and pushes the
	// update to the remote store. On remote failure the previous cache
	// state is restored before the error is returned.
	UpdateItemWithSync(ctx context.Context, item models.Item) error

	// SoftDeleteItemWithSync tombstones the item (is_deleted + deleted_at)
	// in cache and remote. The row is never physically removed here;
	// PurgeTombstones handles that after the retention window.
	SoftDeleteItemWithSync(ctx context.Context, itemID string) error

	// CreateSpaceWithSync creates a space at the end of the display order.
	CreateSpaceWithSync(ctx context.Context, draft models.Space) (models.Space, error)

	// UpdateSpaceWithSync replaces the cached space wholesale and pushes
	// the update remotely, with rollback on failure.
	UpdateSpaceWithSync(ctx context.Context, space models.Space) error

	// SoftDeleteSpaceWithSync tombstones the space. With cascade true the
	// contained items are tombstoned too; otherwise they are reassigned to
	// "no space".
	SoftDeleteSpaceWithSync(ctx context.Context, spaceID string, cascade bool) error

	// ReorderSpacesWithSync rewrites order_index for every listed space so
	// reading them back yields ascending order equal to orderedIDs. The
	// whole batch is persisted locally and upserted remotely in one call.
	ReorderSpacesWithSync(ctx context.Context, orderedIDs []string) error

	// ApplyRemoteChange merges one realtime event into the cache.
	// Remote wins: updates replace the cached row wholesale, deletes
	// tombstone it. Idempotent, so the echo of a local write is harmless.
	ApplyRemoteChange(ctx context.Context, ev models.ChangeEvent) error

	// Refresh pulls the full remote collections and reconciles them with
	// the cache: remote rows win, live local-only rows are pushed up.
	Refresh(ctx context.Context) error

	// PurgeTombstones drops soft-deleted rows older than retention from
	// the cache.
	PurgeTombstones(ctx context.Context, retention time.Duration) error

	// ListItems returns the cached items visible to read paths, i.e.
	// tombstones excluded.
	ListItems(ctx context.Context) ([]models.Item, error)

	// ListSpaces returns the visible spaces in ascending display order.
	ListSpaces(ctx context.Context) ([]models.Space, error)

	// SetRemoteItemObserver registers fn to be called for every live item
	// arriving through the realtime feed. The pending tracker uses it to
	// reconcile cross-device creations.
	SetRemoteItemObserver(fn func(ctx context.Context, item models.Item))
}

// Pipeline runs the ordered enrichment stages for one item: content-type
// detection, metadata extraction, type-specific enrichment, optional
// summarization. After each stage the partial result is persisted through
// the sync engine, so a crash mid-run leaves the item usably enriched up to
// the last completed stage.
type Pipeline interface {
	// Run enriches the item. At most one run per item id is active at a
	// time; a second concurrent call for the same id is a no-op. Stage
	// failures are contained and logged; Run itself errors only on
	// unusable input (unknown item, nothing to enrich) or cancellation.
	Run(ctx context.Context, itemID string) error
}

// PendingTracker is the ephemeral view of items currently being created or
// enriched, backing placeholder cards and the processing-count badge. It is
// persisted in the cache store's pending collection so a restart mid-share
// does not lose the placeholders.
type PendingTracker interface {
	// Add registers a pending entry. Идемпотентен: повторное добавление
	// той же записи просто перезаписывает её.
	Add(ctx context.Context, pending models.PendingItem) error

	// UpdateStatus advances the entry's lifecycle status and error text.
	UpdateStatus(ctx context.Context, id string, status models.PendingStatus, errorMessage string) error

	// Complete marks the entry completed and links it to the materialised
	// item.
	Complete(ctx context.Context, id, completedItemID string) error

	// Remove deletes the entry immediately.
	Remove(ctx context.Context, id string) error

	// RemoveAfterMinDisplay removes the entry once it has been visible for
	// the minimum display duration counted from shownAt. Blocks up to that
	// duration; run it on its own goroutine.
	RemoveAfterMinDisplay(ctx context.Context, id string, shownAt time.Time) error

	// ReconcileItem resolves pending entries against an item that appeared
	// through the realtime feed, covering creations finished by another
	// device or a server-side function.
	ReconcileItem(ctx context.Context, item models.Item) error

	// Cleanup purges stale entries: terminal ones past their display
	// window, stuck ones past the abandonment cutoff.
	Cleanup(ctx context.Context) error

	// ProcessingCount returns the number of entries still in flight.
	ProcessingCount(ctx context.Context) (int, error)
}

// ShareService is the share-extension entry point. It classifies the OS
// share payload and either writes the item directly to the remote store
// (when the shared-auth bridge holds a usable credential) or enqueues it on
// the cross-process shared queue for the main app to drain.
type ShareService interface {
	HandleShare(ctx context.Context, payload models.SharePayload) error
}

// DrainService empties the cross-process shared queue into the sync
// engine's creation path and triggers enrichment for every created item.
type DrainService interface {
	// DrainQueue drains the queue and returns how many entries it handed
	// to the creation path. Draining an empty queue is a cheap no-op.
	DrainQueue(ctx context.Context) (int, error)
}

// Settings is the injected accessor for the preferences that gate optional
// pipeline behaviour.
type Settings interface {
	Preferences(ctx context.Context) (models.Preferences, error)
	SetSummarizeEnabled(ctx context.Context, enabled bool) error
	SetPreferFallbackExtractor(ctx context.Context, prefer bool) error
}
