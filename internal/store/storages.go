package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/go-mind-keeper/internal/crypto"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/migrations"
)

// SharedDBFile is the name of the shared app-group database file.
const SharedDBFile = "shared.db"

// AppStorages groups the storage backends used by the main app process.
type AppStorages struct {
	// Cache is the local cache database holding the denormalized
	// collections and scalar settings.
	Cache CacheStore
	// Queue is the cross-process shared queue.
	Queue SharedQueue
	// Auth is the shared-auth credential store.
	Auth SharedAuthStore
}

// ShareStorages groups the storage backends used by the share-extension
// process. The extension never touches the cache database.
type ShareStorages struct {
	// Queue is the cross-process shared queue.
	Queue SharedQueue
	// Auth is the shared-auth credential store.
	Auth SharedAuthStore
}

// NewAppStorages initialises the main app storage layer: it opens and
// migrates both the cache database at cacheDSN and the shared app-group
// database inside groupDir, then wires the repositories.
func NewAppStorages(ctx context.Context, cacheDSN, groupDir string, log *logger.Logger) (*AppStorages, error) {
	log.Info().Msg("creating app storages...")

	cacheDB, err := NewConnectSQLite(ctx, cacheDSN, log)
	if err != nil {
		return nil, fmt.Errorf("cache db connection error: %w", err)
	}
	if err = migrations.MigrateCache(cacheDB.DB); err != nil {
		return nil, fmt.Errorf("cache migration failed: %w", err)
	}

	queue, auth, err := openSharedStores(ctx, groupDir, log)
	if err != nil {
		return nil, err
	}

	return &AppStorages{
		Cache: NewCacheStore(cacheDB, log),
		Queue: queue,
		Auth:  auth,
	}, nil
}

// NewShareStorages initialises the share-extension storage layer over the
// shared app-group database only.
func NewShareStorages(ctx context.Context, groupDir string, log *logger.Logger) (*ShareStorages, error) {
	log.Info().Msg("creating share storages...")

	queue, auth, err := openSharedStores(ctx, groupDir, log)
	if err != nil {
		return nil, err
	}

	return &ShareStorages{Queue: queue, Auth: auth}, nil
}

func openSharedStores(ctx context.Context, groupDir string, log *logger.Logger) (SharedQueue, SharedAuthStore, error) {
	sharedPath := filepath.Join(groupDir, SharedDBFile)

	sharedDB, err := NewConnectSQLite(ctx, sharedPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("shared db connection error: %w", err)
	}
	if err = migrations.MigrateShared(sharedDB.DB); err != nil {
		return nil, nil, fmt.Errorf("shared migration failed: %w", err)
	}

	keychain := crypto.NewKeyChainService()
	return NewSharedQueue(sharedDB, sharedPath, log),
		NewSharedAuthStore(sharedDB, groupDir, keychain, log),
		nil
}
