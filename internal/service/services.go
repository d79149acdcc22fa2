package service

import (
	"context"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/store"
	"github.com/MKhiriev/go-mind-keeper/models"
)

// AppServices bundles the services the main app process runs.
type AppServices struct {
	Sync     SyncEngine
	Pipeline Pipeline
	Tracker  PendingTracker
	Drain    DrainService
	Settings Settings
}

// NewAppServices wires the main-process service graph: the settings accessor
// and the pending tracker are injected into the engine and pipeline rather
// than reached through globals, and the tracker observes the engine's
// realtime feed for cross-device creations.
func NewAppServices(storages *store.AppStorages, remote adapter.RemoteStore, v PipelineVendors, log *logger.Logger) *AppServices {
	settings := NewSettings(storages.Cache)
	tracker := NewPendingTracker(storages.Cache, log)

	engine := NewSyncEngine(storages.Cache, remote, log)
	engine.SetRemoteItemObserver(func(ctx context.Context, item models.Item) {
		if err := tracker.ReconcileItem(ctx, item); err != nil {
			log.Warn().Str("func", "NewAppServices").Err(err).Msg("reconcile pending entry failed")
		}
	})

	pipeline := NewPipeline(engine, storages.Cache, remote, v, settings, log)

	return &AppServices{
		Sync:     engine,
		Pipeline: pipeline,
		Tracker:  tracker,
		Drain:    NewDrainService(storages.Queue, engine, pipeline, tracker, log),
		Settings: settings,
	}
}

// ShareServices bundles the services the share-extension process runs.
type ShareServices struct {
	Share ShareService
}

func NewShareServices(storages *store.ShareStorages, remote adapter.RemoteStore, log *logger.Logger) *ShareServices {
	return &ShareServices{
		Share: NewShareService(storages.Queue, storages.Auth, remote, log),
	}
}
