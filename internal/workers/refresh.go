// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
)

// tombstoneRetention is how long soft-deleted rows are kept before the
// refresh cycle purges them from the local cache.
const tombstoneRetention = 30 * 24 * time.Hour

type refreshJob struct {
	sync     service.SyncEngine
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a job that runs a full cache-vs-remote refresh once
// on start and then on a ticker, purging expired tombstones after each pass.
// If interval is zero or negative it defaults to 5 minutes.
func NewRefreshJob(sync service.SyncEngine, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &refreshJob{sync: sync, interval: interval, log: log}
}

func (j *refreshJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		j.refreshOnce(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.refreshOnce(jobCtx)
			}
		}
	}()
}

func (j *refreshJob) refreshOnce(ctx context.Context) {
	if err := j.sync.Refresh(ctx); err != nil {
		j.log.Warn().Str("func", "refreshJob.refreshOnce").Err(err).Msg("refresh failed")
		return
	}
	if err := j.sync.PurgeTombstones(ctx, tombstoneRetention); err != nil {
		j.log.Warn().Str("func", "refreshJob.refreshOnce").Err(err).Msg("tombstone purge failed")
	}
}

func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
