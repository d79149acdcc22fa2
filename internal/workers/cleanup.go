package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
)

type cleanupJob struct {
	tracker  service.PendingTracker
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCleanupJob creates a job that periodically drops stale entries from the
// pending tracker. If interval is zero or negative it defaults to one minute.
func NewCleanupJob(tracker service.PendingTracker, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &cleanupJob{tracker: tracker, interval: interval, log: log}
}

func (j *cleanupJob) Run(ctx context.Context) {
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

		// Entries left over from a previous process go away immediately,
		// not a full interval later.
		j.cleanupOnce(jobCtx)

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.cleanupOnce(jobCtx)
			}
		}
	}()
}

func (j *cleanupJob) cleanupOnce(ctx context.Context) {
	if err := j.tracker.Cleanup(ctx); err != nil {
		j.log.Warn().Str("func", "cleanupJob.cleanupOnce").Err(err).Msg("tracker cleanup failed")
	}
}

func (j *cleanupJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
