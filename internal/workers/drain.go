// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
)

type drainJob struct {
	drain     service.DrainService
	queuePath string
	interval  time.Duration
	log       *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDrainJob creates a job that drains the shared queue once on start, then
// whenever the share-extension process writes the queue database file, with a
// ticker as fallback for missed file events. queuePath is the queue database
// file; its directory is watched so the sqlite sidecar files (-wal, -shm)
// count as writes too. If interval is zero or negative it defaults to 30
// seconds.
func NewDrainJob(drain service.DrainService, queuePath string, interval time.Duration, log *logger.Logger) Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &drainJob{drain: drain, queuePath: queuePath, interval: interval, log: log}
}

func (j *drainJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()

		var events <-chan fsnotify.Event
		var watchErrs <-chan error
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			j.log.Warn().Str("func", "drainJob.Run").Err(err).Msg("queue watch unavailable, polling only")
		} else {
			defer watcher.Close()
			if err = watcher.Add(filepath.Dir(j.queuePath)); err != nil {
				j.log.Warn().Str("func", "drainJob.Run").Err(err).Msg("queue watch unavailable, polling only")
			} else {
				events = watcher.Events
				watchErrs = watcher.Errors
			}
		}

		t := time.NewTicker(j.interval)
		defer t.Stop()

		j.drainOnce(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if !j.queueEvent(ev) {
					continue
				}
				j.drainOnce(jobCtx)
			case err, ok := <-watchErrs:
				if !ok {
					watchErrs = nil
					continue
				}
				j.log.Warn().Str("func", "drainJob.Run").Err(err).Msg("queue watch error")
			case <-t.C:
				j.drainOnce(jobCtx)
			}
		}
	}()
}

// queueEvent reports whether a watcher event is a write to the queue
// database or one of its sqlite sidecar files.
func (j *drainJob) queueEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), filepath.Base(j.queuePath))
}

func (j *drainJob) drainOnce(ctx context.Context) {
	n, err := j.drain.DrainQueue(ctx)
	if err != nil {
		j.log.Warn().Str("func", "drainJob.drainOnce").Err(err).Msg("queue drain failed")
		return
	}
	if n > 0 {
		j.log.Debug().Str("func", "drainJob.drainOnce").Int("count", n).Msg("drained shared queue")
	}
}

func (j *drainJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
