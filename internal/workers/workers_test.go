// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-mind-keeper/internal/logger"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
)

// spyWorker считает вызовы Run и Stop и пишет свой id в общий срез.
type spyWorker struct {
	id    int
	order *[]int
	runs  int
	stops int
}

func (s *spyWorker) Run(context.Context) {
	s.runs++
	if s.order != nil {
		*s.order = append(*s.order, s.id)
	}
}

func (s *spyWorker) Stop() {
	s.stops++
	if s.order != nil {
		*s.order = append(*s.order, -s.id)
	}
}

// spySyncEngine покрывает только методы, которые дергает refresh job.
type spySyncEngine struct {
	service.SyncEngine

	refreshes atomic.Int64
	purges    atomic.Int64
	err       error
}

func (s *spySyncEngine) Refresh(context.Context) error {
	s.refreshes.Add(1)
	return s.err
}

func (s *spySyncEngine) PurgeTombstones(context.Context, time.Duration) error {
	s.purges.Add(1)
	return nil
}

type spyDrain struct {
	calls atomic.Int64
	err   error
}

func (s *spyDrain) DrainQueue(context.Context) (int, error) {
	s.calls.Add(1)
	return 1, s.err
}

type spyTracker struct {
	service.PendingTracker

	cleanups atomic.Int64
}

func (s *spyTracker) Cleanup(context.Context) error {
	s.cleanups.Add(1)
	return nil
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}

// ── Workers ──────────────────────────────────────────────────────────────────

func TestWorkers_RunAndStopOrder(t *testing.T) {
	order := []int{}
	w1 := &spyWorker{id: 1, order: &order}
	w2 := &spyWorker{id: 2, order: &order}
	w3 := &spyWorker{id: 3, order: &order}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())
	ws.Stop()

	// запуск по порядку, остановка в обратном
	assert.Equal(t, []int{1, 2, 3, -3, -2, -1}, order)
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	assert.NotPanics(t, func() {
		ws.Run(context.Background())
		ws.Stop()
	})
}

// ── refresh job ──────────────────────────────────────────────────────────────

func TestRefreshJob_RunsOnStartAndOnTicker(t *testing.T) {
	spy := &spySyncEngine{}
	job := NewRefreshJob(spy, 10*time.Millisecond, nopLogger())

	job.Run(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return spy.refreshes.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, spy.purges.Load(), int64(1))
}

func TestRefreshJob_RefreshFailureSkipsPurge(t *testing.T) {
	spy := &spySyncEngine{err: assert.AnError}
	job := NewRefreshJob(spy, 10*time.Millisecond, nopLogger())

	job.Run(context.Background())
	require.Eventually(t, func() bool {
		return spy.refreshes.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	job.Stop()

	assert.Equal(t, int64(0), spy.purges.Load())
}

func TestRefreshJob_StopHaltsTicker(t *testing.T) {
	spy := &spySyncEngine{}
	job := NewRefreshJob(spy, 10*time.Millisecond, nopLogger())

	job.Run(context.Background())
	require.Eventually(t, func() bool {
		return spy.refreshes.Load() >= 1
	}, time.Second, 5*time.Millisecond)
	job.Stop()

	after := spy.refreshes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, spy.refreshes.Load(), "после Stop новых вызовов быть не должно")
}

func TestRefreshJob_StopBeforeRunNoPanic(t *testing.T) {
	job := NewRefreshJob(&spySyncEngine{}, time.Minute, nopLogger())
	assert.NotPanics(t, func() { job.Stop() })
}

// ── drain job ────────────────────────────────────────────────────────────────

func TestDrainJob_DrainsOnStart(t *testing.T) {
	spy := &spyDrain{}
	job := NewDrainJob(spy, filepath.Join(t.TempDir(), "queue.db"), time.Hour, nopLogger())

	job.Run(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestDrainJob_FileWriteTriggersDrain(t *testing.T) {
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.db")
	spy := &spyDrain{}

	// большой интервал: после стартового прогона все вызовы только от событий
	job := NewDrainJob(spy, queuePath, time.Hour, nopLogger())
	job.Run(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	// запись sidecar-файла sqlite тоже считается записью очереди
	require.NoError(t, os.WriteFile(queuePath+"-wal", []byte("x"), 0o600))

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDrainJob_TickerFallback(t *testing.T) {
	spy := &spyDrain{}
	job := NewDrainJob(spy, filepath.Join(t.TempDir(), "queue.db"), 10*time.Millisecond, nopLogger())

	job.Run(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return spy.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestDrainJob_QueueEventFilter(t *testing.T) {
	job := NewDrainJob(&spyDrain{}, "/data/group/queue.db", time.Hour, nopLogger()).(*drainJob)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write to db", fsnotify.Event{Name: "/data/group/queue.db", Op: fsnotify.Write}, true},
		{"create wal", fsnotify.Event{Name: "/data/group/queue.db-wal", Op: fsnotify.Create}, true},
		{"write shm", fsnotify.Event{Name: "/data/group/queue.db-shm", Op: fsnotify.Write}, true},
		{"unrelated file", fsnotify.Event{Name: "/data/group/other.db", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "/data/group/queue.db", Op: fsnotify.Chmod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, job.queueEvent(tt.ev))
		})
	}
}

// ── cleanup job ──────────────────────────────────────────────────────────────

func TestCleanupJob_RunsOnStart(t *testing.T) {
	spy := &spyTracker{}
	job := NewCleanupJob(spy, time.Hour, nopLogger())

	// уборка при старте, не дожидаясь первого тика
	job.Run(context.Background())
	require.Eventually(t, func() bool {
		return spy.cleanups.Load() >= 1
	}, time.Second, 5*time.Millisecond)
	job.Stop()
}

func TestCleanupJob_RunsOnTicker(t *testing.T) {
	spy := &spyTracker{}
	job := NewCleanupJob(spy, 10*time.Millisecond, nopLogger())

	job.Run(context.Background())
	require.Eventually(t, func() bool {
		return spy.cleanups.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	job.Stop()

	after := spy.cleanups.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, spy.cleanups.Load())
}

func TestCleanupJob_ContextCancelStops(t *testing.T) {
	spy := &spyTracker{}
	job := NewCleanupJob(spy, 10*time.Millisecond, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	job.Run(ctx)
	require.Eventually(t, func() bool {
		return spy.cleanups.Load() >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	// Stop после отмены контекста не должен зависать
	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
