package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-mind-keeper/models"
)

func TestTracker_AddAndCount(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())
	ctx := context.Background()

	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-1", URL: "https://example.com/a"}))
	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-2", Status: models.PendingStatusProcessing}))
	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-3", Status: models.PendingStatusCompleted}))

	count, err := tracker.ProcessingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// повторное добавление перезаписывает, а не дублирует
	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-1", URL: "https://example.com/b"}))
	assert.Len(t, cache.rawPending(), 3)
}

func TestTracker_StatusLifecycle(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())
	ctx := context.Background()

	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-1"}))
	require.NoError(t, tracker.UpdateStatus(ctx, "p-1", models.PendingStatusProcessing, ""))
	assert.Equal(t, models.PendingStatusProcessing, cache.rawPending()[0].Status)

	require.NoError(t, tracker.Complete(ctx, "p-1", "it-9"))
	got := cache.rawPending()[0]
	assert.Equal(t, models.PendingStatusCompleted, got.Status)
	assert.Equal(t, "it-9", got.CompletedItemID)
}

func TestTracker_RemoveAfterMinDisplay(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())
	ctx := context.Background()

	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-1"}))

	// запись уже провисела дольше минимума: удаление без ожидания
	require.NoError(t, tracker.RemoveAfterMinDisplay(ctx, "p-1", time.Now().Add(-time.Second)))
	assert.Empty(t, cache.rawPending())
}

func TestTracker_RemoveAfterMinDisplay_HonorsCancel(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())
	require.NoError(t, tracker.Add(context.Background(), models.PendingItem{ID: "p-1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tracker.RemoveAfterMinDisplay(ctx, "p-1", time.Now())
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, cache.rawPending(), 1)
}

func TestTracker_ReconcileItem(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())
	ctx := context.Background()

	require.NoError(t, tracker.Add(ctx, models.PendingItem{ID: "p-1", UserID: "user-1", URL: "https://example.com/a", Status: models.PendingStatusProcessing}))

	item := models.Item{ID: "it-1", UserID: "user-1", URL: "https://example.com/a"}
	require.NoError(t, tracker.ReconcileItem(ctx, item))

	got := cache.rawPending()[0]
	assert.Equal(t, models.PendingStatusCompleted, got.Status)
	assert.Equal(t, "it-1", got.CompletedItemID)
}

func TestTracker_Cleanup(t *testing.T) {
	now := time.Now().UTC()
	cache := newStubCache()
	cache.pending = []models.PendingItem{
		{ID: "fresh", Status: models.PendingStatusProcessing, CreatedAt: now.Add(-time.Minute)},
		{ID: "stuck", Status: models.PendingStatusPending, CreatedAt: now.Add(-6 * time.Minute)},
		{ID: "ancient", Status: models.PendingStatusCompleted, CreatedAt: now.Add(-11 * time.Minute)},
		{ID: "done-recent", Status: models.PendingStatusFailed, CreatedAt: now.Add(-10 * time.Second)},
	}
	tracker := NewPendingTracker(cache, nopLogger())

	require.NoError(t, tracker.Cleanup(context.Background()))

	remaining := cache.rawPending()
	require.Len(t, remaining, 2)
	ids := []string{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, "fresh")
	assert.Contains(t, ids, "done-recent")
}

// Параллельные Add не должны терять записи: mutate держит замок на весь
// цикл load-apply-save.
func TestTracker_ConcurrentAddsNotLost(t *testing.T) {
	cache := newStubCache()
	tracker := NewPendingTracker(cache, nopLogger())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, tracker.Add(context.Background(), models.PendingItem{ID: fmt.Sprintf("p-%d", i)}))
		}(i)
	}
	wg.Wait()

	assert.Len(t, cache.rawPending(), n)
}
