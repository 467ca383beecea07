package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCache(t *testing.T) {
	ctx := context.Background()
	cache := NewSnapshotCache()

	// Starts empty
	got, err := cache.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
	assert.Nil(t, got)

	// Store and retrieve
	captured := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	snap := &entity.CachedSnapshot{Rates: entity.DefaultRates(), CapturedAt: captured}
	require.NoError(t, cache.Set(ctx, snap))

	got, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Rates, got.Rates)
	assert.Equal(t, captured, got.CapturedAt)

	// Callers cannot mutate the stored value
	got.Rates[entity.EUR] = 0
	snap.Rates[entity.USD] = 0
	again, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 655.957, again.Rates[entity.EUR])
	assert.Equal(t, 615.234, again.Rates[entity.USD])

	// Overwrite wholesale
	later := captured.Add(2 * time.Hour)
	require.NoError(t, cache.Set(ctx, &entity.CachedSnapshot{
		Rates:      entity.RateSnapshot{entity.EUR: 650, entity.XOF: 1},
		CapturedAt: later,
	}))
	got, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, later, got.CapturedAt)
	assert.Len(t, got.Rates, 2)

	// Clear
	cache.Clear()
	_, err = cache.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestSnapshotCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewSnapshotCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = cache.Set(ctx, &entity.CachedSnapshot{
				Rates:      entity.RateSnapshot{entity.EUR: float64(i), entity.XOF: 1},
				CapturedAt: time.Now(),
			})
		}(i)
		go func() {
			defer wg.Done()
			if snap, err := cache.Get(ctx); err == nil {
				// Both halves of the slot are always present together
				assert.NotNil(t, snap.Rates)
				assert.False(t, snap.CapturedAt.IsZero())
			}
		}()
	}
	wg.Wait()

	snap, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap.Rates[entity.XOF])
}
