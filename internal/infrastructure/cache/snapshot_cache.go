package cache

import (
	"context"
	"sync"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/domain/repository"
)

// SnapshotCache holds the latest rate snapshot in process memory.
// It is safe for concurrent use; the last Set wins.
type SnapshotCache struct {
	mutex sync.RWMutex
	entry *entity.CachedSnapshot
}

// NewSnapshotCache creates an empty snapshot cache
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Get returns a copy of the cached snapshot, or repository.ErrSnapshotNotFound
func (c *SnapshotCache) Get(_ context.Context) (*entity.CachedSnapshot, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.entry == nil {
		return nil, repository.ErrSnapshotNotFound
	}

	return &entity.CachedSnapshot{
		Rates:      c.entry.Rates.Clone(),
		CapturedAt: c.entry.CapturedAt,
	}, nil
}

// Set replaces the cached snapshot
func (c *SnapshotCache) Set(_ context.Context, snapshot *entity.CachedSnapshot) error {
	stored := &entity.CachedSnapshot{
		Rates:      snapshot.Rates.Clone(),
		CapturedAt: snapshot.CapturedAt,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entry = stored
	return nil
}

// Clear empties the slot
func (c *SnapshotCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entry = nil
}
