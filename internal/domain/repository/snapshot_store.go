// Package repository internal/domain/repository/snapshot_store.go
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
)

// ErrSnapshotNotFound is returned by Get when the slot has never been written
var ErrSnapshotNotFound = errors.New("rate snapshot not found")

// SnapshotStore defines the single cache slot holding the latest rate snapshot
type SnapshotStore interface {
	// Get returns a copy of the stored snapshot or ErrSnapshotNotFound
	Get(ctx context.Context) (*entity.CachedSnapshot, error)

	// Set replaces the stored snapshot wholesale
	Set(ctx context.Context, snapshot *entity.CachedSnapshot) error
}
