package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/xof-converter/internal/domain/entity"
	"github.com/damon-houk/xof-converter/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

var latestSnapshotKey = []byte("rates:latest")

// BadgerSnapshotStore implements the snapshot store on top of BadgerDB.
// Open the database with OpenInMemory so nothing outlives the process.
type BadgerSnapshotStore struct {
	db *badger.DB
}

// NewBadgerSnapshotStore creates a snapshot store backed by db
func NewBadgerSnapshotStore(db *badger.DB) *BadgerSnapshotStore {
	return &BadgerSnapshotStore{db: db}
}

// OpenInMemory opens a BadgerDB instance that keeps all data in memory
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger: %w", err)
	}
	return db, nil
}

// Get loads the latest snapshot
func (s *BadgerSnapshotStore) Get(ctx context.Context) (*entity.CachedSnapshot, error) {
	var snap entity.CachedSnapshot

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestSnapshotKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rate snapshot: %w", err)
	}

	return &snap, nil
}

// Set overwrites the latest snapshot
func (s *BadgerSnapshotStore) Set(ctx context.Context, snapshot *entity.CachedSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal rate snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(latestSnapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to store rate snapshot: %w", err)
	}

	return nil
}
