package boltdb

import (
	"context"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketProfile = []byte("profile")
	bucketRecent  = []byte("recent")
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db       *bbolt.DB
	watchers map[uint64]func(locator string)
	mu       sync.Mutex
	nextID   uint64
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{
		db:       db,
		watchers: make(map[uint64]func(locator string)),
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Bucket для имени пира и текущего локатора
		if _, err := tx.CreateBucketIfNotExists(bucketProfile); err != nil {
			return fmt.Errorf("failed to create profile bucket: %w", err)
		}

		// Bucket для истории открытых документов
		if _, err := tx.CreateBucketIfNotExists(bucketRecent); err != nil {
			return fmt.Errorf("failed to create recent bucket: %w", err)
		}

		return nil
	})
}
