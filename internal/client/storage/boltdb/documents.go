package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/txtpresence/internal/client/storage"
	"github.com/iudanet/txtpresence/internal/docref"
)

const keyLocator = "locator"

var (
	_ storage.DocumentStorage = (*Storage)(nil)
	_ docref.LocatorSource    = (*Storage)(nil)
)

// Locator returns the current locator, empty if none was stored
func (s *Storage) Locator(ctx context.Context) (string, error) {
	var locator string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}
		locator = string(bucket.Get([]byte(keyLocator)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get locator: %w", err)
	}

	return locator, nil
}

// SetLocator stores the locator, records it in the history and notifies
// watchers after the transaction is committed. Storing the current locator
// again only refreshes the history.
func (s *Storage) SetLocator(ctx context.Context, locator string) error {
	changed := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		profile := tx.Bucket(bucketProfile)
		if profile == nil {
			return fmt.Errorf("profile bucket not found")
		}

		changed = string(profile.Get([]byte(keyLocator))) != locator
		if err := profile.Put([]byte(keyLocator), []byte(locator)); err != nil {
			return fmt.Errorf("failed to save locator: %w", err)
		}

		if locator == "" {
			return nil
		}
		return touchRecent(tx, locator, time.Now().UnixNano())
	})
	if err != nil {
		return err
	}

	if changed {
		s.notify(locator)
	}
	return nil
}

// touchRecent записывает документ в историю; ключ - порядковый номер
// bucket, поэтому старая запись того же документа удаляется
func touchRecent(tx *bbolt.Tx, locator string, openedAt int64) error {
	bucket := tx.Bucket(bucketRecent)
	if bucket == nil {
		return fmt.Errorf("recent bucket not found")
	}

	c := bucket.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var doc storage.RecentDocument
		if err := json.Unmarshal(v, &doc); err != nil {
			return fmt.Errorf("failed to unmarshal recent document: %w", err)
		}
		if doc.Locator == locator {
			if err := c.Delete(); err != nil {
				return fmt.Errorf("failed to delete recent document: %w", err)
			}
			break
		}
	}

	data, err := json.Marshal(storage.RecentDocument{Locator: locator, OpenedAt: openedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal recent document: %w", err)
	}

	seq, err := bucket.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to allocate recent document key: %w", err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	if err := bucket.Put(key, data); err != nil {
		return fmt.Errorf("failed to save recent document: %w", err)
	}

	return nil
}

// RecentDocuments returns up to limit most recently opened documents, newest first
func (s *Storage) RecentDocuments(ctx context.Context, limit int) ([]storage.RecentDocument, error) {
	var docs []storage.RecentDocument

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecent)
		if bucket == nil {
			return fmt.Errorf("recent bucket not found")
		}

		// Ключи упорядочены по порядку открытия, идем с конца
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(docs) >= limit {
				break
			}
			var doc storage.RecentDocument
			if err := json.Unmarshal(v, &doc); err != nil {
				return fmt.Errorf("failed to unmarshal recent document: %w", err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}

	return docs, nil
}

// Watch registers fn for locator changes and returns a function that stops watching
func (s *Storage) Watch(fn func(locator string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Storage) notify(locator string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(locator)
	}
}
