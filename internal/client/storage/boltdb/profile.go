package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/txtpresence/internal/client/storage"
)

const keyPeerName = "peer_name"

var _ storage.ProfileStorage = (*Storage)(nil)

// SavePeerName stores the peer name
func (s *Storage) SavePeerName(ctx context.Context, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}

		if err := bucket.Put([]byte(keyPeerName), []byte(name)); err != nil {
			return fmt.Errorf("failed to save peer name: %w", err)
		}

		return nil
	})
}

// GetPeerName returns the stored peer name
// Returns storage.ErrPeerNameNotFound if no name was stored
func (s *Storage) GetPeerName(ctx context.Context) (string, error) {
	var name string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketProfile)
		if bucket == nil {
			return fmt.Errorf("profile bucket not found")
		}

		data := bucket.Get([]byte(keyPeerName))
		if data == nil {
			return storage.ErrPeerNameNotFound
		}

		// Копируем: данные bbolt валидны только внутри транзакции
		name = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return name, nil
}
