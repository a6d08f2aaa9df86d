package datasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/studioanalytics/internal/keys"
	"github.com/studioanalytics/internal/slots"
)

var ErrNotFound = errors.New("not found")

var currentKey = []byte("datasets/current")

// Store persists the active dataset as one sealed JSON blob.
type Store struct {
	db            *badger.DB
	encryptionKey *keys.Key
}

func NewStore(
	db *badger.DB,
	encryptionKey *keys.Key,
) *Store {
	return &Store{
		db:            db,
		encryptionKey: encryptionKey,
	}
}

func (s *Store) Put(_ context.Context, dataset []slots.Slot) error {
	data, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	sealed, err := s.encryptionKey.Seal(data)
	if err != nil {
		return fmt.Errorf("seal dataset: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(currentKey, sealed)
	})
}

func (s *Store) Get(_ context.Context) ([]slots.Slot, error) {
	var dataset []slots.Slot
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(currentKey)
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			data, err := s.encryptionKey.Open(value)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			return json.Unmarshal(data, &dataset)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dataset, nil
}

func (s *Store) Delete(_ context.Context) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(currentKey)
	})
}
