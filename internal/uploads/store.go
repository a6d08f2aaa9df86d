package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
)

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

var ErrNotFound = errors.New("not found")

func (s *Store) Insert(_ context.Context, upload *Upload) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(upload)
		if err != nil {
			return err
		}
		return txn.Set(idKey(upload.ID), data)
	})
}

func ByStatus(status ...Status) func(*Upload) bool {
	filter := make(map[Status]bool, len(status))
	for _, s := range status {
		filter[s] = true
	}
	return func(upload *Upload) bool {
		return filter[upload.Status]
	}
}

func (s *Store) FindByID(_ context.Context, id ID) (*Upload, error) {
	var upload Upload
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &upload)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &upload, nil
}

// List returns uploads matching every filter, newest first.
func (s *Store) List(_ context.Context, filters ...func(*Upload) bool) ([]*Upload, error) {
	uploads := make([]*Upload, 0)
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("uploads/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				upload := &Upload{}
				if err := json.Unmarshal(value, upload); err != nil {
					return err
				}
				for _, filter := range filters {
					if !filter(upload) {
						return nil
					}
				}
				uploads = append(uploads, upload)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	slices.SortStableFunc(uploads, func(a, b *Upload) int {
		return b.Time.Compare(a.Time)
	})
	return uploads, nil
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("uploads/%s", id))
}
