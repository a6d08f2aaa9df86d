package pivots

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

func (s *Store) Insert(_ context.Context, view *View) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(view)
		if err != nil {
			return err
		}
		return txn.Set(idKey(view.ID), data)
	})
}

func (s *Store) FindByID(_ context.Context, id ID) (*View, error) {
	var view View
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &view)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &view, nil
}

// List returns saved views, oldest first.
func (s *Store) List(_ context.Context) ([]*View, error) {
	views := make([]*View, 0)
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("pivots/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				view := &View{}
				if err := json.Unmarshal(value, view); err != nil {
					return err
				}
				views = append(views, view)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	slices.SortStableFunc(views, func(a, b *View) int {
		return a.Created.Compare(b.Created)
	})
	return views, nil
}

func (s *Store) Delete(ctx context.Context, id ID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(idKey(id))
	})
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("pivots/%s", id))
}
