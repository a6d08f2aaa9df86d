package datasets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/studioanalytics/internal/slots"
)

// State holds the canonical dataset of the running process. The installed
// slice is never modified; Replace and Clear swap it wholesale.
type State struct {
	logger *slog.Logger
	store  *Store

	guard   sync.RWMutex
	dataset []slots.Slot
}

func NewState(logger *slog.Logger, store *Store) *State {
	return &State{
		logger: logger,
		store:  store,
	}
}

// Load rehydrates the dataset persisted by a previous run, if any.
func (s *State) Load(ctx context.Context) error {
	dataset, err := s.store.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("get dataset: %w", err)
	}
	for i := range dataset {
		if !dataset[i].Consistent() {
			s.logger.WarnContext(ctx, "recomputing inconsistent slot", "unique_id", dataset[i].UniqueID)
			dataset[i] = slots.Recompute(dataset[i], dataset[i].Occurrences)
		}
	}
	s.guard.Lock()
	s.dataset = dataset
	s.guard.Unlock()
	s.logger.InfoContext(ctx, "dataset loaded", "slots", len(dataset))
	return nil
}

// Get returns the active dataset. Callers must not modify it.
func (s *State) Get() []slots.Slot {
	s.guard.RLock()
	defer s.guard.RUnlock()
	return s.dataset
}

// Replace persists dataset and installs it as the active one.
func (s *State) Replace(ctx context.Context, dataset []slots.Slot) error {
	if err := s.store.Put(ctx, dataset); err != nil {
		return fmt.Errorf("put dataset: %w", err)
	}
	s.guard.Lock()
	s.dataset = dataset
	s.guard.Unlock()
	s.logger.InfoContext(ctx, "dataset replaced", "slots", len(dataset))
	return nil
}

func (s *State) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	s.guard.Lock()
	s.dataset = nil
	s.guard.Unlock()
	s.logger.InfoContext(ctx, "dataset cleared")
	return nil
}
