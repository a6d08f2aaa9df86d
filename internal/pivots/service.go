package pivots

import (
	"context"
	"fmt"
	"time"

	"github.com/studioanalytics/internal/datasets"
)

type Service struct {
	store *Store
	state *datasets.State
}

func NewService(
	store *Store,
	state *datasets.State,
) *Service {
	return &Service{
		store: store,
		state: state,
	}
}

func (s *Service) CreateView(ctx context.Context, view View) (*View, error) {
	view.ID = NewID()
	view.Created = time.Now()
	view.TimeGrouping = normalizeGrouping(view.TimeGrouping)
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, &view); err != nil {
		return nil, fmt.Errorf("insert view: %w", err)
	}
	return &view, nil
}

func (s *Service) ListViews(ctx context.Context) ([]*View, error) {
	return s.store.List(ctx)
}

func (s *Service) DeleteView(ctx context.Context, id ID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete view %q: %w", id, err)
	}
	return nil
}

// ComputeView pivots the current dataset with a saved view.
func (s *Service) ComputeView(ctx context.Context, id ID) (*Table, error) {
	view, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find by id %q: %w", id, err)
	}
	return Compute(s.state.Get(), view), nil
}
