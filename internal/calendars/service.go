package calendars

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/studioanalytics/internal/datasets"
	"github.com/studioanalytics/internal/query"
	"github.com/studioanalytics/internal/slots"
)

var validate = validator.New()

type Service struct {
	store    *Store
	state    *datasets.State
	location *time.Location
}

func NewService(
	store *Store,
	state *datasets.State,
	location *time.Location,
) *Service {
	return &Service{
		store:    store,
		state:    state,
		location: location,
	}
}

func (s *Service) CreateCalendar(ctx context.Context, name string, request query.Request) (*Calendar, error) {
	cal := &Calendar{
		ID:      NewID(),
		Name:    name,
		Request: request,
		Created: time.Now(),
	}
	if err := validate.Struct(cal); err != nil {
		return nil, fmt.Errorf("invalid calendar: %w", err)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertCalendar(ctx, cal); err != nil {
		return nil, fmt.Errorf("insert calendar: %w", err)
	}
	return cal, nil
}

func (s *Service) DeleteCalendar(ctx context.Context, id ID) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return fmt.Errorf("find by id %q: %w", id, err)
	}
	return s.store.DeleteCalendar(ctx, id)
}

// WriteICal renders the saved calendar over the current dataset.
func (s *Service) WriteICal(ctx context.Context, w io.Writer, id ID) error {
	cal, err := s.store.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find by id %q: %w", id, err)
	}
	return WriteICal(w, cal.Name, query.Run(s.state.Get(), cal.Request), s.location)
}

// Render writes dataset as a calendar in the studio's time zone.
func (s *Service) Render(w io.Writer, name string, dataset []slots.Slot) error {
	return WriteICal(w, name, dataset, s.location)
}
