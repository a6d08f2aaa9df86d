package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/studioanalytics/internal/datasets"
	"github.com/studioanalytics/internal/slots"
	"github.com/studioanalytics/internal/uploads"
)

var ErrIngestionInProgress = errors.New("another upload is being processed")

// Notifier receives a short human readable message after every upload.
type Notifier interface {
	Broadcast(ctx context.Context, message string) error
}

type Service struct {
	logger       *slog.Logger
	state        *datasets.State
	uploadsStore *uploads.Store
	marker       string

	busy      sync.Mutex
	notifiers []Notifier
}

func NewService(
	logger *slog.Logger,
	state *datasets.State,
	uploadsStore *uploads.Store,
	marker string,
) *Service {
	return &Service{
		logger:       logger,
		state:        state,
		uploadsStore: uploadsStore,
		marker:       marker,
	}
}

// Init marks uploads left unfinished by a previous process as failed.
func (s *Service) Init(ctx context.Context) error {
	interrupted, err := s.uploadsStore.List(ctx, uploads.ByStatus(uploads.StatusPending, uploads.StatusRunning))
	if err != nil {
		return fmt.Errorf("list unfinished uploads: %w", err)
	}
	for _, upload := range interrupted {
		upload.Status = uploads.StatusFailed
		upload.Error = "interrupted by restart"
		if err := s.uploadsStore.Insert(ctx, upload); err != nil {
			return fmt.Errorf("insert upload: %w", err)
		}
		s.logger.WarnContext(ctx, "upload interrupted", "upload_id", upload.ID, "filename", upload.Filename)
	}
	return nil
}

func (s *Service) AddNotifier(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

func (s *Service) notify(ctx context.Context, message string) {
	for _, n := range s.notifiers {
		if err := n.Broadcast(ctx, message); err != nil {
			s.logger.ErrorContext(ctx, "notify", "error", err)
		}
	}
}

// Ingest reads the archive, aggregates its rows and installs the result as the
// active dataset. Only one ingestion runs at a time; on failure the previous
// dataset stays in place.
func (s *Service) Ingest(ctx context.Context, filename string, r io.ReaderAt, size int64) (*uploads.Upload, error) {
	if !s.busy.TryLock() {
		return nil, ErrIngestionInProgress
	}
	defer s.busy.Unlock()

	start := time.Now()
	upload := uploads.NewUpload(filename, start)
	upload.Status = uploads.StatusRunning
	if err := s.uploadsStore.Insert(ctx, upload); err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}
	s.logger.InfoContext(ctx, "ingestion started", "upload_id", upload.ID, "filename", filename)

	ingestErr := s.ingest(ctx, upload, r, size)
	upload.Duration = time.Since(start).Round(time.Millisecond).String()
	if ingestErr != nil {
		upload.Status = uploads.StatusFailed
		upload.Error = ingestErr.Error()
		s.logger.WarnContext(ctx, "ingestion failed", "upload_id", upload.ID, "error", ingestErr)
		s.notify(ctx, fmt.Sprintf("Upload %s failed: %s", filename, ingestErr))
	} else {
		upload.Status = uploads.StatusSucceeded
		s.logger.InfoContext(ctx, "ingestion succeeded",
			"upload_id", upload.ID,
			"rows", upload.Rows,
			"skipped", upload.Skipped,
			"slots", upload.Slots)
		s.notify(ctx, fmt.Sprintf("Upload %s processed: %d rows, %d class slots", filename, upload.Rows, upload.Slots))
	}

	if err := s.uploadsStore.Insert(ctx, upload); err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}
	return upload, ingestErr
}

func (s *Service) ingest(ctx context.Context, upload *uploads.Upload, r io.ReaderAt, size int64) error {
	table, err := ReadArchive(r, size, s.marker)
	if err != nil {
		return err
	}
	upload.Source = table.Name

	aggregator := slots.NewAggregator(s.logger.With("upload_id", upload.ID))
	for _, row := range table.Rows {
		aggregator.Add(row)
	}
	upload.Rows = aggregator.Rows()
	upload.Skipped = aggregator.Skipped()
	upload.Slots = len(aggregator.Slots())
	if upload.Slots == 0 {
		return ErrEmptyCSV
	}

	if err := s.state.Replace(ctx, aggregator.Slots()); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

func (s *Service) ListUploads(ctx context.Context) ([]*uploads.Upload, error) {
	return s.uploadsStore.List(ctx)
}
