package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/studioanalytics/internal/calendars"
	"github.com/studioanalytics/internal/datasets"
	"github.com/studioanalytics/internal/exports"
	"github.com/studioanalytics/internal/ingest"
	"github.com/studioanalytics/internal/pivots"
	"github.com/studioanalytics/internal/query"
)

const maxUploadSize = 64 << 20

func Handler(
	logger *slog.Logger,
	state *datasets.State,
	ingestService *ingest.Service,
	calendarsService *calendars.Service,
	pivotsService *pivots.Service,
) http.HandlerFunc {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /uploads", handleUpload(logger, ingestService))
	mux.HandleFunc("GET /uploads", handleListUploads(logger, ingestService))

	mux.HandleFunc("GET /slots", handleListSlots(logger, state))
	mux.HandleFunc("POST /slots/query", handleQuerySlots(logger, state))
	mux.HandleFunc("DELETE /slots", handleResetSlots(logger, state))
	mux.HandleFunc("GET /options", handleOptions(state))

	mux.HandleFunc("GET /exports/{format}", handleExport(logger, state, calendarsService))

	mux.HandleFunc("GET /pivots", handleListPivots(logger, pivotsService))
	mux.HandleFunc("POST /pivots", handleCreatePivot(logger, pivotsService))
	mux.HandleFunc("DELETE /pivots/{id}", handleDeletePivot(logger, pivotsService))
	mux.HandleFunc("GET /pivots/{id}/table", handlePivotTable(logger, pivotsService))

	mux.HandleFunc("POST /calendars", handleCreateCalendar(logger, calendarsService))
	mux.HandleFunc("GET /calendars/{id}/classes.ics", handleGetCalendar(logger, calendarsService))
	mux.HandleFunc("DELETE /calendars/{id}", handleDeleteCalendar(logger, calendarsService))

	return WithMiddlewares(
		WithAccessLogs(logger),
		WithRecovery(logger),
	)(mux.ServeHTTP)
}

func statusOf(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, ingest.ErrIngestionInProgress):
		return http.StatusConflict
	case errors.Is(err, ingest.ErrInvalidArchive),
		errors.Is(err, ingest.ErrNoCSV),
		errors.Is(err, ingest.ErrEmptyCSV):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pivots.ErrNotFound), errors.Is(err, calendars.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pivots.ErrInvalidView), errors.As(err, &validationErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(logger *slog.Logger, r *http.Request, w http.ResponseWriter, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func handleUpload(logger *slog.Logger, ingestService *ingest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "read upload", fmt.Errorf("read file: %w", err))
			return
		}
		defer file.Close()

		upload, err := ingestService.Ingest(r.Context(), header.Filename, file, header.Size)
		if err != nil {
			status := statusOf(err)
			if upload == nil || status == http.StatusInternalServerError {
				writeError(logger, r, w, status, "ingest", err)
				return
			}
			writeJSON(w, status, map[string]any{"error": err.Error(), "upload": upload})
			return
		}
		writeJSON(w, http.StatusCreated, upload)
	}
}

func handleListUploads(logger *slog.Logger, ingestService *ingest.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := ingestService.ListUploads(r.Context())
		if err != nil {
			writeError(logger, r, w, http.StatusInternalServerError, "list uploads", err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleListSlots(logger *slog.Logger, state *datasets.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromParams(r.URL.Query())
		if err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "parse query", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(query.Run(state.Get(), req)))
	}
}

func handleQuerySlots(logger *slog.Logger, state *datasets.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req query.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "decode request", fmt.Errorf("decode request: %w", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "validate request", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(query.Run(state.Get(), req)))
	}
}

func handleResetSlots(logger *slog.Logger, state *datasets.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := state.Clear(r.Context()); err != nil {
			writeError(logger, r, w, http.StatusInternalServerError, "clear dataset", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleOptions(state *datasets.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, query.ListChoices(state.Get()))
	}
}

func handleExport(logger *slog.Logger, state *datasets.State, calendarsService *calendars.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := requestFromParams(r.URL.Query())
		if err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "parse query", err)
			return
		}
		dataset := query.Run(state.Get(), req)
		now := time.Now()

		var filename, contentType string
		var write func() error
		switch r.PathValue("format") {
		case "csv":
			filename, contentType = exports.CSVFilename(now), "text/csv"
			write = func() error { return exports.WriteCSV(w, dataset) }
		case "json":
			filename, contentType = exports.JSONFilename, "application/json"
			write = func() error { return exports.WriteJSON(w, dataset) }
		case "xlsx":
			filename, contentType = exports.XLSXFilename(now), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			write = func() error { return exports.WriteXLSX(w, dataset) }
		case "ics":
			filename, contentType = "class_data.ics", "text/calendar"
			write = func() error { return calendarsService.Render(w, "Classes", dataset) }
		default:
			writeError(logger, r, w, http.StatusNotFound, "export", fmt.Errorf("%q: unknown export format", r.PathValue("format")))
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := write(); err != nil {
			// Headers are already out, so the client sees a truncated body.
			logger.ErrorContext(r.Context(), "write export", "format", r.PathValue("format"), "error", err)
		}
	}
}

func handleListPivots(logger *slog.Logger, pivotsService *pivots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := pivotsService.ListViews(r.Context())
		if err != nil {
			writeError(logger, r, w, http.StatusInternalServerError, "list pivots", err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func handleCreatePivot(logger *slog.Logger, pivotsService *pivots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var view pivots.View
		if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "decode view", fmt.Errorf("decode view: %w", err))
			return
		}
		created, err := pivotsService.CreateView(r.Context(), view)
		if err != nil {
			writeError(logger, r, w, statusOf(err), "create pivot", err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func handleDeletePivot(logger *slog.Logger, pivotsService *pivots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pivotsService.DeleteView(r.Context(), pivots.ID(r.PathValue("id"))); err != nil {
			writeError(logger, r, w, statusOf(err), "delete pivot", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handlePivotTable(logger *slog.Logger, pivotsService *pivots.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := pivotsService.ComputeView(r.Context(), pivots.ID(r.PathValue("id")))
		if err != nil {
			writeError(logger, r, w, statusOf(err), "compute pivot", err)
			return
		}
		writeJSON(w, http.StatusOK, table)
	}
}

type createCalendarRequest struct {
	Name    string        `json:"name"`
	Request query.Request `json:"request"`
}

type calendarResponse struct {
	*calendars.Calendar
	URL string `json:"url"`
}

func handleCreateCalendar(logger *slog.Logger, calendarsService *calendars.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createCalendarRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(logger, r, w, http.StatusBadRequest, "decode calendar", fmt.Errorf("decode calendar: %w", err))
			return
		}
		cal, err := calendarsService.CreateCalendar(r.Context(), body.Name, body.Request)
		if err != nil {
			writeError(logger, r, w, statusOf(err), "create calendar", err)
			return
		}
		writeJSON(w, http.StatusCreated, calendarResponse{
			Calendar: cal,
			URL:      fmt.Sprintf("/calendars/%s/classes.ics", cal.ID),
		})
	}
}

func handleGetCalendar(logger *slog.Logger, calendarsService *calendars.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := calendars.ID(r.PathValue("id"))
		w.Header().Set("Content-Type", "text/calendar")
		if err := calendarsService.WriteICal(r.Context(), w, id); err != nil {
			writeError(logger, r, w, statusOf(err), "write calendar", err)
			return
		}
	}
}

func handleDeleteCalendar(logger *slog.Logger, calendarsService *calendars.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := calendarsService.DeleteCalendar(r.Context(), calendars.ID(r.PathValue("id"))); err != nil {
			writeError(logger, r, w, statusOf(err), "delete calendar", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
