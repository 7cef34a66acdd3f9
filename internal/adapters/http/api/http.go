// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/scout/internal/adapters/repository"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/pool"
)

// maxBodyBytes caps request bodies; a season of a full league fits well
// below it.
const maxBodyBytes = 32 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Ingest(ctx context.Context, batchID string, records []model.PlayerSeasonRecord) (service.IngestReport, error)
	Search(ctx context.Context, q model.SearchQuery) (service.SearchResponse, error)
	Submit(ctx context.Context, job model.SearchJob) (string, error)
	DetectArchetype(ctx context.Context, key model.RecordKey) (service.ArchetypeReport, error)
	FindPlayer(ctx context.Context, name string) (service.PlayerLookup, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recordsHandler   *RecordsHandler
	searchHandler    *SearchHandler
	archetypeHandler *ArchetypeHandler
	playersHandler   *PlayersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recordsHandler:   NewRecordsHandler(deps),
		searchHandler:    NewSearchHandler(deps),
		archetypeHandler: NewArchetypeHandler(deps),
		playersHandler:   NewPlayersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandlePostRecords, "records"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/archetype/", MetricsMiddleware(s.archetypeHandler.HandleGetArchetype, "archetype"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleFindPlayer, "players"))
}

type errorResponse struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Suggestions []pool.Suggestion `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps a service error to its status and code.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFound *service.PlayerNotFoundError
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:        "not_found",
			Message:     notFound.Error(),
			Suggestions: notFound.Suggestions,
		})
	case errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, model.ErrInvalidQuery),
		errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, repository.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeBody reads a single JSON document from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return wrapKind("decode body", ErrBadRequest, err)
	}
	return nil
}
