package api

import (
	"net/http"

	"github.com/okian/scout/internal/domain/model"
)

// recordsRequest mirrors the OpenAPI schema for POST /records.
type recordsRequest struct {
	BatchID string                     `json:"batch_id"`
	Records []model.PlayerSeasonRecord `json:"records"`
}

// RecordsHandler accepts batches of raw player-season records.
type RecordsHandler struct {
	deps Dependencies
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies) *RecordsHandler {
	return &RecordsHandler{deps: deps}
}

// HandlePostRecords handles POST /records. The batch is stored and the
// dataset re-normalized before the response is written, so a search sent
// after a 200 sees the new records.
func (h *RecordsHandler) HandlePostRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recordsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	report, err := h.deps.Ingest(r.Context(), req.BatchID, req.Records)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
