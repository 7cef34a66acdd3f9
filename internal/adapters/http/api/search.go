package api

import (
	"net/http"

	"github.com/okian/scout/internal/domain/model"
)

// searchRequest mirrors the OpenAPI schema for POST /search.
type searchRequest struct {
	model.SearchQuery
	Async   bool   `json:"async,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type acceptedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

// SearchHandler runs similarity searches.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// HandleSearch handles POST /search. Async requests are queued for the
// worker pool and answered with 202 and the job id.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req searchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if req.Async {
		id, err := h.deps.Submit(r.Context(), model.SearchJob{Query: req.SearchQuery, ReplyTo: req.ReplyTo})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", JobID: id})
		return
	}

	resp, err := h.deps.Search(r.Context(), req.SearchQuery)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
