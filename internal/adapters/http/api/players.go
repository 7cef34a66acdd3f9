package api

import (
	"net/http"
)

// PlayersHandler looks players up by name.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleFindPlayer handles GET /players?name=.
func (h *PlayersHandler) HandleFindPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	lookup, err := h.deps.FindPlayer(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lookup)
}
