package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// ArchetypeHandler reports archetype detection for one player.
type ArchetypeHandler struct {
	deps Dependencies
}

// NewArchetypeHandler creates a new archetype handler.
func NewArchetypeHandler(deps Dependencies) *ArchetypeHandler {
	return &ArchetypeHandler{deps: deps}
}

// HandleGetArchetype handles GET /archetype/{player_id}. Optional
// competition_id and season_id pin the season; otherwise the latest is used.
func (h *ArchetypeHandler) HandleGetArchetype(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	key, err := parseRecordKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	report, err := h.deps.DetectArchetype(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func parseRecordKey(r *http.Request) (model.RecordKey, error) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/archetype/"), "/")
	if raw == "" {
		return model.RecordKey{}, wrapKind("archetype", ErrBadRequest, fmt.Errorf("missing player_id"))
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return model.RecordKey{}, wrapKind("archetype", ErrBadRequest, fmt.Errorf("invalid player_id %q", raw))
	}
	key := model.RecordKey{PlayerID: id}
	q := r.URL.Query()
	if key.CompetitionID, err = intParam(q.Get("competition_id")); err != nil {
		return model.RecordKey{}, wrapKind("competition_id", ErrBadRequest, err)
	}
	if key.SeasonID, err = intParam(q.Get("season_id")); err != nil {
		return model.RecordKey{}, wrapKind("season_id", ErrBadRequest, err)
	}
	return key, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}
