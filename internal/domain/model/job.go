package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidQuery reports a search query that names no target or carries
// out-of-range options.
var ErrInvalidQuery = errors.New("invalid search query")

// SearchQuery is a transport-neutral search request. The target is either
// a record key (SeasonID and CompetitionID may be zero to pick the player's
// latest season) or a player name.
type SearchQuery struct {
	PlayerID      int64      `json:"player_id,omitempty"`
	CompetitionID int        `json:"competition_id,omitempty"`
	SeasonID      int        `json:"season_id,omitempty"`
	PlayerName    string     `json:"player_name,omitempty"`
	Archetype     string     `json:"archetype,omitempty"`
	Mode          SearchMode `json:"mode,omitempty"`
	TopN          int        `json:"top_n,omitempty"`
	MinMinutes    float64    `json:"min_minutes,omitempty"`
	Seasons       int        `json:"seasons,omitempty"`
	League        string     `json:"league,omitempty"`
	MinAge        *int       `json:"min_age,omitempty"`
	MaxAge        *int       `json:"max_age,omitempty"`
}

// Validate checks the query shape and normalizes the mode.
func (q *SearchQuery) Validate() error {
	q.PlayerName = strings.TrimSpace(q.PlayerName)
	if q.PlayerID <= 0 && q.PlayerName == "" {
		return fmt.Errorf("%w: player_id or player_name is required", ErrInvalidQuery)
	}
	mode, err := ParseSearchMode(string(q.Mode))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	q.Mode = mode
	switch {
	case q.TopN < 0:
		return fmt.Errorf("%w: top_n must not be negative", ErrInvalidQuery)
	case q.MinMinutes < 0:
		return fmt.Errorf("%w: min_minutes must not be negative", ErrInvalidQuery)
	case q.Seasons < 0:
		return fmt.Errorf("%w: seasons must not be negative", ErrInvalidQuery)
	case (q.MinAge == nil) != (q.MaxAge == nil):
		return fmt.Errorf("%w: min_age and max_age go together", ErrInvalidQuery)
	}
	return nil
}

// SearchJob is a search queued for asynchronous execution.
type SearchJob struct {
	ID         string      // unique id, also the idempotency key
	Query      SearchQuery // what to search for
	ReplyTo    string      // subject the result is published to; empty publishes nowhere
	EnqueuedAt time.Time
}
