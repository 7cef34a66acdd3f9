package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/scout/internal/domain/pool"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrEmptyBatch       = errors.New("empty record batch")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrBackpressure     = errors.New("search queue is full")
)

// PlayerNotFoundError reports a target that could not be resolved, with
// partial name matches when the lookup was by name.
type PlayerNotFoundError struct {
	Query       string
	Suggestions []pool.Suggestion
}

func (e *PlayerNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("player not found: %s", e.Query)
	}
	names := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		names[i] = s.PlayerName
	}
	return fmt.Sprintf("player not found: %s (did you mean %s?)", e.Query, strings.Join(names, ", "))
}

// Is makes errors.Is(err, ErrPlayerNotFound) hold.
func (e *PlayerNotFoundError) Is(target error) bool { return target == ErrPlayerNotFound }
