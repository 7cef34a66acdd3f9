package pool

import "errors"

// Sentinel kinds for pool selection.
var (
	ErrUnknownLeagueFilter = errors.New("unknown league filter")
	ErrInvalidAgeRange     = errors.New("invalid age range")
)
