package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnknownMapping = errors.New("unknown similarity mapping")
)
