package similarity

import "errors"

// Sentinel kinds for engine configuration.
var (
	ErrInvalidBlend = errors.New("style and output weights must be non-negative and sum to 1")
	ErrNilTarget    = errors.New("search target is nil")
)
