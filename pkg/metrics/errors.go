package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownLabel = errors.New("metrics label value not recognised")
)
