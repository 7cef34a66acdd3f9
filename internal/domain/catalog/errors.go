package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)
