package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrNoReference = errors.New("no reference distribution for group")
)
