package nats

import "errors"

// ErrMalformed marks a payload that can never be processed; such messages
// are terminated instead of redelivered.
var ErrMalformed = errors.New("malformed message")
