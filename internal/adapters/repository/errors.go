package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrClosed        = errors.New("store closed")
)
