// Package repository persists raw player-season records and holds the
// normalized snapshot that searches read from.
package repository

import (
	"context"

	"github.com/okian/scout/internal/domain/model"
)

// UpsertResult counts the effect of an Upsert.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// Store provides read/write access to raw records. Derived Pct and Z maps
// are never persisted.
type Store interface {
	// Upsert inserts or replaces records by RecordKey.
	Upsert(ctx context.Context, records []model.PlayerSeasonRecord) (UpsertResult, error)

	// Get returns the record with key. Returns ErrNotFound if it is unknown.
	Get(ctx context.Context, key model.RecordKey) (model.PlayerSeasonRecord, error)

	// All returns every record ordered by key.
	All(ctx context.Context) ([]model.PlayerSeasonRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}
