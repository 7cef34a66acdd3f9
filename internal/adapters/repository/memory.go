package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"
)

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	byKey    map[model.RecordKey]model.PlayerSeasonRecord
	capacity int
	closed   bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.byKey = make(map[model.RecordKey]model.PlayerSeasonRecord, s.capacity)
	return s
}

// Upsert implements Store. The batch is validated before anything is written.
func (s *MemoryStore) Upsert(ctx context.Context, records []model.PlayerSeasonRecord) (UpsertResult, error) {
	for i := range records {
		if err := Validate(&records[i]); err != nil {
			return UpsertResult{}, err
		}
	}
	if err := ctx.Err(); err != nil {
		return UpsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return UpsertResult{}, ErrClosed
	}
	var res UpsertResult
	for i := range records {
		r := stripDerived(&records[i])
		if _, ok := s.byKey[r.Key()]; ok {
			res.Updated++
		} else {
			res.Inserted++
		}
		s.byKey[r.Key()] = r
	}
	metrics.UpdateTotalRecords(len(s.byKey))
	return res, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key model.RecordKey) (model.PlayerSeasonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byKey[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.PlayerSeasonRecord{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return r.Clone(), nil
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) ([]model.PlayerSeasonRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := slices.SortedFunc(maps.Keys(s.byKey), model.RecordKey.Compare)
	out := make([]model.PlayerSeasonRecord, len(keys))
	for i, k := range keys {
		r := s.byKey[k]
		out[i] = r.Clone()
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey), nil
}

// Close implements Store. Further writes fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Validate rejects records that cannot be keyed or normalized.
func Validate(r *model.PlayerSeasonRecord) error {
	switch {
	case r.PlayerID <= 0:
		return fmt.Errorf("%w: player_id must be positive", ErrInvalidRecord)
	case r.SeasonID <= 0 || r.CompetitionID <= 0:
		return fmt.Errorf("%w: %s: competition_id and season_id must be positive", ErrInvalidRecord, r.Key())
	case r.Minutes < 0 || !model.IsFinite(r.Minutes):
		return fmt.Errorf("%w: %s: minutes must be a non-negative number", ErrInvalidRecord, r.Key())
	}
	return nil
}

func stripDerived(r *model.PlayerSeasonRecord) model.PlayerSeasonRecord {
	c := r.Clone()
	c.Pct = nil
	c.Z = nil
	return c
}
