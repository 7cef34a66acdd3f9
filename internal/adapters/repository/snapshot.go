package repository

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/normalize"
)

// Snapshot is an immutable, fully normalized view of the dataset. Searches
// read a Snapshot while ingest builds the next one, so readers never see a
// partially normalized state. Returned records share maps with the
// snapshot and must not be mutated.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time
	Cohorts []normalize.CohortStats

	records  []model.PlayerSeasonRecord
	byKey    map[model.RecordKey]int
	byPlayer map[int64][]int
	byGroup  map[string][]int
}

// NewSnapshot indexes records, which must already be normalized.
func NewSnapshot(version uint64, builtAt time.Time, records []model.PlayerSeasonRecord, cohorts []normalize.CohortStats) *Snapshot {
	recs := slices.Clone(records)
	slices.SortFunc(recs, func(a, b model.PlayerSeasonRecord) int { return a.Key().Compare(b.Key()) })
	s := &Snapshot{
		Version:  version,
		BuiltAt:  builtAt,
		Cohorts:  cohorts,
		records:  recs,
		byKey:    make(map[model.RecordKey]int, len(recs)),
		byPlayer: make(map[int64][]int),
		byGroup:  make(map[string][]int),
	}
	for i := range recs {
		r := &recs[i]
		s.byKey[r.Key()] = i
		s.byPlayer[r.PlayerID] = append(s.byPlayer[r.PlayerID], i)
		if r.PositionGroup != "" {
			s.byGroup[r.PositionGroup] = append(s.byGroup[r.PositionGroup], i)
		}
	}
	return s
}

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Records returns every record in key order.
func (s *Snapshot) Records() []model.PlayerSeasonRecord { return s.records }

// Get returns the record with key.
func (s *Snapshot) Get(key model.RecordKey) (*model.PlayerSeasonRecord, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return &s.records[i], true
}

// Player returns every season of a player in key order.
func (s *Snapshot) Player(id int64) []model.PlayerSeasonRecord {
	return s.pick(s.byPlayer[id])
}

// Latest returns the player's most recent season, preferring the one with
// more minutes when seasons tie.
func (s *Snapshot) Latest(id int64) (*model.PlayerSeasonRecord, bool) {
	idx := s.byPlayer[id]
	if len(idx) == 0 {
		return nil, false
	}
	best := &s.records[idx[0]]
	for _, i := range idx[1:] {
		r := &s.records[i]
		if r.CanonicalSeason > best.CanonicalSeason ||
			(r.CanonicalSeason == best.CanonicalSeason && r.Minutes > best.Minutes) {
			best = r
		}
	}
	return best, true
}

// Group returns the records of one position group in key order.
func (s *Snapshot) Group(name string) []model.PlayerSeasonRecord {
	return s.pick(s.byGroup[name])
}

// GroupSizes returns the number of records per position group.
func (s *Snapshot) GroupSizes() map[string]int {
	out := make(map[string]int, len(s.byGroup))
	for g, idx := range s.byGroup {
		out[g] = len(idx)
	}
	return out
}

func (s *Snapshot) pick(idx []int) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, len(idx))
	for j, i := range idx {
		out[j] = s.records[i]
	}
	return out
}

// SnapshotHolder publishes snapshots atomically.
type SnapshotHolder struct {
	cur     atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewSnapshotHolder returns a holder with an empty snapshot.
func NewSnapshotHolder() *SnapshotHolder {
	h := &SnapshotHolder{}
	h.cur.Store(NewSnapshot(0, time.Time{}, nil, nil))
	return h
}

// NextVersion reserves the version number of the next snapshot.
func (h *SnapshotHolder) NextVersion() uint64 {
	return h.version.Add(1)
}

// Publish replaces the current snapshot unless s is older than it.
// It reports whether s was published.
func (h *SnapshotHolder) Publish(s *Snapshot) bool {
	for {
		old := h.cur.Load()
		if old != nil && old.Version > s.Version {
			return false
		}
		if h.cur.CompareAndSwap(old, s) {
			return true
		}
	}
}

// Load returns the current snapshot. It is never nil.
func (h *SnapshotHolder) Load() *Snapshot {
	return h.cur.Load()
}
