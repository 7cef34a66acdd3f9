// Package model contains domain models passed between layers.
package model

import (
	"cmp"
	"fmt"
	"maps"
	"math"
)

// RecordKey identifies one player-season row.
type RecordKey struct {
	PlayerID      int64 `json:"player_id"`
	CompetitionID int   `json:"competition_id"`
	SeasonID      int   `json:"season_id"`
}

// String renders the key as player/competition/season.
func (k RecordKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.PlayerID, k.CompetitionID, k.SeasonID)
}

// Compare orders keys by player, competition, then season.
func (k RecordKey) Compare(o RecordKey) int {
	return cmp.Or(
		cmp.Compare(k.PlayerID, o.PlayerID),
		cmp.Compare(k.CompetitionID, o.CompetitionID),
		cmp.Compare(k.SeasonID, o.SeasonID),
	)
}

// Less reports whether k sorts before o.
func (k RecordKey) Less(o RecordKey) bool { return k.Compare(o) < 0 }

// PlayerSeasonRecord is one row per (player, competition, season).
// Metrics holds raw values keyed by metric name; an absent key is a missing
// value. Pct and Z are derived per position group by the normalizer and are
// nil until then.
type PlayerSeasonRecord struct {
	PlayerID        int64              `json:"player_id"`
	PlayerName      string             `json:"player_name"`
	TeamName        string             `json:"team_name"`
	LeagueName      string             `json:"league_name"`
	CompetitionID   int                `json:"competition_id"`
	SeasonID        int                `json:"season_id"`
	SeasonName      string             `json:"season_name"`
	CanonicalSeason int                `json:"canonical_season"`
	BirthDate       string             `json:"birth_date,omitempty"`
	Age             *int               `json:"age,omitempty"`
	PrimaryPosition string             `json:"primary_position"`
	PositionGroup   string             `json:"position_group"`
	Minutes         float64            `json:"minutes"`
	Metrics         map[string]float64 `json:"metrics"`
	Pct             map[string]float64 `json:"pct,omitempty"`
	Z               map[string]float64 `json:"z,omitempty"`
}

// Key returns the record identity.
func (r *PlayerSeasonRecord) Key() RecordKey {
	return RecordKey{PlayerID: r.PlayerID, CompetitionID: r.CompetitionID, SeasonID: r.SeasonID}
}

// Value returns the raw metric. NaN and infinities count as missing.
func (r *PlayerSeasonRecord) Value(metric string) (float64, bool) {
	return lookup(r.Metrics, metric)
}

// PctValue returns the cohort percentile for metric.
func (r *PlayerSeasonRecord) PctValue(metric string) (float64, bool) {
	return lookup(r.Pct, metric)
}

// ZValue returns the cohort z-score for metric.
func (r *PlayerSeasonRecord) ZValue(metric string) (float64, bool) {
	return lookup(r.Z, metric)
}

// Clone returns a deep copy.
func (r *PlayerSeasonRecord) Clone() PlayerSeasonRecord {
	out := *r
	if r.Age != nil {
		age := *r.Age
		out.Age = &age
	}
	out.Metrics = maps.Clone(r.Metrics)
	out.Pct = maps.Clone(r.Pct)
	out.Z = maps.Clone(r.Z)
	return out
}

// IsFinite reports whether v is a usable observation.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func lookup(m map[string]float64, metric string) (float64, bool) {
	v, ok := m[metric]
	if !ok || !IsFinite(v) {
		return 0, false
	}
	return v, true
}
