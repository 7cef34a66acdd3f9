package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

const (
	metricPrefix        = "player_season_"
	tacklesMetric       = "padj_tackles_90"
	interceptionsMetric = "padj_interceptions_90"
	combinedMetric      = "padj_tackles_and_interceptions_90"
)

var birthDateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02 15:04:05", "2006/01/02"}

// Prepare cleans a raw record: identity strings are trimmed, the provider's
// metric prefix is dropped, age and canonical season are derived, the
// position group is resolved through c, and the combined tackles plus
// interceptions metric is added when both parts are present.
func Prepare(rec model.PlayerSeasonRecord, c *catalog.Catalog, now time.Time) model.PlayerSeasonRecord {
	out := rec.Clone()
	out.PlayerName = strings.TrimSpace(out.PlayerName)
	out.TeamName = strings.TrimSpace(out.TeamName)
	out.LeagueName = strings.TrimSpace(out.LeagueName)
	out.SeasonName = strings.TrimSpace(out.SeasonName)
	out.PrimaryPosition = strings.TrimSpace(out.PrimaryPosition)

	metrics := make(map[string]float64, len(out.Metrics)+1)
	for k, v := range out.Metrics {
		metrics[strings.TrimPrefix(k, metricPrefix)] = v
	}
	if t, ok := lookupFinite(metrics, tacklesMetric); ok {
		if i, ok := lookupFinite(metrics, interceptionsMetric); ok {
			metrics[combinedMetric] = t + i
		}
	}
	out.Metrics = metrics

	if out.Age == nil {
		if age, ok := AgeAt(out.BirthDate, now); ok {
			out.Age = &age
		}
	}
	if out.CanonicalSeason == 0 {
		out.CanonicalSeason = CanonicalSeason(out.SeasonName)
	}
	if g, ok := c.GroupFor(out.PrimaryPosition); ok {
		out.PositionGroup = g
	} else if _, known := c.Group(out.PositionGroup); !known {
		out.PositionGroup = ""
	}
	return out
}

// PrepareAll applies Prepare to every record.
func PrepareAll(records []model.PlayerSeasonRecord, c *catalog.Catalog, now time.Time) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, len(records))
	for i := range records {
		out[i] = Prepare(records[i], c, now)
	}
	return out
}

// AgeAt returns whole years between birthDate and now.
func AgeAt(birthDate string, now time.Time) (int, bool) {
	birthDate = strings.TrimSpace(birthDate)
	if birthDate == "" {
		return 0, false
	}
	for _, layout := range birthDateLayouts {
		b, err := time.Parse(layout, birthDate)
		if err != nil {
			continue
		}
		age := now.Year() - b.Year()
		if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
			age--
		}
		if age < 0 {
			return 0, false
		}
		return age, true
	}
	return 0, false
}

// CanonicalSeason returns the end year of a "2023/2024" season name, the
// year itself for "2024", and 0 for anything else.
func CanonicalSeason(seasonName string) int {
	s := strings.TrimSpace(seasonName)
	if _, end, found := strings.Cut(s, "/"); found {
		s = end
	}
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}

func lookupFinite(m map[string]float64, k string) (float64, bool) {
	v, ok := m[k]
	if !ok || !model.IsFinite(v) {
		return 0, false
	}
	return v, true
}
