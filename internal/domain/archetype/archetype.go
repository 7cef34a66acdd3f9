// Package archetype scores a player against the role archetypes of its
// position group.
package archetype

import (
	"sort"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// Score is one archetype's affinity for a player.
type Score struct {
	Archetype string  `json:"archetype"`
	Score     float64 `json:"score"`
	Observed  int     `json:"observed"`
}

// Detection is the outcome of Detect. Found is false only when there were
// no archetypes to score.
type Detection struct {
	Best   *catalog.Archetype `json:"best,omitempty"`
	Found  bool               `json:"found"`
	Scores []Score            `json:"scores"`
}

// Detect scores each archetype as the mean percentile of its identity
// metrics that rec has observed, or 0 when none are. The highest score wins;
// on ties the archetype listed first wins. Scores are returned best first
// with ties kept in configuration order.
func Detect(rec *model.PlayerSeasonRecord, archetypes []catalog.Archetype) Detection {
	if len(archetypes) == 0 {
		return Detection{}
	}
	scores := make([]Score, len(archetypes))
	best := 0
	for i := range archetypes {
		scores[i] = scoreOne(rec, &archetypes[i])
		if scores[i].Score > scores[best].Score {
			best = i
		}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].Score > scores[b].Score })
	return Detection{Best: &archetypes[best], Found: true, Scores: scores}
}

func scoreOne(rec *model.PlayerSeasonRecord, a *catalog.Archetype) Score {
	sum := 0.0
	n := 0
	for _, m := range a.IdentityMetrics {
		if p, ok := rec.PctValue(m); ok {
			sum += p
			n++
		}
	}
	s := Score{Archetype: a.Name, Observed: n}
	if n > 0 {
		s.Score = sum / float64(n)
	}
	return s
}
