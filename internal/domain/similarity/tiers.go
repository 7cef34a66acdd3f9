package similarity

import (
	"fmt"
	"math"
	"slices"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// Defining-trait bounds.
const (
	minDefiningK = 4
	maxDefiningK = 10
	minMatchNeed = 2
)

// Fail reasons reported on next-best rows.
const (
	FailSimilarityFloor = "similarity floor"
	FailLowCoverage     = "low coverage"
)

// thresholds are the clone-tier criteria resolved for one archetype.
type thresholds struct {
	k               int
	need            int
	toleranceZ      float64
	similarityFloor float64
	coverageFloor   float64
}

// resolveThresholds applies archetype overrides to the engine defaults.
func (e *Engine) resolveThresholds(arch *catalog.Archetype) thresholds {
	t := thresholds{
		k:               e.definingK,
		toleranceZ:      e.toleranceZ,
		similarityFloor: e.similarityFloor,
		coverageFloor:   e.coverageFloor,
	}
	if arch != nil && arch.Clone != nil {
		c := arch.Clone
		if c.DefiningK > 0 {
			t.k = c.DefiningK
		}
		if c.ToleranceZ > 0 {
			t.toleranceZ = c.ToleranceZ
		}
		if c.MatchNeed > 0 {
			t.need = c.MatchNeed
		}
		if c.SimilarityFloor > 0 {
			t.similarityFloor = c.SimilarityFloor
		}
		if c.CoverageFloor > 0 {
			t.coverageFloor = c.CoverageFloor
		}
	}
	t.k = min(max(t.k, minDefiningK), maxDefiningK)
	return t
}

// traits are the target's defining metrics: its K largest |z| values.
type traits struct {
	metrics []string
	targetZ []float64
	need    int
}

// definingTraits picks the top-K |z| metrics of the target among metrics.
// K shrinks to the number of metrics the target observes. Ties keep the
// metric order.
func definingTraits(target *model.PlayerSeasonRecord, metrics []string, t thresholds) traits {
	type cand struct {
		metric string
		z      float64
	}
	var obs []cand
	for _, m := range metrics {
		if z, ok := target.ZValue(m); ok {
			obs = append(obs, cand{metric: m, z: z})
		}
	}
	slices.SortStableFunc(obs, func(a, b cand) int {
		switch x, y := math.Abs(a.z), math.Abs(b.z); {
		case x > y:
			return -1
		case x < y:
			return 1
		}
		return 0
	})
	k := min(t.k, len(obs))
	tr := traits{
		metrics: make([]string, k),
		targetZ: make([]float64, k),
	}
	for i := 0; i < k; i++ {
		tr.metrics[i] = obs[i].metric
		tr.targetZ[i] = obs[i].z
	}
	need := t.need
	if need <= 0 {
		need = k - 1
	}
	tr.need = min(max(need, min(minMatchNeed, k)), k)
	return tr
}

// match counts the defining traits where c is within tolerance of the
// target and returns the soft score exp(−mean |Δz|) over the traits c
// observes. A missing value never matches.
func (tr traits) match(c *model.PlayerSeasonRecord, toleranceZ float64) (count int, score float64) {
	var sum float64
	n := 0
	for i, m := range tr.metrics {
		z, ok := c.ZValue(m)
		if !ok {
			continue
		}
		d := math.Abs(z - tr.targetZ[i])
		sum += d
		n++
		if d <= toleranceZ {
			count++
		}
	}
	if n == 0 {
		return count, 0
	}
	return count, math.Exp(-sum / float64(n))
}

// classify applies the clone criteria. Every failed criterion is reported.
func classify(count int, tr traits, similarity, coverage float64, t thresholds) (model.Tier, []string) {
	var reasons []string
	if count < tr.need || len(tr.metrics) == 0 {
		reasons = append(reasons, fmt.Sprintf("defining %d/%d", count, len(tr.metrics)))
	}
	if similarity < t.similarityFloor {
		reasons = append(reasons, FailSimilarityFloor)
	}
	if coverage < t.coverageFloor {
		reasons = append(reasons, FailLowCoverage)
	}
	if len(reasons) > 0 {
		return model.TierNextBest, reasons
	}
	return model.TierClone, nil
}
