package similarity

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// space is the robust-scaled metric space of one search. Values are NaN
// where a record has no z-score for the metric. weights hold the identity
// metric weights, applied to deltas at distance time.
type space struct {
	metrics []string
	weights []float64
	center  []float64
	scale   []float64
	target  []float64
	rows    [][]float64
}

// selectMetrics returns the identity union of the group restricted to
// metrics somebody in the search observed, falling back to the detected
// archetype's own identity metrics.
func selectMetrics(group *catalog.PositionGroup, arch *catalog.Archetype, target *model.PlayerSeasonRecord, pool []*model.PlayerSeasonRecord) []string {
	available := func(metrics []string) []string {
		out := make([]string, 0, len(metrics))
		for _, m := range metrics {
			if observedAnywhere(m, target, pool) {
				out = append(out, m)
			}
		}
		return out
	}
	if union := available(group.IdentityUnion()); len(union) > 0 {
		return union
	}
	if arch == nil {
		return nil
	}
	own := slices.Clone(arch.IdentityMetrics)
	slices.Sort(own)
	return available(slices.Compact(own))
}

func observedAnywhere(metric string, target *model.PlayerSeasonRecord, pool []*model.PlayerSeasonRecord) bool {
	if _, ok := target.ZValue(metric); ok {
		return true
	}
	for _, r := range pool {
		if _, ok := r.ZValue(metric); ok {
			return true
		}
	}
	return false
}

// buildSpace robust-scales each metric over the pool (median and IQR of the
// observed z-scores, IQR 0 → 1) and records the metric weight.
func buildSpace(metrics []string, arch *catalog.Archetype, target *model.PlayerSeasonRecord, pool []*model.PlayerSeasonRecord) *space {
	sp := &space{
		metrics: metrics,
		weights: make([]float64, len(metrics)),
		center:  make([]float64, len(metrics)),
		scale:   make([]float64, len(metrics)),
		rows:    make([][]float64, len(pool)),
	}
	col := make([]float64, 0, len(pool))
	for j, m := range metrics {
		sp.weights[j] = 1
		if arch != nil && arch.HasIdentity(m) && arch.KeyWeight > 0 {
			sp.weights[j] = arch.KeyWeight
		}
		col = col[:0]
		for _, r := range pool {
			if z, ok := r.ZValue(m); ok {
				col = append(col, z)
			}
		}
		sp.center[j], sp.scale[j] = 0, 1
		if len(col) > 0 {
			slices.Sort(col)
			sp.center[j] = stat.Quantile(0.5, stat.LinInterp, col, nil)
			iqr := stat.Quantile(0.75, stat.LinInterp, col, nil) - stat.Quantile(0.25, stat.LinInterp, col, nil)
			if iqr > 0 && !math.IsNaN(iqr) {
				sp.scale[j] = iqr
			}
		}
	}
	sp.target = sp.project(target)
	for i, r := range pool {
		sp.rows[i] = sp.project(r)
	}
	return sp
}

func (sp *space) project(r *model.PlayerSeasonRecord) []float64 {
	out := make([]float64, len(sp.metrics))
	for j, m := range sp.metrics {
		z, ok := r.ZValue(m)
		if !ok {
			out[j] = math.NaN()
			continue
		}
		out[j] = (z - sp.center[j]) / sp.scale[j]
	}
	return out
}

// observedFraction is the share of the space's metrics observed in row.
func observedFraction(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	n := 0
	for _, v := range row {
		if !math.IsNaN(v) {
			n++
		}
	}
	return float64(n) / float64(len(row))
}

// weightsFor returns the metric weights of cols.
func (sp *space) weightsFor(cols []int) []float64 {
	out := make([]float64, len(cols))
	for k, j := range cols {
		out[k] = sp.weights[j]
	}
	return out
}

// indexOf maps metric names to their column in the space.
func (sp *space) indexOf(metrics []string) []int {
	out := make([]int, 0, len(metrics))
	for _, m := range metrics {
		if j := slices.Index(sp.metrics, m); j >= 0 {
			out = append(out, j)
		}
	}
	return out
}
