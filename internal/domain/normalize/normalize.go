// Package normalize turns raw player-season metrics into cohort-relative
// percentile and z-score columns, one cohort per position group.
package normalize

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// Default normalization configuration constants.
const (
	defaultMinCohortSize = 5
	zeroStdEpsilon       = 1e-12
)

// CohortStats describes one position group after normalization.
type CohortStats struct {
	Group        string   `json:"group"`
	Size         int      `json:"size"`
	Normalized   bool     `json:"normalized"`
	ZeroVariance []string `json:"zero_variance,omitempty"`
}

// Result holds freshly normalized records and per-group diagnostics.
type Result struct {
	Records []model.PlayerSeasonRecord
	Cohorts []CohortStats
	// Ungrouped counts records without a position group.
	Ungrouped int
}

// Normalizer computes cohort percentiles and z-scores.
type Normalizer struct {
	minCohort int
	negative  map[string]struct{}
	metrics   []string
}

// New creates a Normalizer over the default catalog's metrics.
func New(opts ...Option) *Normalizer {
	nz := &Normalizer{
		minCohort: defaultMinCohortSize,
		metrics:   catalog.Default().AllMetrics(),
	}
	WithNegativeMetrics(catalog.DefaultNegativeMetrics()...)(nz)
	for _, opt := range opts {
		opt(nz)
	}
	return nz
}

// Metrics returns the metrics this normalizer derives columns for.
func (nz *Normalizer) Metrics() []string {
	return append([]string(nil), nz.metrics...)
}

// IsNegative reports whether lower raw values are better for metric.
func (nz *Normalizer) IsNegative(metric string) bool {
	_, ok := nz.negative[metric]
	return ok
}

// Normalize returns copies of records with Pct and Z rebuilt from raw
// metrics. Inputs are not modified and any derived columns they carry are
// discarded, so normalizing the output again yields the same columns.
// Groups smaller than the minimum cohort size, and records without a group,
// get no derived entries.
func (nz *Normalizer) Normalize(ctx context.Context, records []model.PlayerSeasonRecord) (Result, error) {
	out := make([]model.PlayerSeasonRecord, len(records))
	groups := make(map[string][]int)
	var order []string
	res := Result{}
	for i := range records {
		out[i] = records[i].Clone()
		out[i].Pct = nil
		out[i].Z = nil
		g := out[i].PositionGroup
		if g == "" {
			res.Ungrouped++
			continue
		}
		if _, seen := groups[g]; !seen {
			order = append(order, g)
		}
		groups[g] = append(groups[g], i)
	}
	sort.Strings(order)

	for _, g := range order {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		idx := groups[g]
		cs := CohortStats{Group: g, Size: len(idx)}
		if len(idx) >= nz.minCohort {
			cs.Normalized = true
			for _, i := range idx {
				out[i].Pct = make(map[string]float64)
				out[i].Z = make(map[string]float64)
			}
			for _, m := range nz.metrics {
				if nz.normalizeMetric(out, idx, m) {
					cs.ZeroVariance = append(cs.ZeroVariance, m)
				}
			}
		}
		res.Cohorts = append(res.Cohorts, cs)
	}
	res.Records = out
	return res, nil
}

// normalizeMetric fills Pct and Z for metric across the cohort rows idx and
// reports whether the observed values had zero variance.
func (nz *Normalizer) normalizeMetric(out []model.PlayerSeasonRecord, idx []int, metric string) bool {
	rows := make([]int, 0, len(idx))
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		if v, ok := out[i].Value(metric); ok {
			rows = append(rows, i)
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return false
	}
	pct := PercentileRanks(vals)
	mean, std := PopMeanStd(vals)
	negative := nz.IsNegative(metric)
	zeroVar := std <= zeroStdEpsilon
	for j, i := range rows {
		p := pct[j]
		if negative {
			p = 100 - p
		}
		out[i].Pct[metric] = p
		z := 0.0
		if !zeroVar {
			z = (vals[j] - mean) / std
		}
		out[i].Z[metric] = z
	}
	return zeroVar
}

// PercentileRanks returns rank/n×100 for each value, where tied values
// share their average rank.
func PercentileRanks(vals []float64) []float64 {
	n := len(vals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })
	out := make([]float64, n)
	for start := 0; start < n; {
		end := start + 1
		for end < n && vals[order[end]] == vals[order[start]] {
			end++
		}
		// ranks start+1..end share their mean
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			out[order[k]] = avg / float64(n) * 100
		}
		start = end
	}
	return out
}

// PopMeanStd returns the mean and population standard deviation.
func PopMeanStd(vals []float64) (float64, float64) {
	n := len(vals)
	switch n {
	case 0:
		return math.NaN(), 0
	case 1:
		return vals[0], 0
	}
	mean, variance := stat.MeanVariance(vals, nil)
	popVar := variance * float64(n-1) / float64(n)
	if popVar <= 0 || math.IsNaN(popVar) {
		return mean, 0
	}
	return mean, math.Sqrt(popVar)
}
