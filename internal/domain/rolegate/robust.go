package rolegate

import (
	"math"
	"sort"
)

// scaler holds per-column robust centring and spread.
type scaler struct {
	median []float64
	iqr    []float64
}

// fitScaler computes median and interquartile range per column of rows,
// ignoring NaN. Columns with no observations or no spread scale by 1.
func fitScaler(rows [][]float64, p int) scaler {
	s := scaler{median: make([]float64, p), iqr: make([]float64, p)}
	col := make([]float64, 0, len(rows))
	for j := 0; j < p; j++ {
		col = col[:0]
		for _, r := range rows {
			if !math.IsNaN(r[j]) {
				col = append(col, r[j])
			}
		}
		if len(col) == 0 {
			s.iqr[j] = 1
			continue
		}
		sort.Float64s(col)
		s.median[j] = quantile(col, 0.5)
		iqr := quantile(col, 0.75) - quantile(col, 0.25)
		if iqr <= 0 || math.IsNaN(iqr) {
			iqr = 1
		}
		s.iqr[j] = iqr
	}
	return s
}

// transform scales v; missing entries become 0, the column centre.
func (s scaler) transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for j, x := range v {
		if math.IsNaN(x) {
			continue
		}
		out[j] = (x - s.median[j]) / s.iqr[j]
	}
	return out
}

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
