package similarity

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// subspace is a set of space columns with its own covariance estimate.
// The covariance is fitted on unweighted values; weights scale the delta.
// Precision matrices are derived per observed-dimension mask and memoized
// for the lifetime of one search.
type subspace struct {
	name      string
	cols      []int
	weights   []float64
	cov       *mat.SymDense
	tier      string
	precision map[string]*mat.Dense
	pinvFails int
}

// fitSubspace estimates the covariance of cols over the pool rows. weights
// has one entry per col; nil means unit weights.
func fitSubspace(name string, cols []int, rows [][]float64, weights []float64, ridge float64) *subspace {
	p := len(cols)
	var complete [][]float64
	columns := make([][]float64, p)
	for _, row := range rows {
		full := true
		vals := make([]float64, p)
		for k, j := range cols {
			v := row[j]
			vals[k] = v
			if math.IsNaN(v) {
				full = false
				continue
			}
			columns[k] = append(columns[k], v)
		}
		if full {
			complete = append(complete, vals)
		}
	}
	cov, tier := estimateCovariance(complete, columns, p, ridge)
	return &subspace{
		name:      name,
		cols:      cols,
		weights:   weights,
		cov:       cov,
		tier:      tier,
		precision: make(map[string]*mat.Dense),
	}
}

// distance is the weighted Mahalanobis distance (WΔ)ᵀ Σ⁻¹ (WΔ) between
// target and row over the dimensions both observe. ok is false when they
// share none.
func (s *subspace) distance(target, row []float64) (d float64, ok bool) {
	mask := make([]byte, len(s.cols))
	shared := make([]int, 0, len(s.cols))
	delta := make([]float64, 0, len(s.cols))
	for k, j := range s.cols {
		mask[k] = '0'
		if math.IsNaN(target[j]) || math.IsNaN(row[j]) {
			continue
		}
		mask[k] = '1'
		shared = append(shared, k)
		delta = append(delta, (target[j]-row[j])*s.weight(k))
	}
	if len(shared) == 0 {
		return 0, false
	}
	prec := s.precisionFor(string(mask), shared)
	var d2 float64
	if prec != nil {
		dv := mat.NewVecDense(len(delta), delta)
		d2 = mat.Inner(dv, prec, dv)
	}
	if prec == nil || math.IsNaN(d2) || math.IsInf(d2, 0) {
		d2 = 0
		for _, v := range delta {
			d2 += v * v
		}
	}
	if d2 <= 0 {
		return 0, true
	}
	return math.Sqrt(d2), true
}

func (s *subspace) weight(k int) float64 {
	if s.weights == nil {
		return 1
	}
	return s.weights[k]
}

// precisionFor returns the pseudo-inverse of the covariance block over
// shared, or nil for Euclidean distance.
func (s *subspace) precisionFor(key string, shared []int) *mat.Dense {
	if s.cov == nil {
		return nil
	}
	if p, ok := s.precision[key]; ok {
		return p
	}
	block := mat.NewSymDense(len(shared), nil)
	for a, i := range shared {
		for b := a; b < len(shared); b++ {
			block.SetSym(a, b, s.cov.At(i, shared[b]))
		}
	}
	p, ok := pseudoInverse(block)
	if !ok {
		s.pinvFails++
		p = nil
	}
	s.precision[key] = p
	return p
}
