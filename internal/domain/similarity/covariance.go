package similarity

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Covariance estimator tiers, from most to least data-hungry.
const (
	TierLedoitWolf = "ledoit_wolf"
	TierSample     = "sample"
	TierDiagonal   = "diagonal"
	TierIdentity   = "identity"
)

const (
	ledoitWolfMinRows = 30
	sampleMinRows     = 10
	sampleExtraRows   = 5
	pinvRelativeTol   = 1e-12
)

// estimateCovariance picks an estimator by how many complete rows exist
// relative to the dimension p. complete holds rows with every dimension
// observed; columns holds every observed value per dimension for the
// diagonal fallback. A nil matrix means the identity (Euclidean distance).
func estimateCovariance(complete [][]float64, columns [][]float64, p int, ridge float64) (*mat.SymDense, string) {
	n := len(complete)
	switch {
	case p == 0:
		return nil, TierIdentity
	case n >= max(ledoitWolfMinRows, 2*p):
		cov := ledoitWolf(complete, p)
		addRidge(cov, ridge)
		return cov, TierLedoitWolf
	case n >= max(sampleMinRows, p+sampleExtraRows):
		cov := mat.NewSymDense(p, nil)
		stat.CovarianceMatrix(cov, mat.NewDense(n, p, flatten(complete, p)), nil)
		addRidge(cov, 2*ridge)
		return cov, TierSample
	}
	observed := false
	cov := mat.NewSymDense(p, nil)
	for j := 0; j < p; j++ {
		v := 1.0
		if len(columns[j]) >= 2 {
			v = stat.Variance(columns[j], nil)
			observed = true
		}
		if math.IsNaN(v) || v < 0 {
			v = 1
		}
		cov.SetSym(j, j, v+3*ridge)
	}
	if !observed {
		return nil, TierIdentity
	}
	return cov, TierDiagonal
}

// ledoitWolf returns the Ledoit-Wolf shrunk covariance of rows: the
// biased empirical covariance pulled toward a scaled identity by the
// analytically optimal shrinkage intensity.
func ledoitWolf(rows [][]float64, p int) *mat.SymDense {
	n := len(rows)
	x := mat.NewDense(n, p, flatten(rows, p))
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			x.Set(i, j, col[i]-mean)
		}
	}
	nf, pf := float64(n), float64(p)

	var x2 mat.Dense
	x2.MulElem(x, x)
	traces := make([]float64, p)
	for j := 0; j < p; j++ {
		traces[j] = mat.Sum(x2.ColView(j)) / nf
	}
	traceSum := 0.0
	for _, t := range traces {
		traceSum += t
	}
	mu := traceSum / pf

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var x2tx2 mat.Dense
	x2tx2.Mul(x2.T(), &x2)
	betaRaw := mat.Sum(&x2tx2)
	var sq mat.Dense
	sq.MulElem(&xtx, &xtx)
	deltaRaw := mat.Sum(&sq) / (nf * nf)

	beta := (betaRaw/nf - deltaRaw) / (pf * nf)
	delta := (deltaRaw - 2*mu*traceSum + pf*mu*mu) / pf
	beta = math.Min(beta, delta)
	shrinkage := 0.0
	if delta > 0 && beta > 0 {
		shrinkage = beta / delta
	}

	cov := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := (1 - shrinkage) * xtx.At(i, j) / nf
			if i == j {
				v += shrinkage * mu
			}
			cov.SetSym(i, j, v)
		}
	}
	return cov
}

// pseudoInverse returns the Moore-Penrose inverse of a through SVD,
// discarding singular values below a relative tolerance. ok is false when
// the factorization fails or every singular value is negligible.
func pseudoInverse(a mat.Matrix) (*mat.Dense, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false
	}
	s := svd.Values(nil)
	if len(s) == 0 || !(s[0] > 0) || math.IsInf(s[0], 0) {
		return nil, false
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	tol := pinvRelativeTol * s[0]
	inv := make([]float64, len(s))
	for i, sv := range s {
		if sv > tol {
			inv[i] = 1 / sv
		}
	}
	var vs mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(inv), inv))
	var out mat.Dense
	out.Mul(&vs, u.T())
	return &out, true
}

func addRidge(cov *mat.SymDense, ridge float64) {
	n := cov.SymmetricDim()
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, cov.At(i, i)+ridge)
	}
}

func flatten(rows [][]float64, p int) []float64 {
	out := make([]float64, 0, len(rows)*p)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
