package similarity

import (
	"math"
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

func sampleRows(n, p int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, p)
		for j := range rows[i] {
			rows[i][j] = math.Sin(0.3*float64((i+1)*(j+3))) + 0.1*float64(j)
		}
	}
	return rows
}

func columnsOf(rows [][]float64, p int) [][]float64 {
	cols := make([][]float64, p)
	for _, r := range rows {
		for j, v := range r {
			cols[j] = append(cols[j], v)
		}
	}
	return cols
}

func TestEstimateCovariance(t *testing.T) {
	convey.Convey("Given complete rows of three dimensions", t, func() {
		convey.Convey("Then the tier follows the row count", func() {
			for _, tc := range []struct {
				n    int
				tier string
			}{
				{40, TierLedoitWolf},
				{30, TierLedoitWolf},
				{12, TierSample},
				{10, TierSample},
				{5, TierDiagonal},
				{2, TierDiagonal},
			} {
				rows := sampleRows(tc.n, 3)
				cov, tier := estimateCovariance(rows, columnsOf(rows, 3), 3, DefaultRidge)
				convey.So(tier, convey.ShouldEqual, tc.tier)
				convey.So(cov, convey.ShouldNotBeNil)
				for i := 0; i < 3; i++ {
					convey.So(cov.At(i, i), convey.ShouldBeGreaterThan, 0)
				}
			}
		})

		convey.Convey("Then single observations fall back to the identity", func() {
			rows := sampleRows(1, 3)
			cov, tier := estimateCovariance(rows, columnsOf(rows, 3), 3, DefaultRidge)
			convey.So(tier, convey.ShouldEqual, TierIdentity)
			convey.So(cov, convey.ShouldBeNil)
		})

		convey.Convey("Then an empty subspace is the identity", func() {
			_, tier := estimateCovariance(nil, nil, 0, DefaultRidge)
			convey.So(tier, convey.ShouldEqual, TierIdentity)
		})
	})
}

func TestLedoitWolf(t *testing.T) {
	convey.Convey("Given fifty rows of four dimensions", t, func() {
		rows := sampleRows(50, 4)
		cov := ledoitWolf(rows, 4)

		convey.Convey("Then shrinkage keeps the trace of the empirical covariance", func() {
			var trace float64
			for j := 0; j < 4; j++ {
				col := make([]float64, 50)
				for i := range rows {
					col[i] = rows[i][j]
				}
				var mean, ss float64
				for _, v := range col {
					mean += v
				}
				mean /= 50
				for _, v := range col {
					ss += (v - mean) * (v - mean)
				}
				trace += ss / 50
			}
			convey.So(mat.Trace(cov), convey.ShouldAlmostEqual, trace, 1e-9)
		})

		convey.Convey("Then the estimate is symmetric positive definite", func() {
			var chol mat.Cholesky
			convey.So(chol.Factorize(cov), convey.ShouldBeTrue)
		})
	})
}

func TestPseudoInverse(t *testing.T) {
	convey.Convey("Given a diagonal matrix", t, func() {
		inv, ok := pseudoInverse(mat.NewSymDense(2, []float64{2, 0, 0, 4}))

		convey.Convey("Then the inverse is the reciprocal diagonal", func() {
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(inv.At(0, 0), convey.ShouldAlmostEqual, 0.5, 1e-12)
			convey.So(inv.At(1, 1), convey.ShouldAlmostEqual, 0.25, 1e-12)
			convey.So(inv.At(0, 1), convey.ShouldAlmostEqual, 0, 1e-12)
		})
	})

	convey.Convey("Given a singular matrix", t, func() {
		inv, ok := pseudoInverse(mat.NewSymDense(2, []float64{1, 1, 1, 1}))

		convey.Convey("Then the Moore-Penrose inverse is returned", func() {
			convey.So(ok, convey.ShouldBeTrue)
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					convey.So(inv.At(i, j), convey.ShouldAlmostEqual, 0.25, 1e-12)
				}
			}
		})
	})

	convey.Convey("Given the zero matrix", t, func() {
		_, ok := pseudoInverse(mat.NewSymDense(2, nil))

		convey.Convey("Then the inversion is reported as failed", func() {
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestSubspaceDistance(t *testing.T) {
	convey.Convey("Given a subspace without a covariance estimate", t, func() {
		s := &subspace{cols: []int{0, 1, 2}, precision: map[string]*mat.Dense{}}

		convey.Convey("Then distance is Euclidean over shared dimensions", func() {
			d, ok := s.distance([]float64{0, 0, math.NaN()}, []float64{3, 4, 1})
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(d, convey.ShouldAlmostEqual, 5, 1e-12)
		})

		convey.Convey("Then rows sharing nothing are not comparable", func() {
			_, ok := s.distance([]float64{0, math.NaN(), math.NaN()}, []float64{math.NaN(), 1, 1})
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a diagonal covariance", t, func() {
		s := &subspace{
			cols:      []int{0, 1},
			cov:       mat.NewSymDense(2, []float64{4, 0, 0, 1}),
			precision: map[string]*mat.Dense{},
		}

		convey.Convey("Then each dimension is scaled by its variance", func() {
			d, ok := s.distance([]float64{0, 0}, []float64{2, 0})
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(d, convey.ShouldAlmostEqual, 1, 1e-12)
			convey.So(s.precision, convey.ShouldHaveLength, 1)
		})

		convey.Convey("Then a weight scales the delta, not the covariance", func() {
			weighted := &subspace{cols: s.cols, weights: []float64{3, 1}, cov: s.cov, precision: map[string]*mat.Dense{}}
			d, ok := weighted.distance([]float64{0, 0}, []float64{2, 0})
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(d, convey.ShouldAlmostEqual, 3, 1e-12)
		})
	})
}

func TestDefiningTraits(t *testing.T) {
	convey.Convey("Given a target with seven observed metrics", t, func() {
		target := &model.PlayerSeasonRecord{Z: map[string]float64{
			"a": 0.1, "b": -3, "c": 2, "d": 0.5, "e": 1, "f": -1, "g": 0,
		}}
		metrics := []string{"a", "b", "c", "d", "e", "f", "g"}
		th := thresholds{k: 4, toleranceZ: 0.6}
		tr := definingTraits(target, metrics, th)

		convey.Convey("Then the largest absolute z-scores are chosen", func() {
			convey.So(tr.metrics, convey.ShouldResemble, []string{"b", "c", "e", "f"})
			convey.So(tr.need, convey.ShouldEqual, 3)
		})

		convey.Convey("Then a candidate off on one trait matches the rest", func() {
			c := &model.PlayerSeasonRecord{Z: map[string]float64{"b": -2, "c": 2, "e": 1, "f": -1}}
			count, score := tr.match(c, th.toleranceZ)
			convey.So(count, convey.ShouldEqual, 3)
			convey.So(score, convey.ShouldAlmostEqual, math.Exp(-0.25), 1e-12)
		})

		convey.Convey("Then missing candidate values never match", func() {
			count, score := tr.match(&model.PlayerSeasonRecord{}, th.toleranceZ)
			convey.So(count, convey.ShouldEqual, 0)
			convey.So(score, convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given a target observing only two metrics", t, func() {
		target := &model.PlayerSeasonRecord{Z: map[string]float64{"a": 1, "b": 2}}
		tr := definingTraits(target, []string{"a", "b", "c"}, thresholds{k: 6})

		convey.Convey("Then K shrinks and the need stays within bounds", func() {
			convey.So(tr.metrics, convey.ShouldResemble, []string{"b", "a"})
			convey.So(tr.need, convey.ShouldEqual, 2)
		})
	})
}

func TestClassify(t *testing.T) {
	convey.Convey("Given default thresholds", t, func() {
		th := thresholds{k: 6, similarityFloor: DefaultSimilarityFloor, coverageFloor: DefaultCoverageFloor}
		tr := traits{metrics: []string{"a", "b", "c", "d", "e", "f"}, need: 5}

		convey.Convey("Then meeting every criterion is a clone", func() {
			tier, reasons := classify(5, tr, 60, 0.7, th)
			convey.So(tier, convey.ShouldEqual, model.TierClone)
			convey.So(reasons, convey.ShouldBeEmpty)
		})

		convey.Convey("Then every failed criterion is reported", func() {
			tier, reasons := classify(3, tr, 59.9, 0.5, th)
			convey.So(tier, convey.ShouldEqual, model.TierNextBest)
			convey.So(reasons, convey.ShouldResemble, []string{"defining 3/6", FailSimilarityFloor, FailLowCoverage})
		})
	})
}

func TestExplain(t *testing.T) {
	convey.Convey("Given target and candidate z-scores", t, func() {
		target := &model.PlayerSeasonRecord{Z: map[string]float64{"a": 0, "b": 1, "c": 2, "d": 5}}
		c := &model.PlayerSeasonRecord{Z: map[string]float64{"a": 0, "b": 0, "c": 0}}
		similar, different := explain(target, c, []string{"a", "b", "c", "d"}, []float64{1, 1, 1, 1})

		convey.Convey("Then shared metrics are ranked by weighted difference", func() {
			convey.So(similar, convey.ShouldResemble, []string{"a", "b", "c"})
			convey.So(different, convey.ShouldResemble, []string{"c", "b"})
		})
	})
}
