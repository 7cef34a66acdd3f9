package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/scout/internal/domain/model"
	scoring "github.com/okian/scout/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMappings(t *testing.T) {
	Convey("Given the distance mappings", t, func() {
		exp, err := scoring.NewMapping("exp", 0)
		So(err, ShouldBeNil)
		rec, err := scoring.NewMapping("reciprocal", 2)
		So(err, ShouldBeNil)

		Convey("Then zero distance maps to 100", func() {
			So(exp.Similarity(0), ShouldEqual, 100)
			So(rec.Similarity(0), ShouldEqual, 100)
		})

		Convey("Then similarity decreases monotonically toward 0", func() {
			prevE, prevR := 101.0, 101.0
			for _, d := range []float64{0, 0.5, 1, 2, 4, 8, 50, 1000} {
				e, r := exp.Similarity(d), rec.Similarity(d)
				So(e, ShouldBeLessThan, prevE)
				So(r, ShouldBeLessThan, prevR)
				prevE, prevR = e, r
			}
			So(exp.Similarity(1e6), ShouldBeLessThan, 1e-9)
			So(rec.Similarity(1e12), ShouldBeLessThan, 1e-6)
		})

		Convey("Then the default constants are applied", func() {
			So(exp.Similarity(2), ShouldAlmostEqual, 100*math.Exp(-1), 1e-9)
			So(rec.Similarity(2), ShouldAlmostEqual, 50, 1e-9)
			So(exp.Name(), ShouldEqual, "exp")
			So(rec.Name(), ShouldEqual, "reciprocal")
		})

		Convey("Then invalid distances map to 0", func() {
			So(exp.Similarity(math.NaN()), ShouldEqual, 0)
			So(exp.Similarity(math.Inf(1)), ShouldEqual, 0)
			So(rec.Similarity(-1), ShouldEqual, 0)
		})

		Convey("Then unknown mappings are rejected", func() {
			_, err := scoring.NewMapping("sigmoid", 1)
			So(errors.Is(err, scoring.ErrUnknownMapping), ShouldBeTrue)
		})
	})
}

func TestCoverageAndBonus(t *testing.T) {
	Convey("Given coverage fractions", t, func() {
		Convey("Then coverage is their geometric mean", func() {
			So(scoring.Coverage(1, 1), ShouldEqual, 1)
			So(scoring.Coverage(1, 0.25), ShouldAlmostEqual, 0.5, 1e-12)
			So(scoring.Coverage(0, 1), ShouldEqual, 0)
		})

		Convey("Then the penalty raises coverage to the exponent", func() {
			So(scoring.CoveragePenalty(1, 0.85), ShouldEqual, 1)
			So(scoring.CoveragePenalty(0.5, 0.85), ShouldAlmostEqual, math.Pow(0.5, 0.85), 1e-12)
			So(scoring.CoveragePenalty(0, 0.85), ShouldEqual, 0)
		})

		Convey("Then the defining bonus keeps a perfect score at 1", func() {
			So(scoring.DefiningBonus(1, 0.15), ShouldEqual, 1)
			So(scoring.DefiningBonus(0, 0.15), ShouldAlmostEqual, 0.85, 1e-12)
			So(scoring.DefiningBonus(0.5, 0), ShouldEqual, 1)
		})
	})
}

func TestUpgradeScore(t *testing.T) {
	Convey("Given a record with some percentiles", t, func() {
		r := &model.PlayerSeasonRecord{Pct: map[string]float64{"a": 80, "b": 60, "c": math.NaN()}}

		Convey("Then the mean covers observed metrics only", func() {
			s, ok := scoring.UpgradeScore(r, []string{"a", "b", "c", "d"})
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, 70)
		})

		Convey("Then nothing observed yields no score", func() {
			_, ok := scoring.UpgradeScore(r, []string{"d"})
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given values outside a range", t, func() {
		Convey("Then Clamp bounds them", func() {
			So(scoring.Clamp(120, 0, 100), ShouldEqual, 100)
			So(scoring.Clamp(-3, 0, 100), ShouldEqual, 0)
			So(scoring.Clamp(math.NaN(), 0, 100), ShouldEqual, 0)
			So(scoring.Clamp(42, 0, 100), ShouldEqual, 42)
		})
	})
}
