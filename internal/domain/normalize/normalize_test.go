package normalize_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func cohort(group string, n int, fill func(i int) map[string]float64) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, n)
	for i := range out {
		out[i] = model.PlayerSeasonRecord{
			PlayerID:      int64(i + 1),
			CompetitionID: 51,
			SeasonID:      1,
			PositionGroup: group,
			Minutes:       1200,
			Metrics:       fill(i),
		}
	}
	return out
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()
	nz := normalize.New(normalize.WithMetrics("npg_90", "turnovers_90", "aerial_ratio"))

	Convey("Given a cohort of 100 strikers", t, func() {
		recs := cohort(catalog.Striker, 100, func(i int) map[string]float64 {
			return map[string]float64{"npg_90": float64(i + 1), "turnovers_90": float64(i + 1), "aerial_ratio": 50}
		})

		res, err := nz.Normalize(ctx, recs)
		So(err, ShouldBeNil)

		Convey("Then the 90th ranked value sits at the 90th percentile", func() {
			So(res.Records[89].Pct["npg_90"], ShouldAlmostEqual, 90.0, 1e-9)
		})

		Convey("Then percentiles are bounded and monotonic", func() {
			prev := -1.0
			for _, r := range res.Records {
				p := r.Pct["npg_90"]
				So(p, ShouldBeBetweenOrEqual, 0, 100)
				So(p, ShouldBeGreaterThan, prev)
				prev = p
			}
		})

		Convey("Then negative metrics are inverted", func() {
			So(res.Records[0].Pct["turnovers_90"], ShouldAlmostEqual, 99.0, 1e-9)
			So(res.Records[99].Pct["turnovers_90"], ShouldAlmostEqual, 0.0, 1e-9)
		})

		Convey("Then zero-variance metrics get z = 0 and are reported", func() {
			So(res.Records[10].Z["aerial_ratio"], ShouldEqual, 0)
			So(res.Cohorts[0].ZeroVariance, ShouldContain, "aerial_ratio")
		})

		Convey("Then z-scores use the population standard deviation", func() {
			// values 1..100: mean 50.5, population variance (n²-1)/12
			So(res.Records[99].Z["npg_90"], ShouldAlmostEqual, 49.5/28.86607004772212, 1e-9)
		})

		Convey("Then inputs are untouched", func() {
			So(recs[0].Pct, ShouldBeNil)
			So(recs[0].Z, ShouldBeNil)
		})

		Convey("When normalizing the output again", func() {
			again, err := nz.Normalize(ctx, res.Records)
			So(err, ShouldBeNil)

			Convey("Then the derived columns are identical", func() {
				for i := range res.Records {
					So(again.Records[i].Pct, ShouldResemble, res.Records[i].Pct)
					So(again.Records[i].Z, ShouldResemble, res.Records[i].Z)
				}
			})
		})
	})

	Convey("Given tied and missing values", t, func() {
		recs := cohort(catalog.Winger, 6, func(i int) map[string]float64 {
			vals := []float64{1, 2, 2, 3}
			if i < len(vals) {
				return map[string]float64{"npg_90": vals[i]}
			}
			return map[string]float64{}
		})

		res, err := nz.Normalize(ctx, recs)
		So(err, ShouldBeNil)

		Convey("Then ties share their average rank among observed values", func() {
			So(res.Records[1].Pct["npg_90"], ShouldAlmostEqual, 2.5/4*100, 1e-9)
			So(res.Records[2].Pct["npg_90"], ShouldAlmostEqual, 2.5/4*100, 1e-9)
			So(res.Records[3].Pct["npg_90"], ShouldAlmostEqual, 100.0, 1e-9)
		})

		Convey("Then missing values stay missing", func() {
			_, ok := res.Records[5].PctValue("npg_90")
			So(ok, ShouldBeFalse)
			_, ok = res.Records[5].ZValue("npg_90")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a cohort below the minimum size and an ungrouped record", t, func() {
		recs := cohort(catalog.Goalkeeper, 4, func(i int) map[string]float64 {
			return map[string]float64{"npg_90": float64(i)}
		})
		recs = append(recs, model.PlayerSeasonRecord{PlayerID: 99, Metrics: map[string]float64{"npg_90": 1}})

		res, err := nz.Normalize(ctx, recs)
		So(err, ShouldBeNil)

		Convey("Then no derived columns are produced", func() {
			for _, r := range res.Records {
				So(r.Pct, ShouldBeNil)
				So(r.Z, ShouldBeNil)
			}
			So(res.Cohorts[0].Normalized, ShouldBeFalse)
			So(res.Ungrouped, ShouldEqual, 1)
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		recs := cohort(catalog.Striker, 5, func(int) map[string]float64 { return map[string]float64{} })

		Convey("Then normalization stops with the context error", func() {
			_, err := nz.Normalize(cctx, recs)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestPrepare(t *testing.T) {
	Convey("Given a raw provider record", t, func() {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		raw := model.PlayerSeasonRecord{
			PlayerID:        1,
			PlayerName:      "  Ada Byrne ",
			SeasonName:      "2023/2024",
			BirthDate:       "2000-06-02",
			PrimaryPosition: "Left Wing ",
			Metrics: map[string]float64{
				"player_season_padj_tackles_90":       2,
				"player_season_padj_interceptions_90": 1.5,
				"npg_90":                              0.3,
			},
		}

		out := normalize.Prepare(raw, catalog.Default(), now)

		Convey("Then identity fields are cleaned and derived", func() {
			So(out.PlayerName, ShouldEqual, "Ada Byrne")
			So(out.PositionGroup, ShouldEqual, catalog.Winger)
			So(out.CanonicalSeason, ShouldEqual, 2024)
			So(out.Age, ShouldNotBeNil)
			So(*out.Age, ShouldEqual, 24)
		})

		Convey("Then metric names lose the provider prefix and the combined metric is added", func() {
			So(out.Metrics["padj_tackles_90"], ShouldEqual, 2)
			So(out.Metrics["padj_tackles_and_interceptions_90"], ShouldEqual, 3.5)
			_, prefixed := out.Metrics["player_season_padj_tackles_90"]
			So(prefixed, ShouldBeFalse)
		})

		Convey("Then the raw record is untouched", func() {
			So(raw.PlayerName, ShouldEqual, "  Ada Byrne ")
			So(raw.Age, ShouldBeNil)
		})
	})

	Convey("Given season names and birth dates in other shapes", t, func() {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		Convey("Then canonical seasons follow the end year", func() {
			So(normalize.CanonicalSeason("2025"), ShouldEqual, 2025)
			So(normalize.CanonicalSeason("2019/2020"), ShouldEqual, 2020)
			So(normalize.CanonicalSeason("autumn"), ShouldEqual, 0)
			So(normalize.CanonicalSeason(""), ShouldEqual, 0)
		})

		Convey("Then unparseable birth dates leave age unknown", func() {
			_, ok := normalize.AgeAt("not a date", now)
			So(ok, ShouldBeFalse)
			_, ok = normalize.AgeAt("", now)
			So(ok, ShouldBeFalse)
			age, ok := normalize.AgeAt("2000-06-01", now)
			So(ok, ShouldBeTrue)
			So(age, ShouldEqual, 25)
		})

		Convey("Then an unknown position clears an unknown group", func() {
			out := normalize.Prepare(model.PlayerSeasonRecord{PrimaryPosition: "Libero", PositionGroup: "Sweepers"}, catalog.Default(), now)
			So(out.PositionGroup, ShouldEqual, "")
		})
	})
}

func TestProjector(t *testing.T) {
	Convey("Given an internal winger cohort", t, func() {
		nz := normalize.New(normalize.WithMetrics("npg_90", "turnovers_90", "aerial_ratio"))
		internal := cohort(catalog.Winger, 4, func(i int) map[string]float64 {
			return map[string]float64{"npg_90": float64(i + 1), "turnovers_90": float64(i + 1), "aerial_ratio": 40}
		})
		p := nz.Projector(internal)

		Convey("When projecting an external winger", func() {
			ext := model.PlayerSeasonRecord{
				PositionGroup: catalog.Winger,
				Metrics:       map[string]float64{"npg_90": 2, "turnovers_90": 2, "aerial_ratio": 41},
			}
			out, err := p.Project(ext)
			So(err, ShouldBeNil)

			Convey("Then percentiles count reference values at or below", func() {
				So(out.Pct["npg_90"], ShouldAlmostEqual, 50.0, 1e-9)
				So(out.Pct["turnovers_90"], ShouldAlmostEqual, 50.0, 1e-9)
				So(out.Pct["aerial_ratio"], ShouldAlmostEqual, 100.0, 1e-9)
			})

			Convey("Then z uses the reference mean and spread", func() {
				So(out.Z["npg_90"], ShouldAlmostEqual, (2-2.5)/1.118033988749895, 1e-9)
			})

			Convey("Then a reference without spread leaves z missing", func() {
				_, ok := out.ZValue("aerial_ratio")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When projecting a record from an unknown group", func() {
			_, err := p.Project(model.PlayerSeasonRecord{PositionGroup: catalog.Striker})

			Convey("Then ErrNoReference is returned", func() {
				So(errors.Is(err, normalize.ErrNoReference), ShouldBeTrue)
			})
		})
	})
}
