package model_test

import (
	"math"
	"testing"

	model "github.com/okian/scout/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayerSeasonRecord(t *testing.T) {
	convey.Convey("Given a player-season record", t, func() {
		age := 24
		rec := model.PlayerSeasonRecord{
			PlayerID:      7,
			CompetitionID: 51,
			SeasonID:      317,
			PlayerName:    "Sam Reid",
			Age:           &age,
			Minutes:       1800,
			Metrics:       map[string]float64{"npg_90": 0.4, "xa_90": math.NaN(), "shots_90": math.Inf(1)},
			Pct:           map[string]float64{"npg_90": 80},
			Z:             map[string]float64{"npg_90": 1.2},
		}

		convey.Convey("When reading values", func() {
			convey.Convey("Then finite values are returned", func() {
				v, ok := rec.Value("npg_90")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(v, convey.ShouldEqual, 0.4)
				p, ok := rec.PctValue("npg_90")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(p, convey.ShouldEqual, 80)
				z, ok := rec.ZValue("npg_90")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(z, convey.ShouldEqual, 1.2)
			})

			convey.Convey("Then NaN, infinities and absent keys are missing", func() {
				_, ok := rec.Value("xa_90")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = rec.Value("shots_90")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = rec.Value("carries_90")
				convey.So(ok, convey.ShouldBeFalse)
				_, ok = rec.ZValue("xa_90")
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When cloning", func() {
			c := rec.Clone()
			c.Metrics["npg_90"] = 9
			c.Pct["npg_90"] = 1
			*c.Age = 30

			convey.Convey("Then the original is untouched", func() {
				convey.So(rec.Metrics["npg_90"], convey.ShouldEqual, 0.4)
				convey.So(rec.Pct["npg_90"], convey.ShouldEqual, 80)
				convey.So(*rec.Age, convey.ShouldEqual, 24)
			})
		})

		convey.Convey("When taking the key", func() {
			k := rec.Key()

			convey.Convey("Then it carries the identity triple", func() {
				convey.So(k.String(), convey.ShouldEqual, "7/51/317")
				convey.So(k.Less(model.RecordKey{PlayerID: 7, CompetitionID: 51, SeasonID: 318}), convey.ShouldBeTrue)
				convey.So(k.Less(model.RecordKey{PlayerID: 6, CompetitionID: 99, SeasonID: 999}), convey.ShouldBeFalse)
				convey.So(k.Less(k), convey.ShouldBeFalse)
			})
		})
	})
}

func TestSearchModeAndTier(t *testing.T) {
	convey.Convey("Given search modes and tiers", t, func() {
		convey.Convey("Then modes parse with similar as the default", func() {
			m, err := model.ParseSearchMode("")
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldEqual, model.ModeSimilar)
			m, err = model.ParseSearchMode("upgrade")
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldEqual, model.ModeUpgrade)
			_, err = model.ParseSearchMode("replace")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then clones rank ahead of next-best", func() {
			convey.So(model.TierClone.Rank(), convey.ShouldBeLessThan, model.TierNextBest.Rank())
		})

		convey.Convey("Then the primary score follows the mode", func() {
			up := 71.5
			r := model.MatchResult{SimilarityScore: 88, UpgradeScore: &up}
			convey.So(r.PrimaryScore(model.ModeSimilar), convey.ShouldEqual, 88)
			convey.So(r.PrimaryScore(model.ModeUpgrade), convey.ShouldEqual, 71.5)
			r.UpgradeScore = nil
			convey.So(r.PrimaryScore(model.ModeUpgrade), convey.ShouldEqual, -1)
		})
	})
}
