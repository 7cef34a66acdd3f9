package archetype_test

import (
	"testing"

	"github.com/okian/scout/internal/domain/archetype"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetect(t *testing.T) {
	archetypes := []catalog.Archetype{
		{Name: "Finisher", IdentityMetrics: []string{"npg_90", "np_xg_90"}, KeyWeight: 1.6},
		{Name: "Creator", IdentityMetrics: []string{"xa_90", "key_passes_90"}, KeyWeight: 1.5},
		{Name: "Presser", IdentityMetrics: []string{"pressures_90"}, KeyWeight: 1.5},
	}

	Convey("Given a player with percentile columns", t, func() {
		rec := &model.PlayerSeasonRecord{Pct: map[string]float64{
			"npg_90": 80, "np_xg_90": 60, "xa_90": 90, "key_passes_90": 80, "pressures_90": 10,
		}}

		Convey("When detecting the archetype", func() {
			d := archetype.Detect(rec, archetypes)

			Convey("Then the highest mean percentile wins", func() {
				So(d.Found, ShouldBeTrue)
				So(d.Best.Name, ShouldEqual, "Creator")
				So(d.Scores[0].Archetype, ShouldEqual, "Creator")
				So(d.Scores[0].Score, ShouldEqual, 85)
				So(d.Scores[1].Score, ShouldEqual, 70)
				So(d.Scores[2].Archetype, ShouldEqual, "Presser")
			})
		})

		Convey("When only some identity metrics are observed", func() {
			delete(rec.Pct, "np_xg_90")
			d := archetype.Detect(rec, archetypes[:1])

			Convey("Then the mean covers the observed ones", func() {
				So(d.Scores[0].Score, ShouldEqual, 80)
				So(d.Scores[0].Observed, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a player with no identity metrics observed", t, func() {
		rec := &model.PlayerSeasonRecord{}

		Convey("When detecting the archetype", func() {
			d := archetype.Detect(rec, archetypes)

			Convey("Then every score is 0 and the first archetype wins", func() {
				So(d.Found, ShouldBeTrue)
				So(d.Best.Name, ShouldEqual, "Finisher")
				for _, s := range d.Scores {
					So(s.Score, ShouldEqual, 0)
				}
				So(d.Scores[0].Archetype, ShouldEqual, "Finisher")
				So(d.Scores[2].Archetype, ShouldEqual, "Presser")
			})
		})
	})

	Convey("Given an empty archetype set", t, func() {
		d := archetype.Detect(&model.PlayerSeasonRecord{}, nil)

		Convey("Then nothing is found", func() {
			So(d.Found, ShouldBeFalse)
			So(d.Best, ShouldBeNil)
			So(d.Scores, ShouldBeEmpty)
		})
	})
}
