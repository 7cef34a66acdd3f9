package catalog_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/okian/scout/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := catalog.Default()

		Convey("Then it validates", func() {
			So(c.Validate(), ShouldBeNil)
		})

		Convey("Then the six groups are present in order", func() {
			names := make([]string, 0, len(c.Groups))
			for _, g := range c.Groups {
				names = append(names, g.Name)
			}
			So(names, ShouldResemble, []string{
				catalog.Goalkeeper, catalog.Fullback, catalog.CenterBack,
				catalog.CenterMidfielder, catalog.Winger, catalog.Striker,
			})
		})

		Convey("When mapping raw positions", func() {
			Convey("Then known labels resolve to their group", func() {
				g, ok := c.GroupFor("Right Wing Back")
				So(ok, ShouldBeTrue)
				So(g, ShouldEqual, catalog.Fullback)
				g, ok = c.GroupFor(" Secondary Striker ")
				So(ok, ShouldBeTrue)
				So(g, ShouldEqual, catalog.Striker)
			})

			Convey("Then unknown labels do not resolve", func() {
				_, ok := c.GroupFor("Sweeper")
				So(ok, ShouldBeFalse)
				_, ok = c.GroupFor("")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When building the identity union of a group", func() {
			union := c.IdentityUnion(catalog.Goalkeeper)

			Convey("Then it is sorted and covers both archetypes", func() {
				So(slices.IsSorted(union), ShouldBeTrue)
				So(union, ShouldContain, "psxg_net_90")
				So(union, ShouldContain, "avg_pass_length")
				So(len(union), ShouldEqual, 14)
			})

			Convey("Then an unknown group has no union", func() {
				So(c.IdentityUnion("Libero"), ShouldBeNil)
			})
		})

		Convey("When listing every metric", func() {
			all := c.AllMetrics()

			Convey("Then identity and radar metrics are included", func() {
				So(slices.IsSorted(all), ShouldBeTrue)
				So(all, ShouldContain, "npg_90")
				So(all, ShouldContain, "box_cross_ratio")
				So(all, ShouldContain, "launches_ratio")
			})
		})

		Convey("When looking up an archetype", func() {
			g, ok := c.Group(catalog.Striker)
			So(ok, ShouldBeTrue)
			a, ok := g.Archetype("Poacher (Fox in the Box)")

			Convey("Then its weight and identity are available", func() {
				So(ok, ShouldBeTrue)
				So(a.KeyWeight, ShouldEqual, 1.7)
				So(a.HasIdentity("conversion_ratio"), ShouldBeTrue)
				So(a.HasIdentity("crosses_90"), ShouldBeFalse)
			})
		})

		Convey("Then each call returns an independent copy", func() {
			other := catalog.Default()
			other.Groups[0].Name = "changed"
			So(c.Groups[0].Name, ShouldEqual, catalog.Goalkeeper)
		})

		Convey("Then the negative metrics are the four defaults", func() {
			So(catalog.DefaultNegativeMetrics(), ShouldResemble,
				[]string{"turnovers_90", "dispossessions_90", "dribbled_past_90", "fouls_90"})
		})
	})
}

func TestCatalogValidate(t *testing.T) {
	valid := func() *catalog.Catalog {
		return &catalog.Catalog{Groups: []catalog.PositionGroup{{
			Name:      "Striker",
			Positions: []string{"Centre Forward"},
			Archetypes: []catalog.Archetype{{
				Name:            "Poacher",
				IdentityMetrics: []string{"npg_90"},
				KeyWeight:       1.5,
			}},
		}}}
	}

	Convey("Given a catalog under validation", t, func() {
		Convey("When it is empty", func() {
			err := (&catalog.Catalog{}).Validate()

			Convey("Then it is rejected", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When an archetype has no identity metrics", func() {
			c := valid()
			c.Groups[0].Archetypes[0].IdentityMetrics = nil

			Convey("Then it is rejected", func() {
				err := c.Validate()
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "no identity metrics")
			})
		})

		Convey("When a key weight is not positive", func() {
			c := valid()
			c.Groups[0].Archetypes[0].KeyWeight = 0

			Convey("Then it is rejected", func() {
				So(c.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When a metric carries a derived suffix", func() {
			c := valid()
			c.Groups[0].Archetypes[0].IdentityMetrics = []string{"npg_90_pct"}

			Convey("Then it is rejected", func() {
				So(c.Validate().Error(), ShouldContainSubstring, "derived suffix")
			})
		})

		Convey("When a position belongs to two groups", func() {
			c := valid()
			g := c.Groups[0]
			g.Name = "Forward"
			c.Groups = append(c.Groups, g)

			Convey("Then it is rejected", func() {
				So(c.Validate().Error(), ShouldContainSubstring, "in groups")
			})
		})

		Convey("When clone tuning is inconsistent", func() {
			c := valid()
			c.Groups[0].Archetypes[0].Clone = &catalog.CloneTuning{DefiningK: 4, MatchNeed: 5, CoverageFloor: 2}

			Convey("Then both problems are reported", func() {
				msg := c.Validate().Error()
				So(msg, ShouldContainSubstring, "match_need exceeds defining_k")
				So(msg, ShouldContainSubstring, "coverage_floor")
			})
		})

		Convey("When everything is well formed", func() {
			Convey("Then no error is returned", func() {
				So(valid().Validate(), ShouldBeNil)
			})
		})
	})
}
