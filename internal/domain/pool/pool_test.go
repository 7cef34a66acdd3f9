package pool_test

import (
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/pool"
	. "github.com/smartystreets/goconvey/convey"
)

func age(n int) *int { return &n }

func dataset() []model.PlayerSeasonRecord {
	return []model.PlayerSeasonRecord{
		{PlayerID: 1, PlayerName: "Kyogo Furuhashi", TeamName: "Celtic", CompetitionID: 51, CanonicalSeason: 2024, Age: age(29)},
		{PlayerID: 1, PlayerName: "Kyogo Furuhashi", TeamName: "Celtic", CompetitionID: 51, CanonicalSeason: 2023, Age: age(28)},
		{PlayerID: 2, PlayerName: "Lawrence Shankland", TeamName: "Hearts", CompetitionID: 51, CanonicalSeason: 2024},
		{PlayerID: 3, PlayerName: "Bruno Fernandes", TeamName: "Man Utd", CompetitionID: 2, CanonicalSeason: 2024, Age: age(30)},
		{PlayerID: 4, PlayerName: "Tommy Conway", TeamName: "Bristol City", CompetitionID: 1385, CanonicalSeason: 2022, Age: age(21)},
		{PlayerID: 5, PlayerName: "Brunão", TeamName: "Braga", CompetitionID: 65, CanonicalSeason: 2024, Age: age(19)},
	}
}

func ids(rs []model.PlayerSeasonRecord) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.PlayerID
	}
	return out
}

func TestFilterApply(t *testing.T) {
	Convey("Given a multi-season dataset", t, func() {
		f := pool.New()
		data := dataset()

		Convey("When no criteria are set", func() {
			sel, err := f.Apply(data, pool.Criteria{})

			Convey("Then everything is kept", func() {
				So(err, ShouldBeNil)
				So(len(sel.Records), ShouldEqual, len(data))
				So(sel.Seasons, ShouldResemble, []int{2024, 2023, 2022})
			})
		})

		Convey("When scoping to the latest season", func() {
			sel, err := f.Apply(data, pool.Criteria{Seasons: 1})

			Convey("Then only that season remains", func() {
				So(err, ShouldBeNil)
				So(sel.Seasons, ShouldResemble, []int{2024})
				So(ids(sel.Records), ShouldResemble, []int64{1, 2, 3, 5})
			})
		})

		Convey("When filtering by named leagues", func() {
			scottish, err := f.Apply(data, pool.Criteria{League: pool.ScottishLeagues})
			So(err, ShouldBeNil)
			prem, err := f.Apply(data, pool.Criteria{League: pool.PremiershipChampionship})
			So(err, ShouldBeNil)
			domestic, err := f.Apply(data, pool.Criteria{League: pool.DomesticLeagues})
			So(err, ShouldBeNil)
			all, err := f.Apply(data, pool.Criteria{League: pool.AllLeagues})
			So(err, ShouldBeNil)

			Convey("Then competition ids are matched", func() {
				So(ids(scottish.Records), ShouldResemble, []int64{1, 1, 2})
				So(ids(prem.Records), ShouldResemble, []int64{1, 1, 2, 4})
				So(ids(domestic.Records), ShouldResemble, []int64{1, 1, 2, 4, 5})
				So(len(all.Records), ShouldEqual, len(data))
			})
		})

		Convey("When applying an age window", func() {
			sel, err := f.Apply(data, pool.Criteria{Age: &pool.AgeRange{Min: 20, Max: 29}})

			Convey("Then unknown ages are kept and counted", func() {
				So(err, ShouldBeNil)
				So(ids(sel.Records), ShouldResemble, []int64{1, 1, 2, 4})
				So(sel.UnknownAge, ShouldEqual, 1)
			})
		})

		Convey("When the criteria are invalid", func() {
			_, errLeague := f.Apply(data, pool.Criteria{League: "Mars League"})
			_, errAge := f.Apply(data, pool.Criteria{Age: &pool.AgeRange{Min: 30, Max: 20}})

			Convey("Then errors are returned", func() {
				So(errLeague, ShouldWrap, pool.ErrUnknownLeagueFilter)
				So(errAge, ShouldWrap, pool.ErrInvalidAgeRange)
			})
		})

		Convey("When custom league filters replace the defaults", func() {
			custom := pool.New(pool.WithLeagueFilters(map[string][]int{"Portugal": {65}}))
			sel, err := custom.Apply(data, pool.Criteria{League: "Portugal"})

			Convey("Then only they are known", func() {
				So(err, ShouldBeNil)
				So(ids(sel.Records), ShouldResemble, []int64{5})
				So(custom.Leagues(), ShouldResemble, []string{"Portugal"})
			})
		})
	})
}

func TestFindByName(t *testing.T) {
	Convey("Given a dataset", t, func() {
		data := dataset()

		Convey("Then an exact match ignores case", func() {
			r, sugg := pool.FindByName(data, "  kyogo FURUHASHI ")
			So(r, ShouldNotBeNil)
			So(r.PlayerID, ShouldEqual, 1)
			So(r.CanonicalSeason, ShouldEqual, 2024)
			So(sugg, ShouldBeNil)
		})

		Convey("Then partial matches become suggestions", func() {
			r, sugg := pool.FindByName(data, "brun")
			So(r, ShouldBeNil)
			So(sugg, ShouldResemble, []pool.Suggestion{
				{PlayerName: "Bruno Fernandes", TeamName: "Man Utd"},
				{PlayerName: "Brunão", TeamName: "Braga"},
			})
		})

		Convey("Then unknown and empty names find nothing", func() {
			r, sugg := pool.FindByName(data, "zzz")
			So(r, ShouldBeNil)
			So(sugg, ShouldBeEmpty)
			r, sugg = pool.FindByName(data, "")
			So(r, ShouldBeNil)
			So(sugg, ShouldBeNil)
		})
	})
}
