package model_test

import (
	"testing"

	model "github.com/okian/scout/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSearchQueryValidate(t *testing.T) {
	convey.Convey("Given search queries", t, func() {
		convey.Convey("When the query names a player id", func() {
			q := model.SearchQuery{PlayerID: 7}
			err := q.Validate()

			convey.Convey("Then it is valid and the mode defaults to similar", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.Mode, convey.ShouldEqual, model.ModeSimilar)
			})
		})

		convey.Convey("When the query names a player by name", func() {
			q := model.SearchQuery{PlayerName: "  Kyogo ", Mode: model.ModeUpgrade}

			convey.Convey("Then the name is trimmed", func() {
				convey.So(q.Validate(), convey.ShouldBeNil)
				convey.So(q.PlayerName, convey.ShouldEqual, "Kyogo")
			})
		})

		convey.Convey("When the query is malformed", func() {
			age := 20
			for _, q := range []model.SearchQuery{
				{},
				{PlayerName: "   "},
				{PlayerID: 1, Mode: "fastest"},
				{PlayerID: 1, TopN: -1},
				{PlayerID: 1, MinMinutes: -10},
				{PlayerID: 1, Seasons: -2},
				{PlayerID: 1, MinAge: &age},
			} {
				convey.So(q.Validate(), convey.ShouldWrap, model.ErrInvalidQuery)
			}
		})
	})
}
