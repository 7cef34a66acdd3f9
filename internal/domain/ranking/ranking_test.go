package ranking_test

import (
	"testing"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func row(id int64, tier model.Tier, sim float64, defining int, coverage float64) model.MatchResult {
	return model.MatchResult{
		Record:             model.PlayerSeasonRecord{PlayerID: id},
		Tier:               tier,
		SimilarityScore:    sim,
		DefiningMatchCount: defining,
		Coverage:           coverage,
	}
}

func ids(rs []model.MatchResult) []int64 {
	out := make([]int64, len(rs))
	for i := range rs {
		out[i] = rs[i].Record.PlayerID
	}
	return out
}

func TestSort(t *testing.T) {
	Convey("Given mixed-tier results", t, func() {
		rs := []model.MatchResult{
			row(1, model.TierNextBest, 95, 6, 1),
			row(2, model.TierClone, 70, 5, 0.9),
			row(3, model.TierClone, 80, 5, 0.9),
			row(4, model.TierClone, 80, 6, 0.8),
			row(5, model.TierClone, 80, 6, 0.95),
			row(6, model.TierNextBest, 95, 6, 1),
		}

		Convey("When sorting in similar mode", func() {
			ranking.Sort(rs, model.ModeSimilar)

			Convey("Then clones lead and ties fall through each key", func() {
				So(ids(rs), ShouldResemble, []int64{5, 4, 3, 2, 1, 6})
				So(ranking.IsSorted(rs, model.ModeSimilar), ShouldBeTrue)
			})
		})

		Convey("When sorting in upgrade mode", func() {
			hi, lo := 90.0, 40.0
			rs[1].UpgradeScore = &hi // id 2
			rs[2].UpgradeScore = &lo // id 3
			ranking.Sort(rs, model.ModeUpgrade)

			Convey("Then upgrade score leads within a tier and unscored rows trail", func() {
				So(ids(rs)[:2], ShouldResemble, []int64{2, 3})
				So(ids(rs)[2:4], ShouldResemble, []int64{5, 4})
			})
		})

		Convey("When truncating", func() {
			top := ranking.Top(rs, model.ModeSimilar, 2)

			Convey("Then truncation happens after sorting", func() {
				So(ids(top), ShouldResemble, []int64{5, 4})
			})

			Convey("Then a non-positive limit keeps everything", func() {
				So(len(ranking.Top(rs, model.ModeSimilar, 0)), ShouldEqual, 6)
			})
		})
	})
}
