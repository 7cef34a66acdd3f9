package loadgen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/adapters/http/api"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallConfig(baseURL string) *Config {
	return &Config{
		BaseURL:          baseURL,
		PlayersPerGroup:  12,
		Seasons:          2,
		BatchSize:        40,
		Searches:         12,
		Workers:          4,
		Timeout:          10 * time.Second,
		Seed:             7,
		UpgradeEveryNth:  DefaultUpgradeEveryNth,
		MinMinutesFilter: DefaultMinMinutes,
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cat := catalog.Default()
		cfg := smallConfig("")

		Convey("When generating twice with the same seed", func() {
			a := Generate(cfg, cat)
			b := Generate(cfg, cat)

			Convey("Then the datasets are identical", func() {
				So(a, ShouldResemble, b)
			})

			Convey("Then every group gets players for every season", func() {
				So(a, ShouldHaveLength, len(cat.Groups)*cfg.PlayersPerGroup*cfg.Seasons)
				keys := make(map[model.RecordKey]struct{}, len(a))
				for i := range a {
					keys[a[i].Key()] = struct{}{}
					_, ok := cat.GroupFor(a[i].PrimaryPosition)
					So(ok, ShouldBeTrue)
				}
				So(keys, ShouldHaveLength, len(a))
			})

			Convey("Then metrics carry the provider prefix and stay non-negative", func() {
				for k, v := range a[0].Metrics {
					So(k, ShouldStartWith, providerPrefix)
					So(v, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})
		})

		Convey("When a different seed is used", func() {
			other := *cfg
			other.Seed = 8

			Convey("Then the values differ", func() {
				So(Generate(&other, cat)[0].Metrics, ShouldNotResemble, Generate(cfg, cat)[0].Metrics)
			})
		})
	})
}

func TestBatchesAndTargets(t *testing.T) {
	Convey("Given generated records", t, func() {
		cfg := smallConfig("")
		records := Generate(cfg, catalog.Default())

		Convey("When splitting into batches", func() {
			batches := Batches(records, 50, cfg.Seed)

			Convey("Then every record lands in exactly one batch with a stable id", func() {
				total := 0
				for _, b := range batches {
					So(len(b.Records), ShouldBeLessThanOrEqualTo, 50)
					total += len(b.Records)
				}
				So(total, ShouldEqual, len(records))
				So(batches[0].BatchID, ShouldNotEqual, batches[1].BatchID)
				So(Batches(records, 50, cfg.Seed)[1].BatchID, ShouldEqual, batches[1].BatchID)
				So(Batches(records, 50, cfg.Seed+1)[0].BatchID, ShouldNotEqual, batches[0].BatchID)
			})
		})

		Convey("When picking search targets", func() {
			targets := searchTargets(records, 10)

			Convey("Then distinct players are chosen", func() {
				So(targets, ShouldHaveLength, 10)
				seen := map[int64]bool{}
				for _, id := range targets {
					So(seen[id], ShouldBeFalse)
					seen[id] = true
				}
			})

			Convey("Then asking for more than exist returns every player", func() {
				So(searchTargets(records, 0), ShouldHaveLength, 6*cfg.PlayersPerGroup)
			})
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a well-formed response", t, func() {
		target := model.PlayerSeasonRecord{PlayerID: 1, CompetitionID: 51, SeasonID: 301}
		resp := &service.SearchResponse{
			Target: target,
			Mode:   model.ModeSimilar,
			Status: similarity.StatusOK,
			Matches: []model.MatchResult{
				{Record: model.PlayerSeasonRecord{PlayerID: 2, CompetitionID: 51, SeasonID: 301}, SimilarityScore: 90, Coverage: 1, Tier: model.TierClone},
				{Record: model.PlayerSeasonRecord{PlayerID: 3, CompetitionID: 51, SeasonID: 301}, SimilarityScore: 95, Coverage: 1, Tier: model.TierNextBest, FailReasons: []string{"similarity floor"}},
			},
		}
		q := model.SearchQuery{PlayerID: 1, Mode: model.ModeSimilar}

		Convey("Then it has no violations", func() {
			So(Verify(q, resp), ShouldBeEmpty)
		})

		Convey("When the target appears among the matches", func() {
			resp.Matches[1].Record.PlayerID = 1

			Convey("Then self-exclusion is reported", func() {
				So(Verify(q, resp), ShouldNotBeEmpty)
			})
		})

		Convey("When a next best fit outranks a clone", func() {
			resp.Matches[0], resp.Matches[1] = resp.Matches[1], resp.Matches[0]

			Convey("Then the order is reported", func() {
				So(Verify(q, resp), ShouldContain, "matches are not in ranking order")
			})
		})

		Convey("When a clone carries fail reasons", func() {
			resp.Matches[0].FailReasons = []string{"low coverage"}

			Convey("Then the tier rule is reported", func() {
				So(Verify(q, resp), ShouldHaveLength, 1)
			})
		})

		Convey("When a score is out of bounds", func() {
			resp.Matches[0].SimilarityScore = 101

			Convey("Then the bound is reported", func() {
				So(Verify(q, resp), ShouldNotBeEmpty)
			})
		})

		Convey("When a data status carries matches", func() {
			resp.Status = similarity.StatusNoCandidates

			Convey("Then the status rule is reported", func() {
				So(Verify(q, resp), ShouldHaveLength, 1)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a scout service behind an HTTP server", t, func() {
		ctx := context.Background()
		svc, err := service.New(service.WithWorkerCount(2))
		So(err, ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(ctx, mux)
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("When the seeder runs against it", func() {
			cfg := smallConfig(ts.URL)
			stats, err := Run(ctx, cfg, catalog.Default())

			Convey("Then every batch is applied and every search obeys the ranking rules", func() {
				So(err, ShouldBeNil)
				So(stats.BatchesFailed, ShouldEqual, 0)
				So(stats.BatchesSuccessful, ShouldEqual, stats.BatchesSubmitted)
				So(stats.SearchesRun, ShouldEqual, cfg.Searches)
				So(stats.SearchesFailed, ShouldEqual, 0)
				So(stats.Violations, ShouldEqual, 0)
				So(svc.Snapshot().Len(), ShouldEqual, stats.RecordsGenerated)
			})

			Convey("Then a second run is acknowledged as duplicate batches", func() {
				again, err := Run(ctx, cfg, catalog.Default())
				So(err, ShouldBeNil)
				So(again.BatchesDuplicate, ShouldEqual, again.BatchesSubmitted)
			})
		})

		Convey("When the config is invalid", func() {
			cfg := smallConfig(ts.URL)
			cfg.Workers = 0
			_, err := Run(ctx, cfg, nil)

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, ErrInvalidConf)
			})
		})
	})
}
