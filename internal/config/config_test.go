package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/scout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.MinMinutes, convey.ShouldEqual, 600)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.StyleWeight+cfg.OutputWeight, convey.ShouldAlmostEqual, 1.0)
			convey.So(cfg.SimilarityMapping, convey.ShouldEqual, "exp")
			convey.So(cfg.LeagueFilters["Scottish Leagues"], convey.ShouldResemble, []int{51})
			convey.So(cfg.NegativeMetrics, convey.ShouldContain, "turnovers_90")
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the blend weights do not sum to one", func() {
			cfg.StyleWeight, cfg.OutputWeight = 0.8, 0.3

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sum to 1")
			})
		})

		convey.Convey("When the mapping and backend are unknown", func() {
			cfg.SimilarityMapping = "cosine"
			cfg.StoreBackend = "postgres"

			convey.Convey("Then both problems are reported", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "similarity_mapping")
				convey.So(err.Error(), convey.ShouldContainSubstring, `unknown store_backend "postgres"`)
			})
		})

		convey.Convey("When a threshold is not positive", func() {
			cfg.Ridge = 0
			cfg.DefiningK = -1

			convey.Convey("Then validation names the fields", func() {
				err := cfg.Validate()
				convey.So(err.Error(), convey.ShouldContainSubstring, "ridge must be positive")
				convey.So(err.Error(), convey.ShouldContainSubstring, "defining_k must be positive")
			})
		})

		convey.Convey("When top_n exceeds max_top_n", func() {
			cfg.TopN = cfg.MaxTopN + 1

			convey.Convey("Then validation fails", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the duckdb backend has no path", func() {
			cfg.StoreBackend = config.StoreDuckDB
			cfg.DuckDBPath = " "

			convey.Convey("Then validation fails", func() {
				convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "duckdb_path")
			})
		})

		convey.Convey("When the clone floors are out of range", func() {
			cfg.CloneSimilarityFloor = 120
			cfg.CloneCoverageFloor = 1.5

			convey.Convey("Then validation fails", func() {
				err := cfg.Validate()
				convey.So(err.Error(), convey.ShouldContainSubstring, "clone_similarity_floor")
				convey.So(err.Error(), convey.ShouldContainSubstring, "clone_coverage_floor")
			})
		})
	})
}
