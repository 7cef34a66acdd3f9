package service

import (
	"context"
	"fmt"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/adapters/repository/duckdb"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/metricclass"
	"github.com/okian/scout/internal/domain/normalize"
	"github.com/okian/scout/internal/domain/pool"
	"github.com/okian/scout/internal/domain/rolegate"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/pkg/logger"
)

// OptionsFromConfig builds the service components described by cfg. The
// returned store is owned by the service once New succeeds.
func OptionsFromConfig(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) ([]Option, error) {
	mapping, err := scoring.NewMapping(cfg.SimilarityMapping, cfg.SimilarityScale)
	if err != nil {
		return nil, err
	}
	classifier := metricclass.New(
		metricclass.WithOutputMarkers(cfg.OutputMarkers...),
		metricclass.WithOutputSubstrings(cfg.OutputSubstrings...),
	)
	gate := rolegate.New(
		rolegate.WithMinPool(cfg.GateMinPool),
		rolegate.WithFeatureBounds(cfg.GateMinFeatures, cfg.GateMaxFeatures),
		rolegate.WithMinCluster(cfg.GateMinCluster),
		rolegate.WithNearestClusters(cfg.GateNearestClusters),
		rolegate.WithCacheSize(cfg.GateCacheSize),
	)
	engine, err := similarity.New(
		similarity.WithMinMinutes(cfg.MinMinutes),
		similarity.WithTopN(cfg.TopN),
		similarity.WithBlend(cfg.StyleWeight, cfg.OutputWeight),
		similarity.WithCoverageExponent(cfg.CoverageExponent),
		similarity.WithRidge(cfg.Ridge),
		similarity.WithMapping(mapping),
		similarity.WithDefiningTraits(cfg.DefiningK, cfg.DefiningToleranceZ),
		similarity.WithCloneFloors(cfg.CloneSimilarityFloor, cfg.CloneCoverageFloor),
		similarity.WithDefiningBonus(cfg.DefiningBonus),
		similarity.WithClassifier(classifier),
		similarity.WithGate(gate),
		similarity.WithLogger(logger.Named("engine")),
	)
	if err != nil {
		return nil, err
	}
	normalizer := normalize.New(
		normalize.WithCatalog(cat),
		normalize.WithMinCohortSize(cfg.MinCohortSize),
		normalize.WithNegativeMetrics(cfg.NegativeMetrics...),
	)
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return []Option{
		WithCatalog(cat),
		WithStore(store),
		WithNormalizer(normalizer),
		WithEngine(engine),
		WithPoolFilter(pool.New(pool.WithLeagueFilters(cfg.LeagueFilters))),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithMaxTopN(cfg.MaxTopN),
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreDuckDB:
		client, err := duckdb.NewClient(ctx, cfg.DuckDBPath)
		if err != nil {
			return nil, fmt.Errorf("open duckdb %s: %w", cfg.DuckDBPath, err)
		}
		repo, err := duckdb.NewRecordRepo(ctx, client)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return repo, nil
	default:
		return repository.NewMemoryStore(), nil
	}
}
