package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Errors returned by Run.
var (
	ErrUnhealthy   = errors.New("service health check failed")
	ErrIngest      = errors.New("record ingest failed")
	ErrSearch      = errors.New("search failed")
	ErrInvariant   = errors.New("search results violate ranking rules")
	ErrInvalidConf = errors.New("invalid loadgen config")
)

// Run seeds the service with a generated dataset, searches it and verifies
// every result. It returns the run statistics even when verification fails.
func Run(ctx context.Context, cfg *Config, cat *catalog.Catalog) (*Stats, error) {
	log := logger.Named("loadgen")
	stats := &Stats{StartTime: time.Now()}
	if cfg.Workers < 1 || cfg.PlayersPerGroup < 1 {
		return stats, fmt.Errorf("%w: workers and players per group must be positive", ErrInvalidConf)
	}
	if cat == nil {
		cat = catalog.Default()
	}

	log.Info(ctx, "starting scout seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("playersPerGroup", cfg.PlayersPerGroup),
		logger.Int("seasons", cfg.Seasons),
		logger.Int("searches", cfg.Searches),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	if !cfg.SkipHealthCheck {
		if err := checkServiceHealth(ctx, client); err != nil {
			return stats, err
		}
	}

	records := Generate(cfg, cat)
	stats.RecordsGenerated = len(records)
	log.Info(ctx, "generated records", logger.Int("count", len(records)))

	submitBatches(ctx, cfg, client, Batches(records, cfg.BatchSize, cfg.Seed), stats)
	if stats.BatchesFailed > 0 {
		return finish(ctx, stats), fmt.Errorf("%w: %d of %d batches", ErrIngest, stats.BatchesFailed, stats.BatchesSubmitted)
	}

	outcomes := runSearches(ctx, cfg, client, searchTargets(records, cfg.Searches), stats)

	if cfg.SaveRecords {
		if err := saveRecordsToFile(ctx, cfg, records); err != nil {
			log.Warn(ctx, "failed to save records to file", logger.Error(err))
		}
	}

	finish(ctx, stats)
	switch {
	case stats.SearchesFailed > 0:
		return stats, fmt.Errorf("%w: %d of %d searches", ErrSearch, stats.SearchesFailed, len(outcomes))
	case stats.Violations > 0:
		return stats, fmt.Errorf("%w: %d violations", ErrInvariant, stats.Violations)
	}
	log.Info(ctx, "seed run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	resp, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The service answers /healthz with its Prometheus metrics.
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// saveRecordsToFile writes the generated records as a JSON array.
func saveRecordsToFile(ctx context.Context, cfg *Config, records []model.PlayerSeasonRecord) error {
	filename := cfg.OutputFile
	if filename == "" {
		filename = "generated_records_" + time.Now().Format("20060102_150405") + ".json"
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	logger.Named("loadgen").Info(ctx, "records saved to file", logger.String("filename", filename))
	return nil
}

// finish stamps the end time and logs the final statistics.
func finish(ctx context.Context, stats *Stats) *Stats {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	var matchRate float64
	if stats.SearchesRun > 0 {
		matchRate = float64(stats.SearchesWithMatch) / float64(stats.SearchesRun) * PercentageMultiplier
	}
	logger.Named("loadgen").Info(ctx, "final statistics",
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int("batchesSubmitted", stats.BatchesSubmitted),
		logger.Int("batchesSuccessful", stats.BatchesSuccessful),
		logger.Int("batchesDuplicate", stats.BatchesDuplicate),
		logger.Int("batchesFailed", stats.BatchesFailed),
		logger.Int("searchesRun", stats.SearchesRun),
		logger.Int("searchesFailed", stats.SearchesFailed),
		logger.Float64("matchRatePercent", matchRate),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
	)
	return stats
}
