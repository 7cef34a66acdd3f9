package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/internal/loadgen"
	"github.com/okian/scout/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players     = flag.Int("players", loadgen.DefaultPlayersPerGroup, "Players generated per position group")
		seasons     = flag.Int("seasons", loadgen.DefaultSeasons, "Seasons generated per player")
		batchSize   = flag.Int("batch", loadgen.DefaultBatchSize, "Records per POST /records batch")
		searches    = flag.Int("searches", loadgen.DefaultSearches, "Searches issued after seeding")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed        = flag.Uint64("seed", 1, "Generator seed")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		catalogPath = flag.String("catalog", "", "Position-group catalog YAML (default: built-in)")
		outputFile  = flag.String("output", "", "Save generated records to this file")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	closer, err := loadgen.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cat, err := config.LoadCatalog(ctx, *catalogPath)
	if err != nil {
		logger.Get().Error(ctx, "failed to load catalog", logger.Error(err))
		os.Exit(1)
	}

	cfg := &loadgen.Config{
		BaseURL:          *baseURL,
		PlayersPerGroup:  *players,
		Seasons:          *seasons,
		BatchSize:        *batchSize,
		Searches:         *searches,
		Workers:          *workers,
		Timeout:          *timeout,
		Seed:             *seed,
		OutputFile:       *outputFile,
		LogFile:          *logFile,
		Verbose:          *verbose,
		SaveRecords:      *outputFile != "",
		UpgradeEveryNth:  loadgen.DefaultUpgradeEveryNth,
		MinMinutesFilter: loadgen.DefaultMinMinutes,
	}

	if _, err := loadgen.Run(ctx, cfg, cat); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		os.Exit(1)
	}
}
