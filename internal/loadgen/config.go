// Package loadgen generates synthetic player cohorts, feeds them to a
// running scout service over HTTP and checks the search results.
package loadgen

import (
	"time"

	"github.com/okian/scout/internal/domain/model"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL          string        // Base URL of the service
	PlayersPerGroup  int           // Players generated per position group
	Seasons          int           // Seasons generated per player
	BatchSize        int           // Records per POST /records batch
	Searches         int           // Searches issued after seeding
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	Seed             uint64        // Generator seed
	OutputFile       string        // Output file for generated records
	LogFile          string        // Log file for run output
	Verbose          bool          // Enable verbose logging
	SkipHealthCheck  bool          // Do not probe /healthz first
	SaveRecords      bool          // Write generated records to OutputFile
	UpgradeEveryNth  int           // Every nth search runs in upgrade mode
	MinMinutesFilter float64       // min_minutes sent with each search
}

// Stats holds run statistics.
type Stats struct {
	RecordsGenerated  int
	BatchesSubmitted  int
	BatchesSuccessful int
	BatchesDuplicate  int
	BatchesFailed     int
	SearchesRun       int
	SearchesFailed    int
	SearchesWithMatch int
	Violations        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Batch is one POST /records body.
type Batch struct {
	BatchID string                     `json:"batch_id"`
	Records []model.PlayerSeasonRecord `json:"records"`
}

// ingestReport mirrors the POST /records response.
type ingestReport struct {
	BatchID   string `json:"batch_id"`
	Inserted  int    `json:"inserted"`
	Updated   int    `json:"updated"`
	Duplicate bool   `json:"duplicate"`
}
