// Package config defines service configuration and its loading.
//
// Conventions:
// - New(ctx) returns a Config filled with defaults.
// - Load(ctx) layers a YAML file and SCOUT_* environment variables on top.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/metricclass"
	"github.com/okian/scout/internal/domain/pool"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/internal/domain/similarity"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreDuckDB = "duckdb"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the asynchronous search queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of search workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many ingest batch ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTopN caps the number of matches a search may ask for.
	MaxTopN int `koanf:"max_top_n"`

	// StoreBackend selects where raw records live: memory or duckdb.
	StoreBackend string `koanf:"store_backend"`
	DuckDBPath   string `koanf:"duckdb_path"`

	// CatalogPath points at a YAML position-group catalog. Empty uses the
	// built-in catalog.
	CatalogPath string `koanf:"catalog_path"`

	NATSEnabled bool   `koanf:"nats_enabled"`
	NATSURL     string `koanf:"nats_url"`
	NATSStream  string `koanf:"nats_stream"`

	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`

	// Search defaults.
	MinMinutes           float64 `koanf:"min_minutes"`
	TopN                 int     `koanf:"top_n"`
	MinCohortSize        int     `koanf:"min_cohort_size"`
	StyleWeight          float64 `koanf:"style_weight"`
	OutputWeight         float64 `koanf:"output_weight"`
	CoverageExponent     float64 `koanf:"coverage_exponent"`
	Ridge                float64 `koanf:"ridge"`
	SimilarityMapping    string  `koanf:"similarity_mapping"`
	SimilarityScale      float64 `koanf:"similarity_scale"`
	DefiningK            int     `koanf:"defining_k"`
	DefiningToleranceZ   float64 `koanf:"defining_tolerance_z"`
	CloneSimilarityFloor float64 `koanf:"clone_similarity_floor"`
	CloneCoverageFloor   float64 `koanf:"clone_coverage_floor"`
	DefiningBonus        float64 `koanf:"defining_bonus"`

	// Role gate.
	GateMinPool         int `koanf:"gate_min_pool"`
	GateMinFeatures     int `koanf:"gate_min_features"`
	GateMaxFeatures     int `koanf:"gate_max_features"`
	GateMinCluster      int `koanf:"gate_min_cluster"`
	GateNearestClusters int `koanf:"gate_nearest_clusters"`
	GateCacheSize       int `koanf:"gate_cache_size"`

	// Metric classification and direction.
	OutputMarkers    []string `koanf:"output_markers"`
	OutputSubstrings []string `koanf:"output_substrings"`
	NegativeMetrics  []string `koanf:"negative_metrics"`

	// LeagueFilters maps a filter name to competition ids.
	LeagueFilters map[string][]int `koanf:"league_filters"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		QueueSize:            1024,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           50_000,
		MaxTopN:              100,
		StoreBackend:         StoreMemory,
		DuckDBPath:           "scout.duckdb",
		NATSURL:              "nats://localhost:4222",
		NATSStream:           "scout",
		MCPEnabled:           true,
		MCPPath:              "/mcp",
		MinMinutes:           similarity.DefaultMinMinutes,
		TopN:                 similarity.DefaultTopN,
		MinCohortSize:        5,
		StyleWeight:          similarity.DefaultStyleWeight,
		OutputWeight:         similarity.DefaultOutputWeight,
		CoverageExponent:     scoring.DefaultCoverageExponent,
		Ridge:                similarity.DefaultRidge,
		SimilarityMapping:    scoring.MappingExponential,
		SimilarityScale:      scoring.DefaultExponentialK,
		DefiningK:            similarity.DefaultDefiningK,
		DefiningToleranceZ:   similarity.DefaultToleranceZ,
		CloneSimilarityFloor: similarity.DefaultSimilarityFloor,
		CloneCoverageFloor:   similarity.DefaultCoverageFloor,
		DefiningBonus:        scoring.DefaultDefiningBonus,
		GateMinPool:          150,
		GateMinFeatures:      8,
		GateMaxFeatures:      20,
		GateMinCluster:       25,
		GateNearestClusters:  3,
		GateCacheSize:        64,
		OutputMarkers:        metricclass.DefaultOutputMarkers(),
		OutputSubstrings:     metricclass.DefaultOutputSubstrings(),
		NegativeMetrics:      catalog.DefaultNegativeMetrics(),
		LeagueFilters:        pool.DefaultLeagueFilters(),
	}
}

// Validate reports every invalid field, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Addr) == "" {
		add("addr must not be empty")
	}
	positives := []struct {
		name string
		v    float64
	}{
		{"queue_size", float64(c.QueueSize)},
		{"dedupe_size", float64(c.DedupeSize)},
		{"max_top_n", float64(c.MaxTopN)},
		{"top_n", float64(c.TopN)},
		{"min_cohort_size", float64(c.MinCohortSize)},
		{"coverage_exponent", c.CoverageExponent},
		{"ridge", c.Ridge},
		{"similarity_scale", c.SimilarityScale},
		{"defining_k", float64(c.DefiningK)},
		{"defining_tolerance_z", c.DefiningToleranceZ},
		{"gate_min_pool", float64(c.GateMinPool)},
		{"gate_min_features", float64(c.GateMinFeatures)},
		{"gate_min_cluster", float64(c.GateMinCluster)},
		{"gate_nearest_clusters", float64(c.GateNearestClusters)},
		{"gate_cache_size", float64(c.GateCacheSize)},
	}
	for _, p := range positives {
		if !(p.v > 0) {
			add("%s must be positive", p.name)
		}
	}
	if c.WorkerCount < 0 {
		add("worker_count must not be negative")
	}
	if c.MinMinutes < 0 {
		add("min_minutes must not be negative")
	}
	if c.TopN > c.MaxTopN {
		add("top_n %d exceeds max_top_n %d", c.TopN, c.MaxTopN)
	}
	if c.GateMaxFeatures < c.GateMinFeatures {
		add("gate_max_features must be at least gate_min_features")
	}
	if c.StyleWeight < 0 || c.StyleWeight > 1 || c.OutputWeight < 0 || c.OutputWeight > 1 ||
		math.Abs(c.StyleWeight+c.OutputWeight-1) > 1e-9 {
		add("style_weight and output_weight must lie in [0,1] and sum to 1")
	}
	if c.CloneSimilarityFloor < 0 || c.CloneSimilarityFloor > scoring.MaxScore {
		add("clone_similarity_floor must lie in [0,100]")
	}
	if c.CloneCoverageFloor < 0 || c.CloneCoverageFloor > 1 {
		add("clone_coverage_floor must lie in [0,1]")
	}
	if c.DefiningBonus < 0 || c.DefiningBonus > 1 {
		add("defining_bonus must lie in [0,1]")
	}
	if _, err := scoring.NewMapping(c.SimilarityMapping, c.SimilarityScale); err != nil {
		add("similarity_mapping: %v", err)
	}
	switch c.StoreBackend {
	case StoreMemory:
	case StoreDuckDB:
		if strings.TrimSpace(c.DuckDBPath) == "" {
			add("duckdb_path must not be empty for the duckdb backend")
		}
	default:
		add("unknown store_backend %q", c.StoreBackend)
	}
	if c.NATSEnabled && strings.TrimSpace(c.NATSURL) == "" {
		add("nats_url must not be empty when nats is enabled")
	}
	if c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/") {
		add("mcp_path must start with /")
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}
