package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/scout/internal/domain/catalog"
)

// Environment variables read by Load.
const (
	EnvPrefix = "SCOUT_"
	EnvConfig = "SCOUT_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SCOUT_CONFIG is set
//  3. env (prefix SCOUT_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SCOUT_QUEUE_SIZE -> queue_size (flat keys, underscores preserved).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The file path itself is not a config key.
	k.Delete("config")

	cfg := *base
	resetOverridden(k, &cfg)
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resetOverridden clears list and map defaults that the loaded layers set,
// so an override replaces the default instead of merging into it.
func resetOverridden(k *koanf.Koanf, cfg *Config) {
	fields := map[string]func(){
		"output_markers":    func() { cfg.OutputMarkers = nil },
		"output_substrings": func() { cfg.OutputSubstrings = nil },
		"negative_metrics":  func() { cfg.NegativeMetrics = nil },
		"league_filters":    func() { cfg.LeagueFilters = nil },
	}
	for key, reset := range fields {
		if k.Exists(key) {
			reset()
		}
	}
}

// LoadCatalog returns the built-in catalog when path is empty, otherwise
// the YAML catalog at path. Either way the result is validated.
func LoadCatalog(_ context.Context, path string) (*catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default(), nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %w", ErrLoadConfig, path, err)
	}
	var c catalog.Catalog
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %w", ErrLoadConfig, path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
