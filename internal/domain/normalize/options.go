package normalize

import "github.com/okian/scout/internal/domain/catalog"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithMinCohortSize sets the smallest group that is normalized.
func WithMinCohortSize(n int) Option {
	return func(nz *Normalizer) {
		if n > 0 {
			nz.minCohort = n
		}
	}
}

// WithNegativeMetrics replaces the set of metrics where lower is better.
func WithNegativeMetrics(metrics ...string) Option {
	return func(nz *Normalizer) {
		if metrics == nil {
			return
		}
		nz.negative = make(map[string]struct{}, len(metrics))
		for _, m := range metrics {
			nz.negative[m] = struct{}{}
		}
	}
}

// WithMetrics sets the metrics that receive percentile and z columns.
func WithMetrics(metrics ...string) Option {
	return func(nz *Normalizer) {
		if len(metrics) > 0 {
			nz.metrics = append([]string(nil), metrics...)
		}
	}
}

// WithCatalog normalizes every identity and radar metric of c.
func WithCatalog(c *catalog.Catalog) Option {
	return func(nz *Normalizer) {
		if c != nil {
			nz.metrics = c.AllMetrics()
		}
	}
}
