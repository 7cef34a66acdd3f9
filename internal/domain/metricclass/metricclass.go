// Package metricclass splits metrics into "style" (behavioural frequency and
// ratio metrics) and "output" (goal, assist, expected-goal and shot-derived
// production) subspaces.
package metricclass

import "strings"

// DefaultOutputMarkers lists metrics treated as output by name.
func DefaultOutputMarkers() []string {
	return []string{
		"npg_90", "goals_90", "assists_90", "xa_90", "xg_90", "npxg_90", "np_xg_90", "npxgxa_90",
		"xgchain_90", "op_xgchain_90", "xgbuildup_90", "op_xgbuildup_90", "shots_90",
		"shots_on_target_90", "box_shots_90", "touches_inside_box_90", "xg_per_shot",
		"npxg_per_shot", "key_passes_90",
	}
}

// DefaultOutputSubstrings marks any metric containing one of them as output.
func DefaultOutputSubstrings() []string {
	return []string{"xg", "xa"}
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithOutputMarkers replaces the exact-name output markers.
func WithOutputMarkers(markers ...string) Option {
	return func(c *Classifier) {
		c.markers = make(map[string]struct{}, len(markers))
		for _, m := range markers {
			c.markers[m] = struct{}{}
		}
	}
}

// WithOutputSubstrings replaces the substring rules. Passing none disables
// substring matching.
func WithOutputSubstrings(subs ...string) Option {
	return func(c *Classifier) {
		c.substrings = append([]string(nil), subs...)
	}
}

// Classifier decides which subspace a metric belongs to.
type Classifier struct {
	markers    map[string]struct{}
	substrings []string
}

// New creates a Classifier with the default marker set.
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	WithOutputMarkers(DefaultOutputMarkers()...)(c)
	WithOutputSubstrings(DefaultOutputSubstrings()...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsOutput reports whether metric belongs to the output subspace.
func (c *Classifier) IsOutput(metric string) bool {
	if _, ok := c.markers[metric]; ok {
		return true
	}
	for _, s := range c.substrings {
		if s != "" && strings.Contains(metric, s) {
			return true
		}
	}
	return false
}

// Split partitions metrics, preserving order. When every metric is output,
// style falls back to the full list so there is always a style subspace.
func (c *Classifier) Split(metrics []string) (style, output []string) {
	for _, m := range metrics {
		if c.IsOutput(m) {
			output = append(output, m)
		} else {
			style = append(style, m)
		}
	}
	if len(style) == 0 {
		style = append([]string(nil), metrics...)
	}
	return style, output
}
