// Package catalog holds the static position-group configuration: which raw
// position labels form a group, the role archetypes of each group and the
// radar groupings used by presentation layers.
//
// A Catalog is built once at start-up, validated, and then treated as
// read-only by every other package.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// CloneTuning overrides the engine's clone-tier thresholds for one archetype.
// Zero fields fall back to engine defaults.
type CloneTuning struct {
	DefiningK       int     `koanf:"defining_k" json:"defining_k,omitempty"`
	ToleranceZ      float64 `koanf:"tolerance_z" json:"tolerance_z,omitempty"`
	MatchNeed       int     `koanf:"match_need" json:"match_need,omitempty"`
	SimilarityFloor float64 `koanf:"similarity_floor" json:"similarity_floor,omitempty"`
	CoverageFloor   float64 `koanf:"coverage_floor" json:"coverage_floor,omitempty"`
}

// Archetype is a named sub-role defined by its identity metrics.
type Archetype struct {
	Name            string       `koanf:"name" json:"name"`
	Description     string       `koanf:"description" json:"description,omitempty"`
	IdentityMetrics []string     `koanf:"identity_metrics" json:"identity_metrics"`
	KeyWeight       float64      `koanf:"key_weight" json:"key_weight"`
	Clone           *CloneTuning `koanf:"clone" json:"clone,omitempty"`
}

// HasIdentity reports whether metric is one of the archetype's identity metrics.
func (a *Archetype) HasIdentity(metric string) bool {
	return slices.Contains(a.IdentityMetrics, metric)
}

// Radar is a visualization grouping of metrics.
type Radar struct {
	Name    string   `koanf:"name" json:"name"`
	Metrics []string `koanf:"metrics" json:"metrics"`
}

// PositionGroup aggregates granular position labels into one cohort.
type PositionGroup struct {
	Name       string      `koanf:"name" json:"name"`
	Positions  []string    `koanf:"positions" json:"positions"`
	Archetypes []Archetype `koanf:"archetypes" json:"archetypes"`
	Radars     []Radar     `koanf:"radars" json:"radars,omitempty"`
}

// Archetype returns the archetype called name.
func (g *PositionGroup) Archetype(name string) (*Archetype, bool) {
	for i := range g.Archetypes {
		if g.Archetypes[i].Name == name {
			return &g.Archetypes[i], true
		}
	}
	return nil, false
}

// IdentityUnion returns the sorted union of identity metrics across the
// group's archetypes.
func (g *PositionGroup) IdentityUnion() []string {
	set := make(map[string]struct{})
	for _, a := range g.Archetypes {
		for _, m := range a.IdentityMetrics {
			set[m] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Catalog is the ordered set of position groups.
type Catalog struct {
	Groups []PositionGroup `koanf:"groups" json:"groups"`
}

// Group returns the group called name.
func (c *Catalog) Group(name string) (*PositionGroup, bool) {
	for i := range c.Groups {
		if c.Groups[i].Name == name {
			return &c.Groups[i], true
		}
	}
	return nil, false
}

// GroupFor maps a raw primary position label to its group name.
func (c *Catalog) GroupFor(position string) (string, bool) {
	position = strings.TrimSpace(position)
	if position == "" {
		return "", false
	}
	for _, g := range c.Groups {
		if slices.Contains(g.Positions, position) {
			return g.Name, true
		}
	}
	return "", false
}

// IdentityUnion returns the sorted identity-metric union for group, or nil
// when the group is unknown.
func (c *Catalog) IdentityUnion(group string) []string {
	g, ok := c.Group(group)
	if !ok {
		return nil
	}
	return g.IdentityUnion()
}

// AllMetrics returns the sorted union of every identity and radar metric.
func (c *Catalog) AllMetrics() []string {
	set := make(map[string]struct{})
	for _, g := range c.Groups {
		for _, a := range g.Archetypes {
			for _, m := range a.IdentityMetrics {
				set[m] = struct{}{}
			}
		}
		for _, r := range g.Radars {
			for _, m := range r.Metrics {
				set[m] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// Validate checks the catalog for configuration errors. Every problem found
// is reported, each wrapping ErrInvalidCatalog.
func (c *Catalog) Validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("%w: no position groups", ErrInvalidCatalog)
	}
	var problems []string
	groupNames := make(map[string]struct{})
	owner := make(map[string]string)
	for _, g := range c.Groups {
		if g.Name == "" {
			problems = append(problems, "position group with empty name")
			continue
		}
		if _, dup := groupNames[g.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate position group %q", g.Name))
		}
		groupNames[g.Name] = struct{}{}
		if len(g.Positions) == 0 {
			problems = append(problems, fmt.Sprintf("group %q has no positions", g.Name))
		}
		for _, p := range g.Positions {
			if prev, taken := owner[p]; taken && prev != g.Name {
				problems = append(problems, fmt.Sprintf("position %q in groups %q and %q", p, prev, g.Name))
			}
			owner[p] = g.Name
		}
		if len(g.Archetypes) == 0 {
			problems = append(problems, fmt.Sprintf("group %q has no archetypes", g.Name))
		}
		problems = append(problems, validateArchetypes(g)...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

func validateArchetypes(g PositionGroup) []string {
	var problems []string
	seen := make(map[string]struct{})
	for _, a := range g.Archetypes {
		where := fmt.Sprintf("%s/%s", g.Name, a.Name)
		if a.Name == "" {
			problems = append(problems, fmt.Sprintf("group %q has an archetype with empty name", g.Name))
		}
		if _, dup := seen[a.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate archetype %q", where))
		}
		seen[a.Name] = struct{}{}
		if len(a.IdentityMetrics) == 0 {
			problems = append(problems, fmt.Sprintf("archetype %q has no identity metrics", where))
		}
		if a.KeyWeight <= 0 {
			problems = append(problems, fmt.Sprintf("archetype %q key_weight must be > 0", where))
		}
		for _, m := range a.IdentityMetrics {
			if err := checkMetricName(m); err != "" {
				problems = append(problems, fmt.Sprintf("archetype %q: %s", where, err))
			}
		}
		if a.Clone != nil {
			problems = append(problems, validateClone(where, a.Clone)...)
		}
	}
	for _, r := range g.Radars {
		for _, m := range r.Metrics {
			if err := checkMetricName(m); err != "" {
				problems = append(problems, fmt.Sprintf("radar %s/%s: %s", g.Name, r.Name, err))
			}
		}
	}
	return problems
}

func validateClone(where string, t *CloneTuning) []string {
	var problems []string
	if t.DefiningK < 0 || t.MatchNeed < 0 || t.ToleranceZ < 0 {
		problems = append(problems, fmt.Sprintf("archetype %q clone tuning must not be negative", where))
	}
	if t.DefiningK > 0 && t.MatchNeed > t.DefiningK {
		problems = append(problems, fmt.Sprintf("archetype %q match_need exceeds defining_k", where))
	}
	if t.SimilarityFloor < 0 || t.SimilarityFloor > 100 {
		problems = append(problems, fmt.Sprintf("archetype %q similarity_floor outside [0,100]", where))
	}
	if t.CoverageFloor < 0 || t.CoverageFloor > 1 {
		problems = append(problems, fmt.Sprintf("archetype %q coverage_floor outside [0,1]", where))
	}
	return problems
}

func checkMetricName(m string) string {
	switch {
	case strings.TrimSpace(m) == "":
		return "empty metric name"
	case strings.HasSuffix(m, "_pct"), strings.HasSuffix(m, "_z"):
		return fmt.Sprintf("metric %q must not carry a derived suffix", m)
	}
	return ""
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
