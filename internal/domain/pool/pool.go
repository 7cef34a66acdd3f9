// Package pool prepares the candidate pool a search runs against: season
// scope, named league filters and an age window, plus player lookup by name.
package pool

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// Named league filters.
const (
	AllLeagues              = "All Leagues"
	DomesticLeagues         = "Domestic Leagues"
	ScottishLeagues         = "Scottish Leagues"
	PremiershipChampionship = "Premiership & Championship"
	maxSuggestions          = 5
)

// DefaultLeagueFilters returns the competition ids of each named filter.
func DefaultLeagueFilters() map[string][]int {
	return map[string][]int{
		DomesticLeagues:         {4, 5, 51, 65, 1385, 166},
		ScottishLeagues:         {51},
		PremiershipChampionship: {51, 1385},
	}
}

// AgeRange is an inclusive age window.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Criteria selects a pool. Zero values select everything.
type Criteria struct {
	// Seasons keeps the latest N canonical seasons present in the data.
	Seasons int       `json:"seasons,omitempty"`
	League  string    `json:"league,omitempty"`
	Age     *AgeRange `json:"age,omitempty"`
}

// Selection is a filtered pool.
type Selection struct {
	Records []model.PlayerSeasonRecord
	// Seasons lists the canonical seasons in scope, newest first.
	Seasons []int
	// UnknownAge counts kept records without an age.
	UnknownAge int
}

// Option configures a Filter.
type Option func(*Filter)

// WithLeagueFilters replaces the named league filters.
func WithLeagueFilters(filters map[string][]int) Option {
	return func(f *Filter) {
		if len(filters) > 0 {
			f.leagues = make(map[string]map[int]bool, len(filters))
			for name, ids := range filters {
				f.leagues[name] = toSet(ids)
			}
		}
	}
}

// Filter applies Criteria to records.
type Filter struct {
	leagues map[string]map[int]bool
}

// New creates a Filter with the default league filters.
func New(opts ...Option) *Filter {
	f := &Filter{}
	WithLeagueFilters(DefaultLeagueFilters())(f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Leagues returns the filter names, sorted.
func (f *Filter) Leagues() []string {
	return slices.Sorted(maps.Keys(f.leagues))
}

// Apply filters records by c. Records with an unknown age always pass the
// age window and are counted.
func (f *Filter) Apply(records []model.PlayerSeasonRecord, c Criteria) (Selection, error) {
	var ids map[int]bool
	if c.League != "" && c.League != AllLeagues {
		set, ok := f.leagues[c.League]
		if !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownLeagueFilter, c.League)
		}
		ids = set
	}
	if c.Age != nil && c.Age.Min > c.Age.Max {
		return Selection{}, fmt.Errorf("%w: %d > %d", ErrInvalidAgeRange, c.Age.Min, c.Age.Max)
	}

	seasons := LatestSeasons(records, c.Seasons)
	inScope := toSet(seasons)
	sel := Selection{Seasons: seasons, Records: make([]model.PlayerSeasonRecord, 0, len(records))}
	for _, r := range records {
		if c.Seasons > 0 && !inScope[r.CanonicalSeason] {
			continue
		}
		if ids != nil && !ids[r.CompetitionID] {
			continue
		}
		if c.Age != nil {
			if r.Age == nil {
				sel.UnknownAge++
			} else if *r.Age < c.Age.Min || *r.Age > c.Age.Max {
				continue
			}
		}
		sel.Records = append(sel.Records, r)
	}
	return sel, nil
}

// LatestSeasons returns the n most recent canonical seasons present in
// records, newest first. n ≤ 0 returns all of them.
func LatestSeasons(records []model.PlayerSeasonRecord, n int) []int {
	set := make(map[int]bool)
	for _, r := range records {
		if r.CanonicalSeason > 0 {
			set[r.CanonicalSeason] = true
		}
	}
	out := slices.Sorted(maps.Keys(set))
	slices.Reverse(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Suggestion is a partial name match.
type Suggestion struct {
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name"`
}

// FindByName returns the first record whose name equals name ignoring case.
// Without an exact match it returns up to five partial matches instead.
func FindByName(records []model.PlayerSeasonRecord, name string) (*model.PlayerSeasonRecord, []Suggestion) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}
	for i := range records {
		if strings.ToLower(records[i].PlayerName) == needle {
			r := records[i].Clone()
			return &r, nil
		}
	}
	var out []Suggestion
	for i := range records {
		if len(out) == maxSuggestions {
			break
		}
		if strings.Contains(strings.ToLower(records[i].PlayerName), needle) {
			out = append(out, Suggestion{PlayerName: records[i].PlayerName, TeamName: records[i].TeamName})
		}
	}
	return nil, out
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
