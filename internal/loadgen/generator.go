package loadgen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// providerPrefix is the metric prefix the statistics provider sends.
const providerPrefix = "player_season_"

type competition struct {
	ID   int
	Name string
}

var competitions = []competition{
	{ID: 51, Name: "Premiership"},
	{ID: 1385, Name: "Championship"},
	{ID: 4, Name: "League One"},
	{ID: 5, Name: "League Two"},
}

// Generate builds a deterministic synthetic dataset for every position group
// of cat. Each player leans towards one archetype of their group: its
// identity metrics sit above the cohort mean, so searches have real clones
// to find.
func Generate(cfg *Config, cat *catalog.Catalog) []model.PlayerSeasonRecord {
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	negatives := catalog.DefaultNegativeMetrics()

	seasons := max(cfg.Seasons, 1)
	out := make([]model.PlayerSeasonRecord, 0, len(cat.Groups)*cfg.PlayersPerGroup*seasons)
	for gi := range cat.Groups {
		g := &cat.Groups[gi]
		metrics := groupMetrics(g)
		for p := 0; p < cfg.PlayersPerGroup; p++ {
			arch := &g.Archetypes[p%len(g.Archetypes)]
			profile := make(map[string]float64, len(metrics))
			for _, m := range metrics {
				z := rng.NormFloat64() * metricNoise
				if arch.HasIdentity(m) {
					z += identityBoost
				}
				if slices.Contains(negatives, m) {
					z = -z
				}
				profile[m] = z
			}

			id := int64(gi+1)*playerIDStride + int64(p) + 1
			comp := competitions[p%len(competitions)]
			birth := fmt.Sprintf("%d-%02d-%02d", minBirthYear+rng.IntN(birthYearSpan), 1+rng.IntN(12), 1+rng.IntN(28))
			for s := 0; s < seasons; s++ {
				year := firstSeasonYear + s
				rec := model.PlayerSeasonRecord{
					PlayerID:        id,
					PlayerName:      fmt.Sprintf("%s %s %03d", arch.Name, initials(g.Name), p+1),
					TeamName:        fmt.Sprintf("%s FC %d", comp.Name, p%10+1),
					LeagueName:      comp.Name,
					CompetitionID:   comp.ID,
					SeasonID:        firstSeasonID + s,
					SeasonName:      fmt.Sprintf("%d/%d", year, year+1),
					BirthDate:       birth,
					PrimaryPosition: g.Positions[p%len(g.Positions)],
					Minutes:         float64(minMinutesPlayed + rng.IntN(maxMinutesPlayed-minMinutesPlayed)),
					Metrics:         make(map[string]float64, len(metrics)),
				}
				for _, m := range metrics {
					z := profile[m] + rng.NormFloat64()*seasonDrift
					rec.Metrics[providerPrefix+m] = metricValue(m, z)
				}
				out = append(out, rec)
			}
		}
	}
	return out
}

// groupMetrics is the sorted union of the group's identity and radar metrics.
func groupMetrics(g *catalog.PositionGroup) []string {
	set := make(map[string]struct{})
	for _, m := range g.IdentityUnion() {
		set[m] = struct{}{}
	}
	for _, r := range g.Radars {
		for _, m := range r.Metrics {
			set[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// metricValue maps a latent z to a plausible raw value: ratios stay in
// (0, 1), everything else is a non-negative per-90 rate.
func metricValue(metric string, z float64) float64 {
	if strings.HasSuffix(metric, "_ratio") {
		return math.Min(0.99, math.Max(0.01, ratioMetricCenter+ratioMetricScale*z))
	}
	return math.Max(0, baseMetricValue*(1+metricValueScale*z))
}

func initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteByte(w[0])
	}
	return b.String()
}

// Batches splits records into POST /records bodies. Batch ids are name-based
// UUIDs of the seed and position, so rerunning a seed replays the same ids.
func Batches(records []model.PlayerSeasonRecord, size int, seed uint64) []Batch {
	if size < 1 {
		size = DefaultBatchSize
	}
	var out []Batch
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, Batch{
			BatchID: uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "scout-seed-%d-%d", seed, start/size)).String(),
			Records: records[start:end],
		})
	}
	return out
}
