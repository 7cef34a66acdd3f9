package normalize

import (
	"fmt"
	"sort"

	"github.com/okian/scout/internal/domain/model"
)

const projectStdEpsilon = 1e-9

type distribution struct {
	sorted []float64
	mean   float64
	std    float64
}

// Projector places records from another dataset into the percentile and
// z-score space of a reference dataset, per position group.
type Projector struct {
	nz    *Normalizer
	dists map[string]map[string]distribution
}

// Projector builds reference distributions from reference records, which
// must already carry their position group.
func (nz *Normalizer) Projector(reference []model.PlayerSeasonRecord) *Projector {
	values := make(map[string]map[string][]float64)
	for i := range reference {
		g := reference[i].PositionGroup
		if g == "" {
			continue
		}
		if values[g] == nil {
			values[g] = make(map[string][]float64)
		}
		for _, m := range nz.metrics {
			if v, ok := reference[i].Value(m); ok {
				values[g][m] = append(values[g][m], v)
			}
		}
	}
	p := &Projector{nz: nz, dists: make(map[string]map[string]distribution, len(values))}
	for g, byMetric := range values {
		p.dists[g] = make(map[string]distribution, len(byMetric))
		for m, vals := range byMetric {
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			mean, std := PopMeanStd(sorted)
			p.dists[g][m] = distribution{sorted: sorted, mean: mean, std: std}
		}
	}
	return p
}

// Project returns a copy of rec with Pct and Z taken against the reference
// distribution of its group. The percentile is the share of reference
// values at or below the raw value; the z-score is left missing when the
// reference has no spread. Missing raw values stay missing.
func (p *Projector) Project(rec model.PlayerSeasonRecord) (model.PlayerSeasonRecord, error) {
	out := rec.Clone()
	dists, ok := p.dists[out.PositionGroup]
	if !ok {
		return out, fmt.Errorf("%w: %q", ErrNoReference, out.PositionGroup)
	}
	out.Pct = make(map[string]float64)
	out.Z = make(map[string]float64)
	for m, d := range dists {
		x, ok := out.Value(m)
		if !ok {
			continue
		}
		n := len(d.sorted)
		atOrBelow := sort.Search(n, func(i int) bool { return d.sorted[i] > x })
		pct := float64(atOrBelow) / float64(n) * 100
		if p.nz.IsNegative(m) {
			pct = 100 - pct
		}
		out.Pct[m] = pct
		if d.std > projectStdEpsilon {
			out.Z[m] = (x - d.mean) / d.std
		}
	}
	return out, nil
}
