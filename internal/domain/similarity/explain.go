package similarity

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/scout/internal/domain/model"
)

// Explanation sizes.
const (
	whySimilarCount   = 5
	whyDifferentCount = 2
)

// explain ranks the metrics both records observe by weighted |Δz| and
// returns the closest and the furthest ones.
func explain(target, c *model.PlayerSeasonRecord, metrics []string, weights []float64) (similar, different []string) {
	type diff struct {
		metric string
		d      float64
	}
	diffs := make([]diff, 0, len(metrics))
	for j, m := range metrics {
		tz, ok := target.ZValue(m)
		if !ok {
			continue
		}
		cz, ok := c.ZValue(m)
		if !ok {
			continue
		}
		diffs = append(diffs, diff{metric: m, d: math.Abs(cz-tz) * weights[j]})
	}
	if len(diffs) == 0 {
		return nil, nil
	}
	slices.SortStableFunc(diffs, func(a, b diff) int { return cmp.Compare(a.d, b.d) })
	for i := 0; i < len(diffs) && i < whySimilarCount; i++ {
		similar = append(similar, diffs[i].metric)
	}
	for i := len(diffs) - 1; i >= 0 && i >= len(diffs)-whyDifferentCount; i-- {
		different = append(different, diffs[i].metric)
	}
	return similar, different
}
