// Package scoring holds the small scoring rules shared by the similarity
// engine and the ranker: distance to similarity mappings, the coverage
// penalty, the defining-trait bonus and the upgrade score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// Default scoring configuration constants.
const (
	MaxScore                = 100.0
	DefaultExponentialK     = 0.5
	DefaultReciprocalScale  = 1.0
	DefaultCoverageExponent = 0.85
	DefaultDefiningBonus    = 0.15
)

// Mapping names accepted by NewMapping.
const (
	MappingExponential = "exp"
	MappingReciprocal  = "reciprocal"
)

// Mapping converts a non-negative distance into a similarity in [0,100].
// Every mapping returns 100 at distance 0 and tends to 0 as distance grows.
type Mapping interface {
	Similarity(distance float64) float64
	Name() string
}

// Exponential maps d to 100·e^(−K·d).
type Exponential struct {
	K float64
}

// Similarity implements Mapping.
func (e Exponential) Similarity(d float64) float64 {
	if !validDistance(d) {
		return 0
	}
	return Clamp(MaxScore*math.Exp(-e.K*d), 0, MaxScore)
}

// Name implements Mapping.
func (Exponential) Name() string { return MappingExponential }

// Reciprocal maps d to 100/(1 + d/Scale).
type Reciprocal struct {
	Scale float64
}

// Similarity implements Mapping.
func (r Reciprocal) Similarity(d float64) float64 {
	if !validDistance(d) {
		return 0
	}
	return Clamp(MaxScore/(1+d/r.Scale), 0, MaxScore)
}

// Name implements Mapping.
func (Reciprocal) Name() string { return MappingReciprocal }

// NewMapping builds a mapping by name. A non-positive param selects the
// mapping's default constant.
func NewMapping(name string, param float64) (Mapping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MappingExponential:
		if param <= 0 {
			param = DefaultExponentialK
		}
		return Exponential{K: param}, nil
	case MappingReciprocal:
		if param <= 0 {
			param = DefaultReciprocalScale
		}
		return Reciprocal{Scale: param}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMapping, name)
	}
}

// Coverage is the geometric mean of the observed fractions of target and
// candidate.
func Coverage(targetFraction, candidateFraction float64) float64 {
	if targetFraction <= 0 || candidateFraction <= 0 {
		return 0
	}
	return math.Sqrt(Clamp(targetFraction, 0, 1) * Clamp(candidateFraction, 0, 1))
}

// CoveragePenalty is the multiplier applied to similarity for coverage.
func CoveragePenalty(coverage, exponent float64) float64 {
	if coverage <= 0 {
		return 0
	}
	return math.Pow(Clamp(coverage, 0, 1), exponent)
}

// DefiningBonus turns a defining-trait soft score in [0,1] into a multiplier
// in [1−b, 1].
func DefiningBonus(score, b float64) float64 {
	b = Clamp(b, 0, 1)
	return 1 - b*(1-Clamp(score, 0, 1))
}

// UpgradeScore is the mean percentile of rec over metrics, skipping
// missing values.
func UpgradeScore(rec *model.PlayerSeasonRecord, metrics []string) (float64, bool) {
	sum := 0.0
	n := 0
	for _, m := range metrics {
		if p, ok := rec.PctValue(m); ok {
			sum += p
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return Clamp(sum/float64(n), 0, MaxScore), true
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v), v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

func validDistance(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 1) && d >= 0
}
