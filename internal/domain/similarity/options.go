package similarity

import (
	"github.com/okian/scout/internal/domain/metricclass"
	"github.com/okian/scout/internal/domain/rolegate"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithMinMinutes sets the default minutes floor for candidates.
func WithMinMinutes(m float64) Option {
	return func(e *Engine) {
		if m >= 0 {
			e.minMinutes = m
		}
	}
}

// WithTopN sets the default result size.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithBlend sets the style and output subspace weights.
func WithBlend(style, output float64) Option {
	return func(e *Engine) {
		e.styleWeight = style
		e.outputWeight = output
	}
}

// WithCoverageExponent sets the exponent of the coverage penalty.
func WithCoverageExponent(x float64) Option {
	return func(e *Engine) {
		if x > 0 {
			e.coverageExponent = x
		}
	}
}

// WithRidge sets the diagonal regularization added to covariance estimates.
func WithRidge(r float64) Option {
	return func(e *Engine) {
		if r >= 0 {
			e.ridge = r
		}
	}
}

// WithMapping sets the distance to similarity mapping.
func WithMapping(m scoring.Mapping) Option {
	return func(e *Engine) {
		if m != nil {
			e.mapping = m
		}
	}
}

// WithDefiningTraits sets the default number of defining traits and the
// z tolerance for a trait to count as matched.
func WithDefiningTraits(k int, toleranceZ float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.definingK = k
		}
		if toleranceZ > 0 {
			e.toleranceZ = toleranceZ
		}
	}
}

// WithCloneFloors sets the similarity and coverage floors of the clone tier.
func WithCloneFloors(similarity, coverage float64) Option {
	return func(e *Engine) {
		if similarity > 0 {
			e.similarityFloor = similarity
		}
		if coverage > 0 {
			e.coverageFloor = coverage
		}
	}
}

// WithDefiningBonus sets the weight of the defining-trait soft score.
func WithDefiningBonus(b float64) Option {
	return func(e *Engine) {
		if b >= 0 && b <= 1 {
			e.definingBonus = b
		}
	}
}

// WithClassifier sets the style/output metric classifier.
func WithClassifier(c *metricclass.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithGate sets the role gate. Engines sharing a gate share its memo cache.
func WithGate(g *rolegate.Gate) Option {
	return func(e *Engine) {
		if g != nil {
			e.gate = g
		}
	}
}

// WithLogger enables debug logging of numerical fallbacks.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}
