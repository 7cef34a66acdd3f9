// Package similarity ranks the candidates most similar to a target
// player-season. Each search selects a weighted metric space for the
// target's position group, gates the pool by role, measures Mahalanobis
// distance separately over style and output metrics, and tiers candidates
// into clones and next-best fits.
//
// An Engine holds configuration only. Search is a pure function of its
// Query apart from the role gate's memoized clusterings, so one Engine can
// serve concurrent searches.
package similarity

import (
	"context"
	"math"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/metricclass"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/ranking"
	"github.com/okian/scout/internal/domain/rolegate"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/pkg/logger"
)

// Default engine configuration constants.
const (
	DefaultMinMinutes      = 600.0
	DefaultTopN            = 10
	DefaultStyleWeight     = 0.7
	DefaultOutputWeight    = 0.3
	DefaultRidge           = 1e-3
	DefaultDefiningK       = 6
	DefaultToleranceZ      = 0.6
	DefaultSimilarityFloor = 60.0
	DefaultCoverageFloor   = 0.70
)

// Status says why a search returned what it did.
type Status string

// Search statuses. Only StatusOK carries matches.
const (
	StatusOK               Status = "ok"
	StatusNoCandidates     Status = "no_candidates"
	StatusInsufficientData Status = "insufficient_data"
	StatusNoArchetype      Status = "no_archetype"
)

// Subspace names.
const (
	SubspaceStyle  = "style"
	SubspaceOutput = "output"
)

// Query is one similarity search. Pool may hold any records; the engine
// drops the target's own rows, other position groups and players under
// the minutes floor before computing anything.
type Query struct {
	Target    *model.PlayerSeasonRecord
	Pool      []model.PlayerSeasonRecord
	Group     *catalog.PositionGroup
	Archetype *catalog.Archetype
	Mode      model.SearchMode
	// TopN and MinMinutes fall back to engine defaults when zero.
	TopN       int
	MinMinutes float64
}

// Diagnostics describes how a search was computed.
type Diagnostics struct {
	PoolSize       int               `json:"pool_size"`
	Eligible       int               `json:"eligible"`
	Compared       int               `json:"compared"`
	Archetype      string            `json:"archetype,omitempty"`
	Metrics        []string          `json:"metrics,omitempty"`
	StyleMetrics   []string          `json:"style_metrics,omitempty"`
	OutputMetrics  []string          `json:"output_metrics,omitempty"`
	Gate           rolegate.Outcome  `json:"gate"`
	Covariance     map[string]string `json:"covariance,omitempty"`
	Fallbacks      []string          `json:"fallbacks,omitempty"`
	DefiningTraits []string          `json:"defining_traits,omitempty"`
	MatchNeed      int               `json:"match_need,omitempty"`
	Clones         int               `json:"clones"`
}

// Result is the outcome of a search.
type Result struct {
	Status      Status              `json:"status"`
	Matches     []model.MatchResult `json:"matches"`
	Diagnostics Diagnostics         `json:"diagnostics"`
}

// Engine computes similarity searches.
type Engine struct {
	minMinutes       float64
	topN             int
	styleWeight      float64
	outputWeight     float64
	coverageExponent float64
	ridge            float64
	mapping          scoring.Mapping
	definingK        int
	toleranceZ       float64
	similarityFloor  float64
	coverageFloor    float64
	definingBonus    float64
	classifier       *metricclass.Classifier
	gate             *rolegate.Gate
	log              logger.Logger
}

// New creates an Engine. It fails only when the blend weights are invalid.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		minMinutes:       DefaultMinMinutes,
		topN:             DefaultTopN,
		styleWeight:      DefaultStyleWeight,
		outputWeight:     DefaultOutputWeight,
		coverageExponent: scoring.DefaultCoverageExponent,
		ridge:            DefaultRidge,
		mapping:          scoring.Exponential{K: scoring.DefaultExponentialK},
		definingK:        DefaultDefiningK,
		toleranceZ:       DefaultToleranceZ,
		similarityFloor:  DefaultSimilarityFloor,
		coverageFloor:    DefaultCoverageFloor,
		definingBonus:    scoring.DefaultDefiningBonus,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.styleWeight < 0 || e.outputWeight < 0 || math.Abs(e.styleWeight+e.outputWeight-1) > 1e-9 {
		return nil, ErrInvalidBlend
	}
	if e.classifier == nil {
		e.classifier = metricclass.New()
	}
	if e.gate == nil {
		e.gate = rolegate.New()
	}
	return e, nil
}

// Search ranks q.Pool against q.Target. Data problems are reported through
// Result.Status, never as errors. The error is non-nil only for a nil
// target or a cancelled context.
func (e *Engine) Search(ctx context.Context, q Query) (Result, error) {
	if q.Target == nil {
		return Result{}, ErrNilTarget
	}
	res := Result{Status: StatusOK, Matches: []model.MatchResult{}}
	res.Diagnostics.PoolSize = len(q.Pool)
	if q.Group == nil {
		res.Status = StatusInsufficientData
		return res, nil
	}
	if q.Archetype == nil {
		res.Status = StatusNoArchetype
		return res, nil
	}
	res.Diagnostics.Archetype = q.Archetype.Name

	eligible := e.eligible(q)
	res.Diagnostics.Eligible = len(eligible)
	if len(eligible) == 0 {
		res.Status = StatusNoCandidates
		return res, nil
	}

	ptrs := make([]*model.PlayerSeasonRecord, len(eligible))
	for i := range eligible {
		ptrs[i] = &eligible[i]
	}
	metrics := selectMetrics(q.Group, q.Archetype, q.Target, ptrs)
	if len(metrics) == 0 || !observesAny(q.Target, metrics) {
		res.Status = StatusInsufficientData
		return res, nil
	}
	style, output := e.classifier.Split(metrics)
	res.Diagnostics.Metrics = metrics
	res.Diagnostics.StyleMetrics = style
	res.Diagnostics.OutputMetrics = output

	outcome := e.gate.Apply(ctx, rolegate.Input{
		Group:    q.Group.Name,
		Features: style,
		Target:   q.Target,
		Pool:     eligible,
	})
	res.Diagnostics.Gate = outcome
	if !outcome.Applied {
		e.fallback(ctx, &res, "gate", outcome.Reason)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	gated := make([]*model.PlayerSeasonRecord, len(outcome.Indices))
	for i, idx := range outcome.Indices {
		gated[i] = ptrs[idx]
	}

	sp := buildSpace(metrics, q.Archetype, q.Target, gated)
	styleCols := sp.indexOf(style)
	subs := []*subspace{fitSubspace(SubspaceStyle, styleCols, sp.rows, sp.weightsFor(styleCols), e.ridge)}
	if len(output) > 0 {
		outputCols := sp.indexOf(output)
		subs = append(subs, fitSubspace(SubspaceOutput, outputCols, sp.rows, sp.weightsFor(outputCols), e.ridge))
	}
	res.Diagnostics.Covariance = make(map[string]string, len(subs))
	for _, s := range subs {
		res.Diagnostics.Covariance[s.name] = s.tier
		if s.tier != TierLedoitWolf {
			e.fallback(ctx, &res, s.name, "covariance "+s.tier)
		}
	}

	th := e.resolveThresholds(q.Archetype)
	tr := definingTraits(q.Target, metrics, th)
	res.Diagnostics.DefiningTraits = tr.metrics
	res.Diagnostics.MatchNeed = tr.need
	upgradeMetrics := q.Archetype.IdentityMetrics
	targetFraction := observedFraction(sp.target)

	matches := make([]model.MatchResult, 0, len(gated))
	for i, c := range gated {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		m, ok := e.score(q, sp, subs, i, c, tr, th, targetFraction)
		if !ok {
			continue
		}
		if q.Mode == model.ModeUpgrade {
			u, found := scoring.UpgradeScore(c, upgradeMetrics)
			if !found {
				u, found = scoring.UpgradeScore(c, metrics)
			}
			if found {
				m.UpgradeScore = &u
			}
		}
		matches = append(matches, m)
	}
	for _, s := range subs {
		if s.pinvFails > 0 {
			e.fallback(ctx, &res, s.name, "pseudo-inverse failed, euclidean")
		}
	}
	res.Diagnostics.Compared = len(matches)
	if len(matches) == 0 {
		res.Status = StatusNoCandidates
		return res, nil
	}

	topN := q.TopN
	if topN <= 0 {
		topN = e.topN
	}
	res.Matches = ranking.Top(matches, q.Mode, topN)
	for i := range res.Matches {
		if res.Matches[i].Tier == model.TierClone {
			res.Diagnostics.Clones++
		}
	}
	return res, nil
}

// score computes one candidate row. ok is false when the candidate shares
// no observed metric with the target.
func (e *Engine) score(q Query, sp *space, subs []*subspace, i int, c *model.PlayerSeasonRecord, tr traits, th thresholds, targetFraction float64) (model.MatchResult, bool) {
	row := sp.rows[i]
	styleD, styleOK := subs[0].distance(sp.target, row)
	var outD float64
	outOK := false
	if len(subs) > 1 {
		outD, outOK = subs[1].distance(sp.target, row)
	}
	if !styleOK && !outOK {
		return model.MatchResult{}, false
	}

	m := model.MatchResult{Record: c.Clone()}
	var blended, distance float64
	switch {
	case styleOK && outOK:
		ss, outSim := e.mapping.Similarity(styleD), e.mapping.Similarity(outD)
		m.StyleSimilarity = ss
		m.OutputSimilarity = &outSim
		blended = e.styleWeight*ss + e.outputWeight*outSim
		distance = e.styleWeight*styleD + e.outputWeight*outD
	case styleOK:
		m.StyleSimilarity = e.mapping.Similarity(styleD)
		blended, distance = m.StyleSimilarity, styleD
	default:
		outSim := e.mapping.Similarity(outD)
		m.OutputSimilarity = &outSim
		blended, distance = outSim, outD
	}

	m.Coverage = scoring.Coverage(targetFraction, observedFraction(row))
	m.DefiningK = len(tr.metrics)
	m.DefiningMatchCount, m.DefiningMatchScore = tr.match(c, th.toleranceZ)
	sim := blended *
		scoring.CoveragePenalty(m.Coverage, e.coverageExponent) *
		scoring.DefiningBonus(m.DefiningMatchScore, e.definingBonus)
	m.SimilarityScore = scoring.Clamp(sim, 0, scoring.MaxScore)
	m.Distance = distance
	m.Tier, m.FailReasons = classify(m.DefiningMatchCount, tr, m.SimilarityScore, m.Coverage, th)
	m.WhySimilar, m.WhyDifferent = explain(q.Target, c, sp.metrics, sp.weights)
	return m, true
}

// eligible drops the target's own rows, other groups and low-minute rows.
func (e *Engine) eligible(q Query) []model.PlayerSeasonRecord {
	minMinutes := q.MinMinutes
	if minMinutes <= 0 {
		minMinutes = e.minMinutes
	}
	out := make([]model.PlayerSeasonRecord, 0, len(q.Pool))
	for _, r := range q.Pool {
		if r.PlayerID == q.Target.PlayerID || r.PositionGroup != q.Group.Name || r.Minutes < minMinutes {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) fallback(ctx context.Context, res *Result, where, reason string) {
	res.Diagnostics.Fallbacks = append(res.Diagnostics.Fallbacks, where+": "+reason)
	if e.log != nil {
		e.log.Debug(ctx, "similarity fallback",
			logger.String("component", where),
			logger.String("reason", reason),
			logger.Int("pool", res.Diagnostics.Eligible))
	}
}

func observesAny(r *model.PlayerSeasonRecord, metrics []string) bool {
	for _, m := range metrics {
		if _, ok := r.ZValue(m); ok {
			return true
		}
	}
	return false
}
