// Package rolegate narrows a position-group candidate pool to players with
// a similar behavioural profile before distance computation. The pool is
// robust-scaled, clustered with a deterministic k-means, and the target's
// cluster (or the nearest few clusters when it is small) is kept. Gating is
// an optimization: whenever it cannot run cleanly the pool passes through.
package rolegate

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/scout/internal/domain/model"
)

// Default role gate configuration constants.
const (
	defaultMinPool         = 150
	defaultMinFeatures     = 8
	defaultMaxFeatures     = 20
	defaultMinCluster      = 25
	defaultNearestClusters = 3
	defaultMinK            = 2
	defaultMaxK            = 8
	defaultPerCluster      = 25
	defaultMaxIterations   = 50
	defaultCacheSize       = 64
)

// Outcome reasons.
const (
	ReasonTargetCluster   = "target cluster"
	ReasonNearestClusters = "nearest clusters"
	ReasonSmallPool       = "pool below minimum"
	ReasonFewFeatures     = "too few features"
	ReasonDegenerate      = "degenerate clustering"
	ReasonCancelled       = "cancelled"
)

// Input is one gating request. Features are z-score metric names; Pool is
// already restricted to the target's position group.
type Input struct {
	Group    string
	Features []string
	Target   *model.PlayerSeasonRecord
	Pool     []model.PlayerSeasonRecord
}

// Outcome lists the pool indices to keep. When Applied is false Indices
// covers the whole pool and Reason says why gating was skipped.
type Outcome struct {
	Indices       []int  `json:"-"`
	Applied       bool   `json:"applied"`
	Reason        string `json:"reason"`
	K             int    `json:"k,omitempty"`
	TargetCluster int    `json:"target_cluster,omitempty"`
	CacheHit      bool   `json:"cache_hit,omitempty"`
	Kept          int    `json:"kept"`
}

// Gate clusters candidate pools. It is safe for concurrent use.
type Gate struct {
	minPool     int
	minFeatures int
	maxFeatures int
	minCluster  int
	nearest     int
	minK        int
	maxK        int
	perCluster  int
	maxIter     int
	cacheSize   int
	cache       *modelCache
}

// New creates a Gate.
func New(opts ...Option) *Gate {
	g := &Gate{
		minPool:     defaultMinPool,
		minFeatures: defaultMinFeatures,
		maxFeatures: defaultMaxFeatures,
		minCluster:  defaultMinCluster,
		nearest:     defaultNearestClusters,
		minK:        defaultMinK,
		maxK:        defaultMaxK,
		perCluster:  defaultPerCluster,
		maxIter:     defaultMaxIterations,
		cacheSize:   defaultCacheSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cache = newModelCache(g.cacheSize)
	return g
}

// CacheLen reports how many fitted clusterings are memoized.
func (g *Gate) CacheLen() int {
	return g.cache.len()
}

// Apply gates in.Pool around in.Target.
func (g *Gate) Apply(ctx context.Context, in Input) Outcome {
	features := in.Features
	if len(features) > g.maxFeatures {
		features = features[:g.maxFeatures]
	}
	switch {
	case len(features) < g.minFeatures:
		return g.passThrough(in, ReasonFewFeatures)
	case len(in.Pool) < g.minPool:
		return g.passThrough(in, ReasonSmallPool)
	case in.Target == nil:
		return g.passThrough(in, ReasonDegenerate)
	}

	rows := make([][]float64, len(in.Pool))
	for i := range in.Pool {
		rows[i] = zRow(&in.Pool[i], features)
	}
	key := fingerprint(in.Group, features, in.Pool, rows)

	f, hit := g.cache.get(key)
	if !hit {
		if ctx.Err() != nil {
			return g.passThrough(in, ReasonCancelled)
		}
		sc := fitScaler(rows, len(features))
		points := make([][]float64, len(rows))
		for i, r := range rows {
			points[i] = sc.transform(r)
		}
		if !hasSpread(points) {
			return g.passThrough(in, ReasonDegenerate)
		}
		cl, ok := kmeans(points, g.chooseK(len(points)), g.maxIter)
		if !ok {
			return g.passThrough(in, ReasonDegenerate)
		}
		f = &fitted{scaler: sc, clustering: cl}
		g.cache.put(key, f)
	}

	tp := f.scaler.transform(zRow(in.Target, features))
	order := f.clustering.byDistance(tp)
	own := order[0]
	keep := map[int]bool{own: true}
	reason := ReasonTargetCluster
	if f.clustering.counts[own] < g.minCluster {
		reason = ReasonNearestClusters
		for i := 1; i < len(order) && i < g.nearest; i++ {
			keep[order[i]] = true
		}
	}
	idx := make([]int, 0, len(in.Pool))
	for i, c := range f.clustering.assign {
		if keep[c] {
			idx = append(idx, i)
		}
	}
	return Outcome{
		Indices:       idx,
		Applied:       true,
		Reason:        reason,
		K:             len(f.clustering.centroids),
		TargetCluster: own,
		CacheHit:      hit,
		Kept:          len(idx),
	}
}

// chooseK returns clip(round(sqrt(n/perCluster)), minK, maxK).
func (g *Gate) chooseK(n int) int {
	k := int(math.Round(math.Sqrt(float64(n) / float64(g.perCluster))))
	k = max(k, g.minK)
	k = min(k, g.maxK)
	return min(k, n)
}

func (g *Gate) passThrough(in Input, reason string) Outcome {
	idx := make([]int, len(in.Pool))
	for i := range idx {
		idx[i] = i
	}
	return Outcome{Indices: idx, Reason: reason, Kept: len(idx)}
}

func zRow(r *model.PlayerSeasonRecord, features []string) []float64 {
	row := make([]float64, len(features))
	for j, m := range features {
		if z, ok := r.ZValue(m); ok {
			row[j] = z
		} else {
			row[j] = math.NaN()
		}
	}
	return row
}

// hasSpread reports whether at least two points differ.
func hasSpread(points [][]float64) bool {
	for i := 1; i < len(points); i++ {
		for j := range points[i] {
			if points[i][j] != points[0][j] {
				return true
			}
		}
	}
	return false
}

// fingerprint hashes everything the fitted clustering depends on.
func fingerprint(group string, features []string, pool []model.PlayerSeasonRecord, rows [][]float64) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(group)
	for _, f := range features {
		_, _ = h.WriteString("\x00" + f)
	}
	buf := make([]byte, 0, 8*(3+len(features)))
	for i := range pool {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, uint64(pool[i].PlayerID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(pool[i].CompetitionID))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(pool[i].SeasonID))
		for _, v := range rows[i] {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}
