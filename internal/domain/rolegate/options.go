package rolegate

// Option applies a configuration option to the Gate.
type Option func(*Gate)

// WithMinPool sets the pool size below which gating is skipped.
func WithMinPool(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.minPool = n
		}
	}
}

// WithFeatureBounds sets the minimum feature count and the cap on features used.
func WithFeatureBounds(minFeatures, maxFeatures int) Option {
	return func(g *Gate) {
		if minFeatures > 0 && maxFeatures >= minFeatures {
			g.minFeatures = minFeatures
			g.maxFeatures = maxFeatures
		}
	}
}

// WithMinCluster sets the size at which the target's own cluster is kept alone.
func WithMinCluster(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.minCluster = n
		}
	}
}

// WithNearestClusters sets how many clusters are unioned when the target's
// cluster is too small.
func WithNearestClusters(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.nearest = n
		}
	}
}

// WithClusterBounds bounds k.
func WithClusterBounds(minK, maxK int) Option {
	return func(g *Gate) {
		if minK >= 1 && maxK >= minK {
			g.minK = minK
			g.maxK = maxK
		}
	}
}

// WithPointsPerCluster sets the divisor in k = sqrt(n / perCluster).
func WithPointsPerCluster(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.perCluster = n
		}
	}
}

// WithMaxIterations caps Lloyd iterations.
func WithMaxIterations(n int) Option {
	return func(g *Gate) {
		if n > 0 {
			g.maxIter = n
		}
	}
}

// WithCacheSize bounds the memo of fitted clusterings. Zero disables it.
func WithCacheSize(n int) Option {
	return func(g *Gate) {
		if n >= 0 {
			g.cacheSize = n
		}
	}
}
