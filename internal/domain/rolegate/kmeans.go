package rolegate

import (
	"gonum.org/v1/gonum/floats"
)

// clustering is a fitted k-means partition of the scaled pool.
type clustering struct {
	centroids [][]float64
	assign    []int
	counts    []int
}

// kmeans partitions points into k clusters. Seeding is deterministic: the
// first point, then repeatedly the point farthest from every chosen
// centroid. Lloyd iterations stop when no assignment changes or after
// maxIter rounds; an unconverged run is reassigned against the final
// centroids. ok is false when a cluster ends up empty.
func kmeans(points [][]float64, k, maxIter int) (clustering, bool) {
	n := len(points)
	if n == 0 || k < 1 || k > n {
		return clustering{}, false
	}
	p := len(points[0])

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[0]...))
	minDist := make([]float64, n)
	for i := range points {
		minDist[i] = floats.Distance(points[i], centroids[0], 2)
	}
	for len(centroids) < k {
		best, bestDist := 0, -1.0
		for i, d := range minDist {
			if d > bestDist {
				best, bestDist = i, d
			}
		}
		if bestDist <= 0 {
			// fewer distinct points than clusters
			return clustering{}, false
		}
		c := append([]float64(nil), points[best]...)
		centroids = append(centroids, c)
		for i := range points {
			if d := floats.Distance(points[i], c, 2); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	counts := make([]int, k)
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		if !reassign(points, centroids, assign, counts) {
			converged = true
			break
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			sum := make([]float64, p)
			for i, pt := range points {
				if assign[i] == c {
					floats.Add(sum, pt)
				}
			}
			floats.Scale(1/float64(counts[c]), sum)
			centroids[c] = sum
		}
	}
	if !converged {
		reassign(points, centroids, assign, counts)
	}
	for _, cnt := range counts {
		if cnt == 0 {
			return clustering{}, false
		}
	}
	return clustering{centroids: centroids, assign: assign, counts: counts}, true
}

// reassign moves every point to its nearest centroid and recounts the
// clusters. It reports whether any assignment changed.
func reassign(points, centroids [][]float64, assign, counts []int) bool {
	changed := false
	for i := range counts {
		counts[i] = 0
	}
	for i, pt := range points {
		c := nearest(pt, centroids)
		if assign[i] != c {
			assign[i] = c
			changed = true
		}
		counts[c]++
	}
	return changed
}

// nearest returns the index of the closest centroid; ties go to the lower index.
func nearest(pt []float64, centroids [][]float64) int {
	best, bestDist := 0, floats.Distance(pt, centroids[0], 2)
	for c := 1; c < len(centroids); c++ {
		if d := floats.Distance(pt, centroids[c], 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// byDistance returns cluster indices ordered by centroid distance from pt.
func (cl clustering) byDistance(pt []float64) []int {
	idx := make([]int, len(cl.centroids))
	dist := make([]float64, len(cl.centroids))
	for c := range cl.centroids {
		idx[c] = c
		dist[c] = floats.Distance(pt, cl.centroids[c], 2)
	}
	// insertion sort keeps equal distances in index order
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && dist[idx[j]] < dist[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}
