package analysis

import (
	"math"
	"math/rand"
)

// K-means on standardized features. The seed is fixed so repeated runs over
// the same table partition identically; the best of several restarts (lowest
// inertia) is kept.

const (
	kmeansSeed     = 42
	kmeansRestarts = 10
	kmeansMaxIters = 300
)

// featureScaler standardizes each feature to zero mean and unit variance
// and can map standardized points back to the original scale.
type featureScaler struct {
	Means []float64
	Stds  []float64
}

func newFeatureScaler(rows [][]float64) *featureScaler {
	if len(rows) == 0 {
		return &featureScaler{}
	}
	dims := len(rows[0])
	s := &featureScaler{
		Means: make([]float64, dims),
		Stds:  make([]float64, dims),
	}
	for d := 0; d < dims; d++ {
		col := make([]float64, len(rows))
		for i, row := range rows {
			col[i] = row[d]
		}
		s.Means[d] = mean(col)
		// Population deviation, as feature scaling conventionally uses.
		var sumSq float64
		for _, v := range col {
			diff := v - s.Means[d]
			sumSq += diff * diff
		}
		s.Stds[d] = math.Sqrt(sumSq / float64(len(col)))
		if s.Stds[d] == 0 {
			s.Stds[d] = 1
		}
	}
	return s
}

func (s *featureScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for d, v := range row {
			scaled[d] = (v - s.Means[d]) / s.Stds[d]
		}
		out[i] = scaled
	}
	return out
}

func (s *featureScaler) InverseTransform(point []float64) []float64 {
	orig := make([]float64, len(point))
	for d, v := range point {
		orig[d] = v*s.Stds[d] + s.Means[d]
	}
	return orig
}

// kmeansResult holds the outcome of one clustering run.
type kmeansResult struct {
	Assignments []int
	Centroids   [][]float64
	Inertia     float64
}

// runKMeans partitions points into k groups by Lloyd's algorithm. Points
// must be non-empty with len(points) >= k.
func runKMeans(points [][]float64, k int) kmeansResult {
	rng := rand.New(rand.NewSource(kmeansSeed))
	best := kmeansResult{Inertia: math.Inf(1)}
	for restart := 0; restart < kmeansRestarts; restart++ {
		res := lloyd(points, k, rng)
		if res.Inertia < best.Inertia {
			best = res
		}
	}
	return best
}

func lloyd(points [][]float64, k int, rng *rand.Rand) kmeansResult {
	dims := len(points[0])

	// Seed centroids from distinct points.
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < kmeansMaxIters; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != assignments[i] {
				assignments[i] = nearest
				changed = true
			}
		}

		// Re-center. Empty clusters keep their previous centroid.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += squaredDistance(p, centroids[assignments[i]])
	}
	return kmeansResult{
		Assignments: assignments,
		Centroids:   centroids,
		Inertia:     inertia,
	}
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
