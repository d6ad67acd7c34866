package cluster

import (
	"math"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// KMeansLabels is the exported entry point smart.RunKAdaptive wires in
// (spec §4.7 reuses the same K-means call as C4's refinement step).
func KMeansLabels(points []geometry.Point, k int, randomState int64, nInit int) []int {
	return kmeans(points, k, randomState, nInit)
}

// kmeans is Lloyd's algorithm over (lat, lon), matching
// original_source/app.py's sklearn.cluster.KMeans(n_clusters, n_init)
// usage: nInit independent random-seeded restarts, keeping the lowest
// total squared-distance-to-centroid result.
func kmeans(points []geometry.Point, k int, randomState int64, nInit int) []int {
	if k <= 1 || len(points) <= k {
		labels := make([]int, len(points))
		return labels
	}

	var bestLabels []int
	bestInertia := math.Inf(1)

	rng := newLCG(randomState)
	for attempt := 0; attempt < nInit; attempt++ {
		labels, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels
}

func kmeansOnce(points []geometry.Point, k int, rng *lcg) ([]int, float64) {
	n := len(points)
	centroids := make([]geometry.Point, k)

	// k-means++-style seeding: first centroid random, remaining chosen
	// with probability proportional to squared distance from the nearest
	// already-chosen centroid, avoiding sklearn's plain-random-restart
	// pathology of picking two initial centroids from the same cluster.
	centroids[0] = points[rng.intn(n)]
	for c := 1; c < k; c++ {
		distSq := make([]float64, n)
		var total float64
		for i, p := range points {
			d := nearestCentroidDist(p, centroids[:c])
			distSq[i] = d * d
			total += distSq[i]
		}
		if total == 0 {
			centroids[c] = points[rng.intn(n)]
			continue
		}
		target := rng.float64() * total
		var acc float64
		chosen := n - 1
		for i, d := range distSq {
			acc += d
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids[c] = points[chosen]
	}

	labels := make([]int, n)
	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroidIndex(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		sums := make([]geometry.Point, k)
		counts := make([]int, k)
		for i, p := range points {
			l := labels[i]
			sums[l].Lat += p.Lat
			sums[l].Lon += p.Lon
			counts[l]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			centroids[c] = geometry.Point{
				Lat: sums[c].Lat / float64(counts[c]),
				Lon: sums[c].Lon / float64(counts[c]),
			}
		}
		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		d := geometry.PlanarDistance(p, centroids[labels[i]])
		inertia += d * d
	}
	return labels, inertia
}

func nearestCentroidIndex(p geometry.Point, centroids []geometry.Point) int {
	best := 0
	bestDist := geometry.PlanarDistance(p, centroids[0])
	for i := 1; i < len(centroids); i++ {
		d := geometry.PlanarDistance(p, centroids[i])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func nearestCentroidDist(p geometry.Point, centroids []geometry.Point) float64 {
	best := math.Inf(1)
	for _, c := range centroids {
		if d := geometry.PlanarDistance(p, c); d < best {
			best = d
		}
	}
	return best
}

// lcg is a minimal deterministic linear congruential generator, used so
// kmeans(randomState) is fully reproducible across runs without pulling
// in math/rand's global state (spec §8 property: "deterministic
// cluster-id assignment").
type lcg struct {
	state uint64
}

func newLCG(seed int64) *lcg {
	s := uint64(seed)
	if s == 0 {
		s = 1
	}
	return &lcg{state: s}
}

func (g *lcg) next() uint64 {
	// Knuth's MMIX LCG constants.
	g.state = g.state*6364136223846793005 + 1442695040888963407
	return g.state
}

func (g *lcg) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.next() % uint64(n))
}

func (g *lcg) float64() float64 {
	return float64(g.next()>>11) / float64(1<<53)
}
