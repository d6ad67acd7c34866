// Package cluster implements the hybrid density/K-means partitioning
// pipeline (spec §4.4): a DBSCAN-style density pass groups orders by
// proximity, isolated points are folded into their nearest neighboring
// group, and any group left larger than max_group_size is recursively
// re-subdivided with K-means.
//
// No DBSCAN or K-means implementation appears anywhere in the retrieval
// pack (gonum's stat package covers PCA, not clustering), so both
// algorithms here are a direct, stdlib-only port of
// original_source/app.py's sklearn.cluster usage — documented in
// DESIGN.md as the one clustering component with no ecosystem library to
// ground on.
package cluster

import (
	"sort"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

const noiseLabel = -1

// densityCluster runs a DBSCAN pass over points using the given metric
// and epsilon (already converted to the metric's native unit by
// geometry.RadiusToEpsilon), returning a label per point: -1 for noise,
// else a 0-based cluster index (spec §4.4 step 1).
func densityCluster(points []geometry.Point, metric string, eps float64, minSamples int) []int {
	n := len(points)
	labels := make([]int, n)
	visited := make([]bool, n)
	for i := range labels {
		labels[i] = noiseLabel
	}

	dist := func(a, b geometry.Point) float64 {
		if metric == "haversine" {
			// eps is in radians for haversine; compare the central angle.
			return geometry.HaversineDistanceKM(a, b) / geometry.EarthRadiusKM
		}
		return geometry.Distance(metric, a, b)
	}

	neighbors := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dist(points[i], points[j]) <= eps {
				out = append(out, j)
			}
		}
		return out
	}

	nextLabel := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neigh := neighbors(i)
		if len(neigh)+1 < minSamples {
			continue // stays noiseLabel, may be reassigned or claimed by expansion below
		}

		labels[i] = nextLabel
		seeds := append([]int{}, neigh...)
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if !visited[j] {
				visited[j] = true
				jNeigh := neighbors(j)
				if len(jNeigh)+1 >= minSamples {
					seeds = append(seeds, jNeigh...)
				}
			}
			if labels[j] == noiseLabel {
				labels[j] = nextLabel
			}
		}
		nextLabel++
	}
	return labels
}

// NoiseReassignment records, for one reassigned noise point, the cluster
// it joined and the distance to the point that decided it (one of the
// supplemented bookkeeping fields app.py surfaces in its diagnostic log
// but the distilled spec drops from its response schema).
type NoiseReassignment struct {
	PointIndex        int
	JoinedClusterID   int
	DistanceToCluster float64
}

// reassignNoise folds every noise point into the cluster of its nearest
// non-noise point (spec §4.4 step 2, ported from app.py's noise
// reassignment loop), rewriting labels in place. If every point is noise,
// all points fall into a single synthetic cluster 0. Returns one
// NoiseReassignment per reassigned point.
func reassignNoise(points []geometry.Point, metric string, labels []int) []NoiseReassignment {
	var reassignments []NoiseReassignment

	hasNonNoise := false
	for _, l := range labels {
		if l != noiseLabel {
			hasNonNoise = true
			break
		}
	}
	if !hasNonNoise {
		for i := range labels {
			labels[i] = 0
		}
		return reassignments
	}

	for i, l := range labels {
		if l != noiseLabel {
			continue
		}
		bestJ := -1
		bestDist := 0.0
		for j, lj := range labels {
			if lj == noiseLabel || j == i {
				continue
			}
			d := geometry.Distance(metric, points[i], points[j])
			if bestJ == -1 || d < bestDist {
				bestJ, bestDist = j, d
			}
		}
		if bestJ == -1 {
			labels[i] = 0
			continue
		}
		labels[i] = labels[bestJ]
		reassignments = append(reassignments, NoiseReassignment{
			PointIndex:        i,
			JoinedClusterID:   labels[bestJ],
			DistanceToCluster: bestDist,
		})
	}
	return reassignments
}

// groupByLabel partitions point indices by their density-cluster label.
// The returned map has no iteration order; callers walk it through
// sortedLabelKeys for deterministic cluster-id assignment (spec §4.4
// "deterministic cluster-id assignment").
func groupByLabel(labels []int) map[int][]int {
	groups := make(map[int][]int)
	for i, l := range labels {
		groups[l] = append(groups[l], i)
	}
	return groups
}

// sortedLabelKeys returns the distinct labels of groups in ascending
// order.
func sortedLabelKeys(groups map[int][]int) []int {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
