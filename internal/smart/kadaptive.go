// Package smart implements the disciplined "smart" planning pipeline
// (spec §4.7): K-adaptive clustering, strict/optimized group ordering,
// an entry-point chain across clusters, and a directional-constrained
// open 2-opt with selectable inter-group linkage.
package smart

import (
	"sort"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// maxKAdaptiveIterations bounds the clustering retry loop (spec §4.7
// "Bounded iteration (<= 20)").
const maxKAdaptiveIterations = 20

// radiusShrinkFactor is applied to the effective cluster radius each
// retry (spec §4.7 "reduce the effective cluster radius by 15%").
const radiusShrinkFactor = 0.85

// minClusterRadiusKM floors the shrinking radius so it never reaches
// zero (original_source/smart_route_planner.py's min_cluster_radius).
const minClusterRadiusKM = 0.1

// kmeansFn abstracts the K-means call so this package doesn't import
// internal/cluster's unexported Lloyd's-algorithm implementation
// directly; the planner wires in cluster.KMeansLabels.
type kmeansFn func(points []geometry.Point, k int, randomState int64, nInit int) []int

// KAdaptiveResult is the outcome of the adaptive clustering loop: the
// final label->indices grouping and the radius/iteration count it
// converged at.
type KAdaptiveResult struct {
	Groups     map[int][]int
	Iterations int
	FinalRadiusKM float64
}

// RunKAdaptive implements spec §4.7 "K-adaptive clustering": start with
// k0 = ceil(N/max_group_size); run K-means; if the largest cluster is
// still >= max_group_size, shrink the radius 15% (floored), increment k,
// and retry, up to maxKAdaptiveIterations.
//
// Open Question (a) resolution: the returned Groups is always
// re-derived from the labels actually produced by the loop's *last*
// K-means call, including on cap-exit — never from a variable that could
// lag the loop's exit condition by an iteration, which is the bug
// smart_route_planner.py's smart_kmeans_clustering exhibits (its
// group_sizes is captured from the last fit_predict but the loop can
// exit on the iteration cap with a still-oversized group still sitting
// in it, with no final re-subdivision assertion).
func RunKAdaptive(points []geometry.Point, maxGroupSize int, initialRadiusKM float64, randomState int64, nInit int, km kmeansFn) KAdaptiveResult {
	n := len(points)
	if n == 0 {
		return KAdaptiveResult{Groups: map[int][]int{}}
	}

	k := (n + maxGroupSize - 1) / maxGroupSize
	if k < 1 {
		k = 1
	}
	radius := initialRadiusKM

	var lastGroups map[int][]int
	iterations := 0

	for iterations < maxKAdaptiveIterations {
		iterations++
		labels := km(points, k, randomState, nInit)

		groups := make(map[int][]int)
		for i, l := range labels {
			groups[l] = append(groups[l], i)
		}
		lastGroups = groups

		maxSize := 0
		for _, idx := range groups {
			if len(idx) > maxSize {
				maxSize = len(idx)
			}
		}

		if maxSize < maxGroupSize {
			break
		}

		radius *= radiusShrinkFactor
		if radius < minClusterRadiusKM {
			radius = minClusterRadiusKM
		}
		k++
	}

	// Assert the invariant the Python original skips: if the loop
	// exhausted its cap still oversized, re-subdivide the offending
	// groups with plain K-means splits rather than emitting them as-is.
	lastGroups = enforceMaxSize(points, lastGroups, maxGroupSize, randomState, nInit, km)

	return KAdaptiveResult{Groups: lastGroups, Iterations: iterations, FinalRadiusKM: radius}
}

func enforceMaxSize(points []geometry.Point, groups map[int][]int, maxGroupSize int, randomState int64, nInit int, km kmeansFn) map[int][]int {
	result := make(map[int][]int)
	nextID := 0
	for _, key := range sortedIntKeys(groups) {
		indices := groups[key]
		if len(indices) <= maxGroupSize {
			result[nextID] = indices
			nextID++
			continue
		}
		subPoints := make([]geometry.Point, len(indices))
		for i, idx := range indices {
			subPoints[i] = points[idx]
		}
		nSub := (len(indices) + maxGroupSize - 1) / maxGroupSize
		subLabels := km(subPoints, nSub, randomState, nInit)
		subGroups := make(map[int][]int)
		for i, l := range subLabels {
			subGroups[l] = append(subGroups[l], indices[i])
		}
		for _, subKey := range sortedIntKeys(subGroups) {
			sub := subGroups[subKey]
			if len(sub) > maxGroupSize && len(subGroups) > 1 {
				deeper := enforceMaxSize(points, map[int][]int{0: sub}, maxGroupSize, randomState, nInit, km)
				for _, dk := range sortedIntKeys(deeper) {
					result[nextID] = deeper[dk]
					nextID++
				}
				continue
			}
			result[nextID] = sub
			nextID++
		}
	}
	return result
}

func sortedIntKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
