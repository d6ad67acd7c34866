package cluster

import (
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// maxRefinementAttempts bounds the total number of K-means re-subdivision
// calls across the whole cluster tree (spec §4.4 "recurse... bounded the
// same way C7's K-adaptive loop is bounded" — SPEC_FULL C4 detail).
const maxRefinementAttempts = 20

// Result is the outcome of the full C4 pipeline: final clusters plus the
// noise-reassignment trail for diagnostics.
type Result struct {
	Clusters          []types.Cluster
	NoiseReassignments []NoiseReassignment
}

// Settings mirrors types.ClusteringSettings with the metric already
// resolved to a geometry.Distance key.
type Settings struct {
	RadiusKM     float64
	MinSamples   int
	MaxGroupSize int
	Metric       types.Metric
	RandomState  int64
	NInit        int
}

// Run executes the full hybrid pipeline (spec §4.4): DBSCAN density pass,
// noise reassignment, then recursive K-means re-subdivision of any group
// exceeding MaxGroupSize.
func Run(points []geometry.Point, s Settings) Result {
	metric := string(s.Metric)
	eps := geometry.RadiusToEpsilon(metric, s.RadiusKM)

	labels := densityCluster(points, metric, eps, s.MinSamples)
	noise := reassignNoise(points, metric, labels)

	groups := groupByLabel(labels)
	keys := sortedLabelKeys(groups)

	attemptsRemaining := maxRefinementAttempts
	var clusters []types.Cluster
	nextID := 0

	for _, k := range keys {
		indices := groups[k]
		for _, idxSet := range refineGroup(points, indices, s, &attemptsRemaining) {
			clusters = append(clusters, types.Cluster{ID: nextID, Indices: idxSet})
			nextID++
		}
	}

	return Result{Clusters: clusters, NoiseReassignments: noise}
}

// refineGroup recursively re-subdivides indices with K-means until every
// resulting sub-group is within MaxGroupSize or attemptsRemaining is
// exhausted, in which case the oversized remainder is emitted as-is
// rather than looping forever (spec §4.4 recursion bound).
func refineGroup(points []geometry.Point, indices []int, s Settings, attemptsRemaining *int) [][]int {
	if len(indices) <= s.MaxGroupSize || *attemptsRemaining <= 0 {
		return [][]int{indices}
	}

	nSub := (len(indices) + s.MaxGroupSize - 1) / s.MaxGroupSize
	subPoints := make([]geometry.Point, len(indices))
	for i, idx := range indices {
		subPoints[i] = points[idx]
	}

	*attemptsRemaining--
	subLabels := kmeans(subPoints, nSub, s.RandomState, s.NInit)

	subGroups := make(map[int][]int)
	for i, l := range subLabels {
		subGroups[l] = append(subGroups[l], indices[i])
	}

	var result [][]int
	for _, key := range sortedLabelKeys(subGroups) {
		sub := subGroups[key]
		if len(sub) > s.MaxGroupSize && *attemptsRemaining > 0 {
			result = append(result, refineGroup(points, sub, s, attemptsRemaining)...)
		} else {
			result = append(result, sub)
		}
	}
	return result
}
