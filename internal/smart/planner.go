package smart

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// Planner runs the full "smart" pipeline (spec §4.7): K-adaptive
// clustering, group ordering, entry-point chain, and per-cluster
// directional open-2opt with the configured linkage mode.
type Planner struct {
	Settings  types.SmartSettings
	CostModel cost.Model
	KMeans    kmeansFn
}

// ClusterPlan is one cluster's final local visitation order (indices
// into that cluster's original point slice) in the smart pipeline's
// output sequence.
type ClusterPlan struct {
	ClusterID int
	LocalOrder []int
}

// Plan runs the full pipeline over points (already reassigned from any
// upstream noise step) and returns clusters in final visitation order,
// each internally sequenced, plus the ClusterID -> original-point-index
// grouping the caller needs to translate LocalOrder back to orders.
func (p *Planner) Plan(ctx context.Context, start geometry.Point, points []geometry.Point, maxGroupSize int, initialRadiusKM float64, randomState int64, nInit int, strictGroupOrder bool) ([]ClusterPlan, map[int][]int) {
	adaptive := RunKAdaptive(points, maxGroupSize, initialRadiusKM, randomState, nInit, p.KMeans)

	centroids := make([]GroupCentroid, 0, len(adaptive.Groups))
	for _, key := range sortedIntKeys(adaptive.Groups) {
		idx := adaptive.Groups[key]
		pts := gatherPoints(points, idx)
		centroids = append(centroids, GroupCentroid{
			ClusterID:  key,
			Point:      geometry.Centroid(pts),
			OrderCount: len(idx),
		})
	}

	groupOrder := OrderGroups(ctx, strictGroupOrder, start, centroids, p.CostModel)

	orderedGroups := make([]GroupData, len(groupOrder))
	for i, gi := range groupOrder {
		cid := centroids[gi].ClusterID
		orderedGroups[i] = GroupData{
			ClusterID: cid,
			Points:    gatherPoints(points, adaptive.Groups[cid]),
		}
	}

	entryPoints := DetermineEntryPoints(start, orderedGroups)

	results := make([]ClusterPlan, len(orderedGroups))
	for i, g := range orderedGroups {
		var nextCentroid *geometry.Point
		var directionalTarget *geometry.Point
		if i+1 < len(orderedGroups) {
			next := orderedGroups[i+1]
			c := geometry.Centroid(next.Points)
			nextCentroid = &c
			if p.Settings.DirectionalConstraint {
				ep := entryPoints[i+1].Point
				directionalTarget = &ep
			}
		}

		startIdx := entryPoints[i].LocalIndex
		order := LinkageOptimize(g.Points, startIdx, p.Settings.NextGroupLinkage, nextCentroid, p.Settings.LinkageWeight, p.Settings.DirectionalConstraint, directionalTarget)
		results[i] = ClusterPlan{ClusterID: g.ClusterID, LocalOrder: order}
	}

	return results, adaptive.Groups
}

func gatherPoints(points []geometry.Point, indices []int) []geometry.Point {
	out := make([]geometry.Point, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out
}
