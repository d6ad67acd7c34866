package smart

import (
	"context"
	"sort"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/groupseq"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// GroupCentroid mirrors groupseq.Centroid for the smart pipeline's own
// group-ordering step.
type GroupCentroid struct {
	ClusterID  int
	Point      geometry.Point
	OrderCount int
}

// OrderGroups implements spec §4.7 "Group ordering": strict sorts
// clusters by centroid distance from start with no backtracking;
// optimized seeds greedy then 2-opts on centroids (reusing groupseq's
// greedy+2-opt machinery, since the contract is identical to C5's).
func OrderGroups(ctx context.Context, strict bool, start geometry.Point, centroids []GroupCentroid, costModel cost.Model) []int {
	gc := make([]groupseq.Centroid, len(centroids))
	for i, c := range centroids {
		gc[i] = groupseq.Centroid{ClusterID: c.ClusterID, Point: c.Point, OrderCount: c.OrderCount}
	}

	if strict {
		return strictOrder(start, gc)
	}
	return groupseq.Order(ctx, types.GroupOrder2Opt, start, gc, costModel)
}

// strictOrder sorts purely by distance from start, nearest first, with
// no later reconsideration (spec §4.7 "Strict").
func strictOrder(start geometry.Point, centroids []groupseq.Centroid) []int {
	type distanced struct {
		idx  int
		dist float64
	}
	entries := make([]distanced, len(centroids))
	for i, c := range centroids {
		entries[i] = distanced{idx: i, dist: geometry.PlanarDistance(start, c.Point)}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].dist < entries[j].dist })
	order := make([]int, len(entries))
	for i, e := range entries {
		order[i] = e.idx
	}
	return order
}
