package planner

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/cluster"
	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/groupseq"
	"github.com/lastmile-route/routeplanner/internal/innerseq"
	"github.com/lastmile-route/routeplanner/internal/obstacle"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// planClassic runs C4 (hybrid clustering) -> C5 (group sequencer) -> C6
// (intra-group sequencer), the default pipeline (spec §4.4-§4.6).
func (p *Planner) planClassic(ctx context.Context, req types.PlanRequest, start geometry.Point, points []geometry.Point, orders []types.Order, costModel cost.Model, oracle obstacle.CrossingOracle, endAnchor *geometry.Point) ([]types.PlannedStop, []types.Crossing, int, error) {
	result := cluster.Run(points, cluster.Settings{
		RadiusKM:     req.Clustering.RadiusKM,
		MinSamples:   req.Clustering.MinSamples,
		MaxGroupSize: req.Clustering.MaxGroupSize,
		Metric:       req.Clustering.Metric,
		RandomState:  req.Clustering.RandomState,
		NInit:        req.Clustering.NInit,
	})

	if len(result.NoiseReassignments) > 0 {
		p.logger.Debug("noise points reassigned", "count", len(result.NoiseReassignments))
	}

	centroids := make([]groupseq.Centroid, len(result.Clusters))
	for i, c := range result.Clusters {
		pts := pointsFor(points, c.Indices)
		centroids[i] = groupseq.Centroid{ClusterID: c.ID, Point: geometry.Centroid(pts), OrderCount: len(pts)}
	}

	order := groupseq.Order(ctx, req.GroupOrder, start, centroids, costModel)
	labels := types.GroupLabels(len(order))

	var stops []types.PlannedStop
	var crossings []types.Crossing
	current := start
	globalSeq := 1

	for seqPos, ci := range order {
		c := result.Clusters[ci]
		clusterPoints := pointsFor(points, c.Indices)
		label := labels[seqPos]

		var end *geometry.Point
		if endAnchor != nil && seqPos == len(order)-1 {
			end = endAnchor
		}
		localOrder := innerseq.Order(ctx, req.InnerOrder, current, clusterPoints, end, costModel)

		for localSeq, localIdx := range localOrder {
			orderIdx := c.Indices[localIdx]
			o := orders[orderIdx]
			stopPoint := geometry.Point{Lat: o.Lat, Lon: o.Lon}

			if oracle != nil {
				fromID := previousTrackingID(stops)
				crossings = append(crossings, cost.ReportCrossing(ctx, oracle, fromID, o.TrackingID, current, stopPoint))
			}

			stops = append(stops, types.PlannedStop{
				GlobalSeq:  globalSeq,
				GroupLabel: label,
				IntraSeq:   types.FormatIntraSeq(label, localSeq+1),
				TrackingID: o.TrackingID,
				Lat:        o.Lat,
				Lon:        o.Lon,
			})
			globalSeq++
			current = stopPoint
		}
	}

	return stops, crossings, len(result.Clusters), nil
}

func pointsFor(points []geometry.Point, indices []int) []geometry.Point {
	out := make([]geometry.Point, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out
}

func previousTrackingID(stops []types.PlannedStop) string {
	if len(stops) == 0 {
		return "START"
	}
	return stops[len(stops)-1].TrackingID
}
