package planner

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/cluster"
	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/obstacle"
	"github.com/lastmile-route/routeplanner/internal/smart"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// planSmart runs the C7 "smart" pipeline (spec §4.7): K-adaptive
// clustering, group ordering, entry-point chain, and directional
// open-2opt intra-cluster sequencing.
func (p *Planner) planSmart(ctx context.Context, req types.PlanRequest, start geometry.Point, points []geometry.Point, orders []types.Order, costModel cost.Model, oracle obstacle.CrossingOracle) ([]types.PlannedStop, []types.Crossing, int, error) {
	sp := &smart.Planner{
		Settings:  req.Smart,
		CostModel: costModel,
		KMeans:    cluster.KMeansLabels,
	}

	plans, groupIndices := sp.Plan(ctx, start, points, req.Clustering.MaxGroupSize, req.Clustering.RadiusKM, req.Clustering.RandomState, req.Clustering.NInit, req.Smart.StrictGroupOrder)

	labels := types.GroupLabels(len(plans))

	var stops []types.PlannedStop
	var crossings []types.Crossing
	current := start
	globalSeq := 1

	for seqPos, cp := range plans {
		label := labels[seqPos]
		indices := groupIndices[cp.ClusterID]

		for localSeq, localIdx := range cp.LocalOrder {
			orderIdx := indices[localIdx]
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

	return stops, crossings, len(plans), nil
}
