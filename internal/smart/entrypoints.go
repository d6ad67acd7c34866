package smart

import (
	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// GroupData is one ordered cluster's points for the entry-point chain and
// intra-cluster optimizer, keyed by the cluster's position in the
// already-decided group sequence.
type GroupData struct {
	ClusterID int
	Points    []geometry.Point // original-order points of this cluster
}

// EntryPoint is the chosen entry vertex for one cluster in the chain:
// its local index within GroupData.Points and the resolved coordinate.
type EntryPoint struct {
	LocalIndex int
	Point      geometry.Point
}

// DetermineEntryPoints implements spec §4.7 "Entry-point chain": cluster
// A's entry point is the order nearest the driver start; every
// subsequent cluster X's entry point is the order nearest the centroid
// of the *previous* cluster in sequence (not the previous cluster's
// entry point), grounded on
// original_source/smart_route_planner.py's determine_group_entry_points
// (reference_point walks start -> centroid(A) -> centroid(B) -> ...).
func DetermineEntryPoints(start geometry.Point, orderedGroups []GroupData) []EntryPoint {
	entries := make([]EntryPoint, len(orderedGroups))
	reference := start

	for i, g := range orderedGroups {
		if len(g.Points) == 0 {
			continue
		}
		best := 0
		bestDist := geometry.PlanarDistance(reference, g.Points[0])
		for j := 1; j < len(g.Points); j++ {
			if d := geometry.PlanarDistance(reference, g.Points[j]); d < bestDist {
				best, bestDist = j, d
			}
		}
		entries[i] = EntryPoint{LocalIndex: best, Point: g.Points[best]}
		reference = geometry.Centroid(g.Points)
	}
	return entries
}
