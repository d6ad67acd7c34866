package cost

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/obstacle"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// ReportCrossing re-checks the realized segment between two consecutive
// stops and tags the result with which oracle produced it (supplemented
// feature: spec §6's Crossing schema carries a "method" field that the
// distilled spec never explains how to populate; here it is always the
// oracle that answered the query, "geometry" or "api", so a caller mixing
// verification modes across a plan can still distinguish results).
func ReportCrossing(ctx context.Context, oracle obstacle.CrossingOracle, fromID, toID string, from, to geometry.Point) types.Crossing {
	c := types.Crossing{FromTrackingID: fromID, ToTrackingID: toID}
	if oracle == nil {
		return c
	}
	c.Method = oracle.Method()
	status, err := oracle.CheckCrossing(ctx, from, to)
	if err != nil || status != obstacle.StatusCrosses {
		return c
	}
	// The API oracle only distinguishes "crosses" from "clear/unknown" and
	// cannot separate river vs highway; the geometry oracle can, but that
	// detail lives behind the obstacle.Index query the oracle wraps, not
	// in CrossingStatus. So a GeometryOracle's Index is queried again here
	// for the river/highway split, and any other oracle's crossing is
	// reported through the CrossesRiver flag.
	if g, ok := oracle.(*obstacle.GeometryOracle); ok {
		result := g.Index.Query(from, to, g.CheckHighways)
		c.CrossesRiver = result.CrossesRiver
		c.CrossesHighway = result.CrossesHighway
		return c
	}
	c.CrossesRiver = true
	return c
}
