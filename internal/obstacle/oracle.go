package obstacle

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// CrossingStatus is the verdict an oracle returns for a query segment
// (spec §4.3: "the engine treats this as a boolean with possible
// 'unknown' result").
type CrossingStatus int

const (
	StatusClear CrossingStatus = iota
	StatusCrosses
	StatusUnknown
)

// CrossingOracle is the seam between the cost model and whichever
// verification backend is configured, following the same "opaque
// external solver" interface pattern the intra-group TSP strategies use
// (spec §9 design note).
type CrossingOracle interface {
	CheckCrossing(ctx context.Context, from, to geometry.Point) (CrossingStatus, error)
	Method() string
}

// GeometryOracle answers crossing queries from the in-memory R-tree index
// (spec §4.2/§4.3 default mode). It never returns StatusUnknown: the
// index is exact.
type GeometryOracle struct {
	Index         *Index
	CheckHighways bool
}

func (o *GeometryOracle) Method() string { return "geometry" }

func (o *GeometryOracle) CheckCrossing(_ context.Context, from, to geometry.Point) (CrossingStatus, error) {
	result := o.Index.Query(from, to, o.CheckHighways)
	if result.Any() {
		return StatusCrosses, nil
	}
	return StatusClear, nil
}
