// Package planner wires the geometry, obstacle, cost, clustering,
// sequencing, smart-planning, and analysis stages into the single
// entrypoint described by spec §2's data flow: orders in, one ordered
// PlannedStop sequence out.
package planner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lastmile-route/routeplanner/internal/analyzer"
	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/obstacle"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// Options holds the process-wide collaborators a Planner needs beyond
// what travels in each PlanRequest: the obstacle index singleton, an
// optional API oracle, and a logger, mirroring the teacher's
// Generator(ds, ..., logger) constructor shape.
type Options struct {
	Index   *obstacle.Index
	APIOracle obstacle.CrossingOracle
	Logger  *slog.Logger
}

// Planner is the engine's single entrypoint.
type Planner struct {
	index     *obstacle.Index
	apiOracle obstacle.CrossingOracle
	logger    *slog.Logger
}

// New constructs a Planner. A nil Logger falls back to slog.Default(),
// matching the teacher's "logger or default" convention.
func New(opts Options) *Planner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{index: opts.Index, apiOracle: opts.APIOracle, logger: logger}
}

// Plan executes one full planning pass (spec §2, §6). It never runs two
// stages concurrently for the same request — concurrency at the engine
// level means many Plan calls in flight at once (spec §5), not
// intra-request parallelism.
func (p *Planner) Plan(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error) {
	full := types.DefaultPlanRequest()
	overlay(&full, req)

	if err := full.Validate(); err != nil {
		return nil, err
	}

	planID := uuid.NewString()
	log := p.logger.With("plan_id", planID, "orders", len(full.Orders))
	log.Info("planning started")

	orders := full.Orders
	if len(orders) > full.MaxOrdersCap {
		log.Warn("order count exceeds cap, truncating", "cap", full.MaxOrdersCap)
		orders = orders[:full.MaxOrdersCap]
	}

	points := make([]geometry.Point, len(orders))
	for i, o := range orders {
		points[i] = geometry.Point{Lat: o.Lat, Lon: o.Lon}
	}

	start := geometry.Point{Lat: full.Start.Lat, Lon: full.Start.Lon}
	oracle := p.resolveOracle(full)
	costModel := cost.Model{
		Oracle:       oracle,
		Metric:       string(full.Clustering.Metric),
		GroupPenalty: full.GroupPenalty,
		InnerPenalty: full.InnerPenalty,
	}

	// EndpointFarthest hands whichever order sits farthest from start to
	// the final group's intra-group sequencer as a fixed end (spec §6
	// "farthest"). Only the "ortools" inner strategy uses that end; with
	// any other strategy the route finishes wherever its heuristic lands,
	// and no stop is moved to the tail afterwards.
	var endAnchor *geometry.Point
	if full.Endpoint == types.EndpointFarthest {
		anchor := farthestPoint(start, points)
		endAnchor = &anchor
	}

	var (
		orderedStops []types.PlannedStop
		crossings    []types.Crossing
		groupCount   int
		err          error
	)

	if full.UseSmart {
		// The smart pipeline's own linkage modes (spec §4.7) already
		// shape how each group's tail connects onward; EndpointFarthest's
		// single fixed end-anchor is applied to the classic pipeline only.
		orderedStops, crossings, groupCount, err = p.planSmart(ctx, full, start, points, orders, costModel, oracle)
	} else {
		orderedStops, crossings, groupCount, err = p.planClassic(ctx, full, start, points, orders, costModel, oracle, endAnchor)
	}
	if err != nil {
		return nil, err
	}

	if full.Endpoint == types.EndpointManual {
		endPoint := geometry.Point{Lat: full.ManualEnd.Lat, Lon: full.ManualEnd.Lon}
		endSeq := len(orderedStops) + 1
		orderedStops = append(orderedStops, types.PlannedStop{
			GlobalSeq:  endSeq,
			GroupLabel: types.EndpointGroupLabel,
			IntraSeq:   types.FormatIntraSeq(types.EndpointGroupLabel, 1),
			TrackingID: types.EndpointTrackingID,
			Lat:        endPoint.Lat,
			Lon:        endPoint.Lon,
		})
		if oracle != nil && len(orderedStops) > 1 {
			prev := orderedStops[len(orderedStops)-2]
			crossings = append(crossings, cost.ReportCrossing(ctx, oracle, prev.TrackingID, types.EndpointTrackingID,
				geometry.Point{Lat: prev.Lat, Lon: prev.Lon}, endPoint))
		}
	}

	verificationMethod := "none"
	if oracle != nil {
		verificationMethod = oracle.Method()
	}

	log.Info("planning finished", "groups", groupCount, "stops", len(orderedStops))

	return &types.PlanResponse{
		Stops:              orderedStops,
		TotalOrders:        len(orders),
		TotalGroups:        groupCount,
		Crossings:          crossings,
		VerificationMethod: verificationMethod,
	}, nil
}

// farthestPoint returns whichever point in points has the greatest
// straight-line distance from start.
func farthestPoint(start geometry.Point, points []geometry.Point) geometry.Point {
	best := start
	bestDist := -1.0
	for _, p := range points {
		d := geometry.PlanarDistance(start, p)
		if d > bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// resolveOracle picks the crossing oracle per VerificationMode (spec
// §4.3, §6).
func (p *Planner) resolveOracle(req types.PlanRequest) obstacle.CrossingOracle {
	switch req.Verification {
	case types.VerificationGeometry:
		return &obstacle.GeometryOracle{Index: p.index, CheckHighways: req.CheckHighways}
	case types.VerificationAPI:
		return p.apiOracle
	default:
		return nil
	}
}

// overlay copies every explicitly-set field of req onto base, leaving
// base's defaults in place for zero-valued fields req didn't set. This
// mirrors spec §9's "dynamic-typed configs" note: callers only specify
// what they care about.
func overlay(base *types.PlanRequest, req types.PlanRequest) {
	base.Start = req.Start
	base.Orders = req.Orders
	if req.Endpoint != "" {
		base.Endpoint = req.Endpoint
	}
	base.ManualEnd = req.ManualEnd
	if req.MaxOrdersCap > 0 {
		base.MaxOrdersCap = req.MaxOrdersCap
	}
	if req.Clustering.RadiusKM > 0 {
		base.Clustering.RadiusKM = req.Clustering.RadiusKM
	}
	if req.Clustering.MinSamples > 0 {
		base.Clustering.MinSamples = req.Clustering.MinSamples
	}
	if req.Clustering.MaxGroupSize > 0 {
		base.Clustering.MaxGroupSize = req.Clustering.MaxGroupSize
	}
	if req.Clustering.Metric != "" {
		base.Clustering.Metric = req.Clustering.Metric
	}
	if req.Clustering.RandomState != 0 {
		base.Clustering.RandomState = req.Clustering.RandomState
	}
	if req.Clustering.NInit > 0 {
		base.Clustering.NInit = req.Clustering.NInit
	}
	base.UseSmart = req.UseSmart
	base.Smart.StrictGroupOrder = req.Smart.StrictGroupOrder
	base.Smart.DirectionalConstraint = req.Smart.DirectionalConstraint
	if req.Smart.NextGroupLinkage != "" {
		base.Smart.NextGroupLinkage = req.Smart.NextGroupLinkage
	}
	if req.Smart.LinkageWeight > 0 {
		base.Smart.LinkageWeight = req.Smart.LinkageWeight
	}
	if req.GroupOrder != "" {
		base.GroupOrder = req.GroupOrder
	}
	if req.InnerOrder != "" {
		base.InnerOrder = req.InnerOrder
	}
	if req.Verification != "" {
		base.Verification = req.Verification
	}
	base.CheckHighways = req.CheckHighways
	if req.GroupPenalty > 0 {
		base.GroupPenalty = req.GroupPenalty
	}
	if req.InnerPenalty > 0 {
		base.InnerPenalty = req.InnerPenalty
	}
}

// Analyze runs the distribution analyzer standalone (spec §4.8), for
// callers that want advisory parameters before committing to a full
// Plan call.
func Analyze(orders []types.Order) analyzer.Report {
	points := make([]geometry.Point, len(orders))
	for i, o := range orders {
		points[i] = geometry.Point{Lat: o.Lat, Lon: o.Lon}
	}
	return analyzer.Analyze(points)
}

