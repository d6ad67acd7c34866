package types

import "fmt"

// Metric selects the distance function used by the density-clustering
// phase (spec §4.1, §4.4).
type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricHaversine Metric = "haversine"
	MetricManhattan Metric = "manhattan"
)

// GroupOrderStrategy selects the C5 group-sequencing heuristic.
type GroupOrderStrategy string

const (
	GroupOrderGreedy GroupOrderStrategy = "greedy"
	GroupOrderSweep  GroupOrderStrategy = "sweep"
	GroupOrder2Opt   GroupOrderStrategy = "2opt"
)

// InnerOrderStrategy selects the C6 intra-group sequencing heuristic.
type InnerOrderStrategy string

const (
	InnerOrderNearest InnerOrderStrategy = "nearest"
	InnerOrderOrTools InnerOrderStrategy = "ortools"
	InnerOrder2Opt    InnerOrderStrategy = "2opt-inner"
	InnerOrderLKH     InnerOrderStrategy = "lkh"
)

// VerificationMode selects how segments are checked for obstacle crossings.
type VerificationMode string

const (
	VerificationNone     VerificationMode = "none"
	VerificationGeometry VerificationMode = "geometry"
	VerificationAPI      VerificationMode = "api"
)

// EndpointMode selects how the tail of the route is determined (spec §6).
type EndpointMode string

const (
	EndpointLastOrder EndpointMode = "last_order"
	EndpointManual    EndpointMode = "manual"
	EndpointFarthest  EndpointMode = "farthest"
)

// NextGroupLinkage selects C7's inter-group linkage mode (spec §4.7).
type NextGroupLinkage string

const (
	LinkageNone            NextGroupLinkage = "none"
	LinkageWeighted        NextGroupLinkage = "weighted"
	LinkageVirtualEndpoint NextGroupLinkage = "virtual_endpoint"
)

// Point is a (lat, lon) tuple in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClusteringSettings holds C4/C7 clustering parameters (spec §6).
type ClusteringSettings struct {
	RadiusKM      float64
	MinSamples    int
	MaxGroupSize  int
	Metric        Metric
	RandomState   int64
	NInit         int
}

// DefaultClusteringSettings matches original_source/app.py's DBSCAN+K-means
// defaults (cluster_radius, min_samples, n_init) and smart_route_planner.py's
// max_group_size default of 15 is overridden here by the more commonly used
// 20 from app.py's own default group size; both are valid, documented in
// DESIGN.md.
func DefaultClusteringSettings() ClusteringSettings {
	return ClusteringSettings{
		RadiusKM:     1.0,
		MinSamples:   3,
		MaxGroupSize: 20,
		Metric:       MetricEuclidean,
		RandomState:  42,
		NInit:        10,
	}
}

// SmartSettings holds the "smart" planner extras (spec §4.7, §6).
type SmartSettings struct {
	StrictGroupOrder      bool
	DirectionalConstraint bool
	NextGroupLinkage      NextGroupLinkage
	LinkageWeight         float64
}

// PlanRequest is the abstract planning request (spec §6).
type PlanRequest struct {
	Start      Point
	Orders     []Order
	Endpoint   EndpointMode
	ManualEnd  Point // used when Endpoint == EndpointManual

	MaxOrdersCap int

	Clustering ClusteringSettings
	UseSmart   bool
	Smart      SmartSettings

	GroupOrder GroupOrderStrategy
	InnerOrder InnerOrderStrategy

	Verification   VerificationMode
	CheckHighways  bool
	GroupPenalty   float64
	InnerPenalty   float64
}

// DefaultMaxOrdersCap is the hard truncation default (spec §6).
const DefaultMaxOrdersCap = 5000

// DefaultPlanRequest fills in every optional knob's default (spec §6, §9
// "dynamic-typed configs"). Callers overlay their explicit choices onto
// this before validating.
func DefaultPlanRequest() PlanRequest {
	return PlanRequest{
		Endpoint:     EndpointLastOrder,
		MaxOrdersCap: DefaultMaxOrdersCap,
		Clustering:   DefaultClusteringSettings(),
		GroupOrder:   GroupOrderGreedy,
		InnerOrder:   InnerOrderNearest,
		Verification: VerificationNone,
		GroupPenalty: 2.0,
		InnerPenalty: 1.5,
		Smart: SmartSettings{
			NextGroupLinkage: LinkageNone,
			LinkageWeight:    0.5,
		},
	}
}

// Validate enforces the invariants spec §3 and §7 require before planning
// starts: InputValidation errors reject the request wholesale.
func (r PlanRequest) Validate() error {
	if len(r.Orders) == 0 {
		return fmt.Errorf("%w: at least one order is required", ErrInputValidation)
	}
	if r.Start == (Point{}) {
		return fmt.Errorf("%w: start point is required", ErrInputValidation)
	}
	if r.Start.Lat < -90 || r.Start.Lat > 90 || r.Start.Lon < -180 || r.Start.Lon > 180 {
		return fmt.Errorf("%w: start point out of range", ErrInputValidation)
	}
	seen := make(map[string]struct{}, len(r.Orders))
	for _, o := range r.Orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if _, dup := seen[o.TrackingID]; dup {
			return fmt.Errorf("%w: duplicate tracking id %s", ErrInputValidation, o.TrackingID)
		}
		seen[o.TrackingID] = struct{}{}
	}
	if r.Clustering.MaxGroupSize <= 0 {
		return fmt.Errorf("%w: max_group_size must be positive", ErrInputValidation)
	}
	if r.GroupPenalty < 1 || r.InnerPenalty < 1 {
		return fmt.Errorf("%w: penalties must be >= 1", ErrInputValidation)
	}
	if r.Endpoint == EndpointManual && r.ManualEnd == (Point{}) {
		return fmt.Errorf("%w: manual endpoint mode requires manual_end", ErrInputValidation)
	}
	return nil
}
