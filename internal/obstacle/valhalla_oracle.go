package obstacle

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	valhalla "github.com/angelodlfrtr/valhalla-http-client-go"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// bridgeKeywords and bridgeManeuverType mirror
// original_source/river_detection.py's check_crossing_api heuristic:
// a maneuver instruction mentioning a bridge/crossing/river, or a
// maneuver of Valhalla's bridge type, counts as a river crossing.
var bridgeKeywords = []string{"bridge", "cross", "river"}

const bridgeManeuverType = 8

// ValhallaOracle verifies crossings by asking an external routing engine
// for the realized route and inspecting its maneuvers, rather than
// testing raw geometry (spec §4.3 "API" verification mode). Results are
// cached per segment and calls are rate-limited, per spec §5.
type ValhallaOracle struct {
	client       *valhalla.Client
	cache        sync.Map // map[segmentKey]CrossingStatus
	minCallGap   time.Duration
	mu           sync.Mutex
	lastCallTime time.Time
}

// NewValhallaOracle wraps a configured Valhalla client. minCallGap is the
// per-call sleep spacing API calls (spec §5: "API calls are rate-limited
// by a per-call sleep").
func NewValhallaOracle(endpoint string, minCallGap time.Duration) *ValhallaOracle {
	return &ValhallaOracle{
		client: valhalla.NewClient(&valhalla.ClientConfig{
			Endpoint: endpoint,
		}),
		minCallGap: minCallGap,
	}
}

func (o *ValhallaOracle) Method() string { return "api" }

type segmentKey struct {
	fromLat, fromLon, toLat, toLon int64 // rounded to 1e-5 degree (~1m)
}

func roundedSegmentKey(from, to geometry.Point) segmentKey {
	const scale = 1e5
	return segmentKey{
		fromLat: int64(from.Lat * scale),
		fromLon: int64(from.Lon * scale),
		toLat:   int64(to.Lat * scale),
		toLon:   int64(to.Lon * scale),
	}
}

// CheckCrossing asks Valhalla for the realized driving route between from
// and to, then inspects its maneuvers for bridge/river crossing evidence.
// A cached result for the same (rounded) segment short-circuits the call
// entirely (spec §4.3 "caches per segment").
func (o *ValhallaOracle) CheckCrossing(ctx context.Context, from, to geometry.Point) (CrossingStatus, error) {
	key := roundedSegmentKey(from, to)
	if cached, ok := o.cache.Load(key); ok {
		return cached.(CrossingStatus), nil
	}

	o.throttle()

	input := &valhalla.RouteInput{
		Locations: []*valhalla.RouteInputLocation{
			{Lat: &from.Lat, Lon: &from.Lon},
			{Lat: &to.Lat, Lon: &to.Lon},
		},
		Costing: stringPtr(valhalla.RouteInputCostingAuto),
	}

	output, err := o.client.Route(ctx, input)
	if err != nil {
		return StatusUnknown, fmt.Errorf("%w: %v", types.ErrOracleUnavailable, err)
	}

	status := StatusClear
	for _, leg := range output.Trip.Legs {
		for _, maneuver := range leg.Maneuvers {
			if maneuver.Type == bridgeManeuverType {
				status = StatusCrosses
				break
			}
			instruction := strings.ToLower(maneuver.Instruction)
			for _, kw := range bridgeKeywords {
				if strings.Contains(instruction, kw) {
					status = StatusCrosses
					break
				}
			}
		}
	}

	o.cache.Store(key, status)
	return status, nil
}

// throttle sleeps until at least minCallGap has elapsed since the last
// call, serializing calls across goroutines sharing this oracle.
func (o *ValhallaOracle) throttle() {
	if o.minCallGap <= 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if elapsed := time.Since(o.lastCallTime); elapsed < o.minCallGap {
		time.Sleep(o.minCallGap - elapsed)
	}
	o.lastCallTime = time.Now()
}

func stringPtr(s string) *string { return &s }
