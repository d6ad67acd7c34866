package obstacle

import (
	"fmt"
	"sync"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// Polyline is one resolved obstacle way: an open sequence of >= 2 points,
// classified as river or highway at load time (spec §4.2).
type Polyline struct {
	Line orb.LineString
	Kind Kind
}

// Kind distinguishes the two obstacle categories this index tracks.
type Kind int

const (
	KindRiver Kind = iota
	KindHighway
)

// Index answers "does segment (A,B) cross any river? any highway?" by
// envelope-testing against an R-tree of way bounding boxes before running
// exact segment-polyline intersection on the resulting candidate set (spec
// §4.2). It is built once and never mutated afterward.
type Index struct {
	tree  rtree.RTreeG[*Polyline]
	count int
}

// CrossingResult reports which obstacle categories a query segment
// crosses (spec §4.2, §6).
type CrossingResult struct {
	CrossesRiver   bool
	CrossesHighway bool
}

// Any reports whether the segment crossed any checked category.
func (r CrossingResult) Any() bool {
	return r.CrossesRiver || r.CrossesHighway
}

// NewIndex loads the river and highway obstacle documents from disk and
// builds the R-tree over their bounding boxes. A missing or unreadable
// file degrades that category to empty rather than failing the whole
// index (spec §7 DataUnavailable).
func NewIndex(riversPath, highwaysPath string) (*Index, []error) {
	idx := &Index{}
	var warnings []error

	rivers, err := decodeDocument(riversPath, isRiverWay)
	if err != nil {
		warnings = append(warnings, err)
	}
	for _, line := range rivers {
		idx.insert(line, KindRiver)
	}

	highways, err := decodeDocument(highwaysPath, isHighwayWay)
	if err != nil {
		warnings = append(warnings, err)
	}
	for _, line := range highways {
		idx.insert(line, KindHighway)
	}

	return idx, warnings
}

func (idx *Index) insert(line orb.LineString, kind Kind) {
	bound := line.Bound()
	min := [2]float64{bound.Min[0], bound.Min[1]}
	max := [2]float64{bound.Max[0], bound.Max[1]}
	idx.tree.Insert(min, max, &Polyline{Line: line, Kind: kind})
	idx.count++
}

// Count returns the total number of indexed ways, for index-fidelity
// assertions (spec §8).
func (idx *Index) Count() int {
	if idx == nil {
		return 0
	}
	return idx.count
}

// Query reports whether the open segment (from, to) crosses any indexed
// river or highway polyline. checkHighways gates the highway check (spec
// §4.3: "highways are checked only if the check_highways flag is set");
// rivers are always checked.
func (idx *Index) Query(from, to geometry.Point, checkHighways bool) CrossingResult {
	var result CrossingResult
	if idx == nil {
		return result
	}

	seg := orb.LineString{from.Orb(), to.Orb()}
	bound := seg.Bound()
	min := [2]float64{bound.Min[0], bound.Min[1]}
	max := [2]float64{bound.Max[0], bound.Max[1]}

	idx.tree.Search(min, max, func(_, _ [2]float64, candidate *Polyline) bool {
		if candidate.Kind == KindHighway && !checkHighways {
			return true
		}
		if candidate.Kind == KindRiver && result.CrossesRiver {
			return true
		}
		if candidate.Kind == KindHighway && result.CrossesHighway {
			return true
		}
		if segmentCrossesLineString(from.Orb(), to.Orb(), candidate.Line) {
			switch candidate.Kind {
			case KindRiver:
				result.CrossesRiver = true
			case KindHighway:
				result.CrossesHighway = true
			}
		}
		return true
	})
	return result
}

// segmentCrossesLineString runs an exact segment intersection test against
// every edge of candidate, stopping at the first hit.
func segmentCrossesLineString(a, b orb.Point, line orb.LineString) bool {
	for i := 0; i+1 < len(line); i++ {
		if segmentsIntersect(a, b, line[i], line[i+1]) {
			return true
		}
	}
	return false
}

// segmentsIntersect is the standard orientation-based exact segment
// intersection test (proper crossing and collinear-overlap cases).
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func direction(a, b, c orb.Point) float64 {
	return (c[0]-a[0])*(b[1]-a[1]) - (b[0]-a[0])*(c[1]-a[1])
}

func onSegment(a, b, p orb.Point) bool {
	return minF(a[0], b[0]) <= p[0] && p[0] <= maxF(a[0], b[0]) &&
		minF(a[1], b[1]) <= p[1] && p[1] <= maxF(a[1], b[1])
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var (
	singleton     *Index
	singletonOnce sync.Once
	singletonErr  error
)

// Load is the process-wide singleton accessor (spec §9 "Singleton
// ObstacleIndex"): the first caller builds the index, guarded by
// sync.Once; every subsequent call (even concurrent ones) reuses it
// lock-free.
func Load(riversPath, highwaysPath string) (*Index, error) {
	singletonOnce.Do(func() {
		idx, warnings := NewIndex(riversPath, highwaysPath)
		singleton = idx
		if len(warnings) > 0 {
			singletonErr = fmt.Errorf("obstacle index degraded: %v", warnings)
		}
	})
	return singleton, singletonErr
}
