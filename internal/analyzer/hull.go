package analyzer

import (
	"sort"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// convexHull computes the convex hull of points via Andrew's monotone
// chain (sort by x then y, build lower and upper chains). No convex-hull
// library appears anywhere in the retrieval pack (gonum covers linear
// algebra and stats, not computational geometry of this kind), so this
// is a direct stdlib port of the same contract
// original_source/app.py gets from scipy.spatial.ConvexHull: hull
// vertices plus the polygon's area.
func convexHull(points []geometry.Point) []geometry.Point {
	n := len(points)
	if n < 3 {
		return append([]geometry.Point{}, points...)
	}

	sorted := append([]geometry.Point{}, points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lon != sorted[j].Lon {
			return sorted[i].Lon < sorted[j].Lon
		}
		return sorted[i].Lat < sorted[j].Lat
	})

	cross := func(o, a, b geometry.Point) float64 {
		return (a.Lon-o.Lon)*(b.Lat-o.Lat) - (a.Lat-o.Lat)*(b.Lon-o.Lon)
	}

	lower := make([]geometry.Point, 0, n)
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]geometry.Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return hull
}

// hullAreaDegrees computes the shoelace-formula area of a (convex)
// polygon in (lon, lat) degree-space.
func hullAreaDegrees(hull []geometry.Point) float64 {
	n := len(hull)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += hull[i].Lon*hull[j].Lat - hull[j].Lon*hull[i].Lat
	}
	area := sum / 2
	if area < 0 {
		area = -area
	}
	return area
}
