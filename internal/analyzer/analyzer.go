// Package analyzer implements the pre-flight distribution analyzer (spec
// §4.8): PCA-derived shape, convex-hull density, and an advisory
// suggestion table for clustering/sequencing parameters.
package analyzer

import (
	"math"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Orientation describes the dominant spread direction (spec §4.8).
type Orientation string

const (
	OrientationEastWest   Orientation = "east-west"
	OrientationNorthSouth Orientation = "north-south"
)

// Report is the full distribution analysis (spec §4.8, §6).
type Report struct {
	TotalOrders  int
	AspectRatio  float64
	Orientation  Orientation
	PrincipalAxisAngleDeg float64
	AxisStart    geometry.Point
	AxisEnd      geometry.Point
	HullVertices []geometry.Point
	HullAreaKM2  float64
	DensityPerKM2 float64
	MaxRangeKM   float64
	LikelyCrossesRiver bool
	Suggestions  Suggestions
	Reasoning    []string
}

// Suggestions is the advisory parameter bundle (spec §4.8, ported from
// original_source/app.py's suggestions dict).
type Suggestions struct {
	GroupOrderMethod types.GroupOrderStrategy
	MaxGroupSize     int
	ClusterRadiusKM  float64
	Verification     types.VerificationMode
	GroupPenalty     float64
	InnerPenalty     float64
	MinSamples       int
	Metric           types.Metric
	RandomState      int64
	NInit            int
	CheckHighways    bool
}

// Analyze runs the full C8 pipeline over a plan's order coordinates.
func Analyze(points []geometry.Point) Report {
	n := len(points)
	report := Report{TotalOrders: n}
	if n == 0 {
		return report
	}

	aspectRatio, angleDeg, axisStart, axisEnd := principalComponents(points)
	report.AspectRatio = aspectRatio
	report.PrincipalAxisAngleDeg = angleDeg
	report.AxisStart = axisStart
	report.AxisEnd = axisEnd
	if (angleDeg >= -45 && angleDeg <= 45) || angleDeg > 135 || angleDeg < -135 {
		report.Orientation = OrientationEastWest
	} else {
		report.Orientation = OrientationNorthSouth
	}

	hull := convexHull(points)
	report.HullVertices = hull

	meanLat := meanLat(points)
	hullAreaDeg := hullAreaDegrees(hull)
	lonScale := geometry.LonKMScale(meanLat)
	hullAreaKM := hullAreaDeg * geometry.KMPerDegree * lonScale
	report.HullAreaKM2 = hullAreaKM

	density := 0.0
	if hullAreaKM > 0 {
		density = float64(n) / hullAreaKM
	}
	report.DensityPerKM2 = density

	minLat, maxLat, minLon, maxLon := bounds(points)
	latRangeKM := (maxLat - minLat) * geometry.KMPerDegree
	lonRangeKM := (maxLon - minLon) * lonScale
	maxRange := latRangeKM
	if lonRangeKM > maxRange {
		maxRange = lonRangeKM
	}
	report.MaxRangeKM = maxRange
	report.LikelyCrossesRiver = maxRange > 5.0

	report.Suggestions, report.Reasoning = buildSuggestions(n, aspectRatio, density, maxRange, report.LikelyCrossesRiver)
	return report
}

// principalComponents runs PCA via gonum's stat.PC (matching
// original_source/app.py's sklearn.decomposition.PCA one-for-one:
// explained-variance ratio of the two components becomes the aspect
// ratio, the leading component's direction becomes the principal axis
// angle).
func principalComponents(points []geometry.Point) (aspectRatio, angleDeg float64, axisStart, axisEnd geometry.Point) {
	n := len(points)
	data := mat.NewDense(n, 2, nil)
	for i, p := range points {
		data.Set(i, 0, p.Lat)
		data.Set(i, 1, p.Lon)
	}

	var pc stat.PC
	ok := pc.PrincipalComponents(data, nil)
	if !ok {
		return 1.0, 0, geometry.Point{}, geometry.Point{}
	}

	var vars mat.Dense
	pc.VarsTo(&vars)
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	variance0 := vars.At(0, 0)
	variance1 := 0.0
	if vars.RawMatrix().Rows > 1 {
		variance1 = vars.At(1, 0)
	}
	if variance1 > 0 {
		aspectRatio = math.Sqrt(variance0 / variance1)
	} else {
		aspectRatio = 1.0
	}

	compLat := vectors.At(0, 0)
	compLon := vectors.At(1, 0)
	angleDeg = math.Atan2(compLat, compLon) * 180 / math.Pi

	mean := geometry.Centroid(points)
	axisLength := math.Sqrt(variance0) * 3
	axisStart = geometry.Point{Lat: mean.Lat - compLat*axisLength, Lon: mean.Lon - compLon*axisLength}
	axisEnd = geometry.Point{Lat: mean.Lat + compLat*axisLength, Lon: mean.Lon + compLon*axisLength}
	return
}

func meanLat(points []geometry.Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Lat
	}
	return sum / float64(len(points))
}

func bounds(points []geometry.Point) (minLat, maxLat, minLon, maxLon float64) {
	minLat, maxLat = points[0].Lat, points[0].Lat
	minLon, maxLon = points[0].Lon, points[0].Lon
	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}
	return
}
