package analyzer

import (
	"testing"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(nil)
	if report.TotalOrders != 0 {
		t.Errorf("expected 0 total orders, got %d", report.TotalOrders)
	}
}

func TestAnalyze_LinearEastWestDistribution(t *testing.T) {
	var points []geometry.Point
	for i := 0; i < 20; i++ {
		points = append(points, geometry.Point{Lat: 0, Lon: float64(i) * 0.01})
	}

	report := Analyze(points)
	if report.TotalOrders != 20 {
		t.Errorf("expected 20 total orders, got %d", report.TotalOrders)
	}
	if report.Orientation != OrientationEastWest {
		t.Errorf("expected east-west orientation for a purely longitudinal spread, got %s", report.Orientation)
	}
	if len(report.HullVertices) == 0 {
		t.Error("expected non-empty hull vertices")
	}
}

func TestAnalyze_WideSpreadFlagsLikelyRiverCrossing(t *testing.T) {
	points := []geometry.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1}, // ~111km at the equator, well over the 5km threshold
		{Lat: 1, Lon: 0},
	}
	report := Analyze(points)
	if !report.LikelyCrossesRiver {
		t.Error("expected a wide spread to flag LikelyCrossesRiver")
	}
	if report.Suggestions.Verification != types.VerificationGeometry {
		t.Errorf("expected geometry verification to be suggested, got %s", report.Suggestions.Verification)
	}
}

func TestAnalyze_TightClusterDoesNotFlagRiverCrossing(t *testing.T) {
	points := []geometry.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.001, Lon: 0.001},
		{Lat: 0.0005, Lon: 0.0008},
	}
	report := Analyze(points)
	if report.LikelyCrossesRiver {
		t.Error("did not expect a tight cluster to flag LikelyCrossesRiver")
	}
	if report.Suggestions.Verification != types.VerificationNone {
		t.Errorf("expected no verification suggested, got %s", report.Suggestions.Verification)
	}
}

func TestBuildSuggestions_MaxGroupSizeBuckets(t *testing.T) {
	s, _ := buildSuggestions(40, 1.0, 10, 1.0, false)
	if s.MaxGroupSize != 20 {
		t.Errorf("expected max_group_size 20 for <50 orders, got %d", s.MaxGroupSize)
	}

	s, _ = buildSuggestions(200, 1.0, 10, 1.0, false)
	if s.MaxGroupSize != 40 {
		t.Errorf("expected max_group_size 40 for 150-300 low-density orders, got %d", s.MaxGroupSize)
	}
}

func TestBuildSuggestions_GroupOrderMethodByAspectRatio(t *testing.T) {
	s, _ := buildSuggestions(10, 4.0, 10, 1.0, false)
	if s.GroupOrderMethod != types.GroupOrderGreedy {
		t.Errorf("expected greedy for a highly linear distribution, got %s", s.GroupOrderMethod)
	}

	s, _ = buildSuggestions(10, 2.5, 10, 1.0, false)
	if s.GroupOrderMethod != types.GroupOrderSweep {
		t.Errorf("expected sweep for an elliptical distribution, got %s", s.GroupOrderMethod)
	}

	s, _ = buildSuggestions(10, 1.0, 10, 1.0, false)
	if s.GroupOrderMethod != types.GroupOrder2Opt {
		t.Errorf("expected 2opt for a concentrated distribution, got %s", s.GroupOrderMethod)
	}
}
