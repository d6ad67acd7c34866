package smart

import (
	"testing"

	"github.com/lastmile-route/routeplanner/internal/cluster"
	"github.com/lastmile-route/routeplanner/internal/geometry"
)

func gridPoints(n int, spacing float64) []geometry.Point {
	points := make([]geometry.Point, n)
	for i := 0; i < n; i++ {
		points[i] = geometry.Point{Lat: float64(i%5) * spacing, Lon: float64(i/5) * spacing}
	}
	return points
}

func TestRunKAdaptive_EnforcesMaxGroupSize(t *testing.T) {
	points := gridPoints(40, 0.001)
	result := RunKAdaptive(points, 10, 1.0, 42, 5, cluster.KMeansLabels)

	total := 0
	for _, idx := range result.Groups {
		if len(idx) > 10 {
			t.Errorf("group exceeds max_group_size 10: has %d", len(idx))
		}
		total += len(idx)
	}
	if total != len(points) {
		t.Errorf("expected all %d points grouped, got %d", len(points), total)
	}
}

func TestRunKAdaptive_EmptyInput(t *testing.T) {
	result := RunKAdaptive(nil, 10, 1.0, 42, 5, cluster.KMeansLabels)
	if len(result.Groups) != 0 {
		t.Errorf("expected no groups for empty input, got %d", len(result.Groups))
	}
}

func TestEnforceMaxSize_SplitsOversizedGroup(t *testing.T) {
	points := gridPoints(20, 0.001)
	groups := map[int][]int{0: indicesRange(20)}

	result := enforceMaxSize(points, groups, 5, 42, 5, cluster.KMeansLabels)

	total := 0
	for _, idx := range result {
		if len(idx) > 5 {
			t.Errorf("expected subdivided group <= 5, got %d", len(idx))
		}
		total += len(idx)
	}
	if total != 20 {
		t.Errorf("expected all 20 points preserved after subdivision, got %d", total)
	}
}

func TestEnforceMaxSize_LeavesSmallGroupsUntouched(t *testing.T) {
	groups := map[int][]int{0: {0, 1, 2}}
	result := enforceMaxSize(nil, groups, 5, 42, 5, cluster.KMeansLabels)
	if len(result[0]) != 3 {
		t.Errorf("expected untouched group of 3, got %d", len(result[0]))
	}
}

func indicesRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
