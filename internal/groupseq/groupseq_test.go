package groupseq

import (
	"context"
	"testing"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

func plainModel() cost.Model {
	return cost.Model{Metric: "euclidean", GroupPenalty: 2.0, InnerPenalty: 1.5}
}

func sampleCentroids() []Centroid {
	return []Centroid{
		{ClusterID: 0, Point: geometry.Point{Lat: 0, Lon: 1}, OrderCount: 3},
		{ClusterID: 1, Point: geometry.Point{Lat: 0, Lon: 5}, OrderCount: 2},
		{ClusterID: 2, Point: geometry.Point{Lat: 0, Lon: 3}, OrderCount: 4},
	}
}

func assertPermutation(t *testing.T, order []int, n int) {
	t.Helper()
	if len(order) != n {
		t.Fatalf("expected permutation of length %d, got %d", n, len(order))
	}
	seen := make(map[int]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			t.Fatalf("index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			t.Fatalf("index %d repeated in order %v", idx, order)
		}
		seen[idx] = true
	}
}

func TestOrder_Greedy_PicksNearestFirst(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := sampleCentroids()
	order := Order(context.Background(), types.GroupOrderGreedy, start, centroids, plainModel())
	assertPermutation(t, order, len(centroids))
	if order[0] != 0 {
		t.Errorf("expected greedy to start at nearest centroid (index 0), got %d", order[0])
	}
}

func TestOrder_Sweep_ReturnsPermutation(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := sampleCentroids()
	order := Order(context.Background(), types.GroupOrderSweep, start, centroids, plainModel())
	assertPermutation(t, order, len(centroids))
}

func TestOrder_2Opt_ReturnsPermutation(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := []Centroid{
		{ClusterID: 0, Point: geometry.Point{Lat: 0, Lon: 1}, OrderCount: 1},
		{ClusterID: 1, Point: geometry.Point{Lat: 5, Lon: 5}, OrderCount: 1},
		{ClusterID: 2, Point: geometry.Point{Lat: 0, Lon: 2}, OrderCount: 1},
		{ClusterID: 3, Point: geometry.Point{Lat: 5, Lon: 4}, OrderCount: 1},
	}
	order := Order(context.Background(), types.GroupOrder2Opt, start, centroids, plainModel())
	assertPermutation(t, order, len(centroids))
}

func TestSweepOrder_Empty(t *testing.T) {
	order := sweepOrder(geometry.Point{}, nil)
	if order != nil {
		t.Errorf("expected nil order for empty centroids, got %v", order)
	}
}

func TestTwoOptImprove_ShortensCrossedTour(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := []Centroid{
		{ClusterID: 0, Point: geometry.Point{Lat: 0, Lon: 1}},
		{ClusterID: 1, Point: geometry.Point{Lat: 5, Lon: 5}},
		{ClusterID: 2, Point: geometry.Point{Lat: 0, Lon: 2}},
		{ClusterID: 3, Point: geometry.Point{Lat: 5, Lon: 4}},
	}
	model := plainModel()
	crossed := []int{0, 1, 2, 3}

	pathCost := func(order []int) float64 {
		total := 0.0
		current := start
		for _, idx := range order {
			total += model.PlainDistance(current, centroids[idx].Point)
			current = centroids[idx].Point
		}
		return total
	}

	improved := twoOptImprove(start, centroids, model, crossed)
	assertPermutation(t, improved, len(centroids))
	if pathCost(improved) > pathCost(crossed) {
		t.Errorf("2-opt made the tour worse: %f > %f", pathCost(improved), pathCost(crossed))
	}
}
