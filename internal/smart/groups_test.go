package smart

import (
	"context"
	"testing"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
)

func plainModel() cost.Model {
	return cost.Model{Metric: "euclidean", GroupPenalty: 2.0, InnerPenalty: 1.5}
}

func sampleGroupCentroids() []GroupCentroid {
	return []GroupCentroid{
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
		if seen[idx] {
			t.Fatalf("index %d repeated in order %v", idx, order)
		}
		seen[idx] = true
	}
}

func TestOrderGroups_Strict_SortsByDistance(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := sampleGroupCentroids()
	order := OrderGroups(context.Background(), true, start, centroids, plainModel())
	assertPermutation(t, order, len(centroids))
	if order[0] != 0 || order[len(order)-1] != 1 {
		t.Errorf("expected strict order nearest-to-farthest [0,2,1], got %v", order)
	}
}

func TestOrderGroups_Optimized_ReturnsPermutation(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	centroids := sampleGroupCentroids()
	order := OrderGroups(context.Background(), false, start, centroids, plainModel())
	assertPermutation(t, order, len(centroids))
}
