package cluster

import (
	"testing"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

func gridPoints(nClusters, perCluster int, spacing float64) []geometry.Point {
	var points []geometry.Point
	for c := 0; c < nClusters; c++ {
		base := float64(c) * spacing * 20
		for i := 0; i < perCluster; i++ {
			points = append(points, geometry.Point{
				Lat: base + float64(i%3)*spacing,
				Lon: base + float64(i/3)*spacing,
			})
		}
	}
	return points
}

func TestRun_SeparatesDistinctClusters(t *testing.T) {
	points := gridPoints(3, 6, 0.01)

	result := Run(points, Settings{
		RadiusKM:     2.0,
		MinSamples:   2,
		MaxGroupSize: 20,
		Metric:       types.MetricEuclidean,
		RandomState:  42,
		NInit:        5,
	})

	if len(result.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(result.Clusters))
	}

	seen := make(map[int]bool)
	for _, c := range result.Clusters {
		for _, idx := range c.Indices {
			if seen[idx] {
				t.Fatalf("point %d assigned to multiple clusters", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != len(points) {
		t.Fatalf("expected all %d points assigned, got %d", len(points), len(seen))
	}
}

func TestRun_EnforcesMaxGroupSize(t *testing.T) {
	points := gridPoints(1, 30, 0.001)

	result := Run(points, Settings{
		RadiusKM:     1.0,
		MinSamples:   2,
		MaxGroupSize: 10,
		Metric:       types.MetricEuclidean,
		RandomState:  1,
		NInit:        5,
	})

	for _, c := range result.Clusters {
		if c.Size() > 10 {
			t.Errorf("cluster %d has size %d, exceeds max_group_size 10", c.ID, c.Size())
		}
	}
}

func TestKMeansLabels_Deterministic(t *testing.T) {
	points := gridPoints(2, 5, 0.01)

	labels1 := KMeansLabels(points, 2, 42, 5)
	labels2 := KMeansLabels(points, 2, 42, 5)

	if len(labels1) != len(labels2) {
		t.Fatalf("label length mismatch")
	}
	for i := range labels1 {
		if labels1[i] != labels2[i] {
			t.Fatalf("expected deterministic labels for fixed seed, differ at index %d: %d vs %d", i, labels1[i], labels2[i])
		}
	}
}
