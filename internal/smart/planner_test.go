package smart

import (
	"context"
	"testing"

	"github.com/lastmile-route/routeplanner/internal/cluster"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

func TestPlanner_Plan_CoversAllPointsAcrossClusters(t *testing.T) {
	points := gridPoints(30, 0.001)
	p := &Planner{
		Settings: types.SmartSettings{NextGroupLinkage: types.LinkageNone},
		CostModel: plainModel(),
		KMeans:    cluster.KMeansLabels,
	}

	plans, groups := p.Plan(context.Background(), geometry.Point{Lat: 0, Lon: 0}, points, 10, 1.0, 42, 5, false)

	if len(plans) != len(groups) {
		t.Fatalf("expected one ClusterPlan per group, got %d plans for %d groups", len(plans), len(groups))
	}

	total := 0
	for _, plan := range plans {
		idx, ok := groups[plan.ClusterID]
		if !ok {
			t.Fatalf("plan references unknown cluster id %d", plan.ClusterID)
		}
		if len(plan.LocalOrder) != len(idx) {
			t.Errorf("cluster %d: expected local order length %d, got %d", plan.ClusterID, len(idx), len(plan.LocalOrder))
		}
		total += len(idx)
	}
	if total != len(points) {
		t.Errorf("expected all %d points covered, got %d", len(points), total)
	}
}

func TestPlanner_Plan_StrictGroupOrder(t *testing.T) {
	points := gridPoints(20, 0.001)
	p := &Planner{
		Settings: types.SmartSettings{NextGroupLinkage: types.LinkageWeighted, LinkageWeight: 0.5},
		CostModel: plainModel(),
		KMeans:    cluster.KMeansLabels,
	}

	plans, _ := p.Plan(context.Background(), geometry.Point{Lat: 0, Lon: 0}, points, 10, 1.0, 7, 5, true)
	if len(plans) == 0 {
		t.Fatal("expected at least one cluster plan")
	}
}
