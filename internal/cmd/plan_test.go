package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lastmile-route/routeplanner/internal/types"
)

func TestPlanOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"orders.json", "orders.plan.json"},
		{"/data/batch/day1.json", "day1.plan.json"},
		{"no-extension", "no-extension.plan.json"},
	}
	for _, tc := range tests {
		if got := planOutputName(tc.input); got != tc.want {
			t.Errorf("planOutputName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPlanInput_ToRequest(t *testing.T) {
	in := planInput{
		Start:  types.Point{Lat: 1, Lon: 2},
		Orders: []types.Order{{TrackingID: "A", Lat: 1, Lon: 2}},
		Endpoint: "manual",
		ManualEnd: &types.Point{Lat: 3, Lon: 4},
		UseSmart: true,
		MaxGroupSize: 15,
		RadiusKM:     1.5,
		Metric:       "haversine",
	}
	req := in.toRequest()

	if req.Endpoint != types.EndpointManual {
		t.Errorf("expected endpoint manual, got %s", req.Endpoint)
	}
	if req.ManualEnd != (types.Point{Lat: 3, Lon: 4}) {
		t.Errorf("expected manual end carried over, got %+v", req.ManualEnd)
	}
	if !req.UseSmart {
		t.Error("expected use_smart true")
	}
	if req.Clustering.MaxGroupSize != 15 || req.Clustering.Metric != types.MetricHaversine {
		t.Errorf("expected clustering settings carried over, got %+v", req.Clustering)
	}
}

func TestPlanInput_ToRequest_NoManualEndLeavesZeroValue(t *testing.T) {
	in := planInput{Orders: []types.Order{{TrackingID: "A", Lat: 1, Lon: 2}}}
	req := in.toRequest()
	if req.ManualEnd != (types.Point{}) {
		t.Errorf("expected zero-value manual end when unset, got %+v", req.ManualEnd)
	}
}

func TestLoadPlanRequest_AppliesVerificationModeFallback(t *testing.T) {
	in := planInput{Orders: []types.Order{{TrackingID: "A", Lat: 1, Lon: 2}}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	req, err := loadPlanRequest(path, "geometry", "", "highways.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Verification != types.VerificationGeometry {
		t.Errorf("expected verification fallback to geometry, got %s", req.Verification)
	}
	if !req.CheckHighways {
		t.Error("expected check_highways to default true when a highways path is configured")
	}
}

func TestLoadPlanRequest_MissingFile(t *testing.T) {
	_, err := loadPlanRequest(filepath.Join(t.TempDir(), "missing.json"), "", "", "")
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestLoadPlanRequest_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := loadPlanRequest(path, "", "", "")
	if err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestWritePlanResponse_RoundTrips(t *testing.T) {
	resp := &types.PlanResponse{TotalOrders: 3, TotalGroups: 1, VerificationMethod: "none"}
	path := filepath.Join(t.TempDir(), "out.json")

	if err := writePlanResponse(path, resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written output: %v", err)
	}
	var got types.PlanResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to unmarshal written output: %v", err)
	}
	if got.TotalOrders != 3 || got.TotalGroups != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
