package smart

import (
	"testing"

	"github.com/lastmile-route/routeplanner/internal/geometry"
)

func TestDetermineEntryPoints_ChainsThroughCentroids(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	groups := []GroupData{
		{ClusterID: 0, Points: []geometry.Point{{Lat: 0, Lon: 5}, {Lat: 0, Lon: 1}}},
		{ClusterID: 1, Points: []geometry.Point{{Lat: 0, Lon: 10}, {Lat: 0, Lon: 3}}},
	}

	entries := DetermineEntryPoints(start, groups)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entry points, got %d", len(entries))
	}
	if entries[0].Point != (geometry.Point{Lat: 0, Lon: 1}) {
		t.Errorf("expected first group's entry to be nearest start, got %+v", entries[0].Point)
	}
}

func TestDetermineEntryPoints_SkipsEmptyGroups(t *testing.T) {
	start := geometry.Point{Lat: 0, Lon: 0}
	groups := []GroupData{{ClusterID: 0, Points: nil}}
	entries := DetermineEntryPoints(start, groups)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry slot even for an empty group, got %d", len(entries))
	}
	if entries[0] != (EntryPoint{}) {
		t.Errorf("expected zero-value entry point for an empty group, got %+v", entries[0])
	}
}
