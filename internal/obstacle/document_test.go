package obstacle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeDocument(t *testing.T, elements []rawElement) string {
	t.Helper()
	doc := rawDocument{Elements: elements}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDecodeDocument_ResolvesWayNodes(t *testing.T) {
	path := writeDocument(t, []rawElement{
		{Type: "node", ID: 1, Lat: 0, Lon: 0},
		{Type: "node", ID: 2, Lat: 0, Lon: 1},
		{Type: "node", ID: 3, Lat: 1, Lon: 1},
		{Type: "way", ID: 100, Nodes: []int64{1, 2, 3}, Tags: map[string]string{"waterway": "river"}},
	})

	lines, err := decodeDocument(path, isRiverWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 resolved way, got %d", len(lines))
	}
	if len(lines[0]) != 3 {
		t.Fatalf("expected 3 resolved points, got %d", len(lines[0]))
	}
}

func TestDecodeDocument_SkipsNonMatchingWays(t *testing.T) {
	path := writeDocument(t, []rawElement{
		{Type: "node", ID: 1, Lat: 0, Lon: 0},
		{Type: "node", ID: 2, Lat: 0, Lon: 1},
		{Type: "way", ID: 100, Nodes: []int64{1, 2}, Tags: map[string]string{"highway": "residential"}},
	})

	lines, err := decodeDocument(path, isHighwayWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected residential highway to be filtered out, got %d lines", len(lines))
	}
}

func TestDecodeDocument_DropsWaysWithFewerThanTwoResolvedPoints(t *testing.T) {
	path := writeDocument(t, []rawElement{
		{Type: "node", ID: 1, Lat: 0, Lon: 0},
		{Type: "way", ID: 100, Nodes: []int64{1, 999}, Tags: map[string]string{"waterway": "stream"}},
	})

	lines, err := decodeDocument(path, isRiverWay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected way with only 1 resolved point to be dropped, got %d lines", len(lines))
	}
}

func TestDecodeDocument_MissingFileIsDataUnavailable(t *testing.T) {
	_, err := decodeDocument(filepath.Join(t.TempDir(), "missing.json"), isRiverWay)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestIsRiverWay_AndIsHighwayWay(t *testing.T) {
	if !isRiverWay(map[string]string{"waterway": "canal"}) {
		t.Error("expected canal to match river tags")
	}
	if isRiverWay(map[string]string{"waterway": "ditch"}) {
		t.Error("did not expect ditch to match river tags")
	}
	if !isHighwayWay(map[string]string{"highway": "motorway_link"}) {
		t.Error("expected motorway_link to match highway tags")
	}
	if isHighwayWay(map[string]string{"highway": "residential"}) {
		t.Error("did not expect residential to match highway tags")
	}
}
