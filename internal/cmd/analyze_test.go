package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRunAnalyze_WritesValidJSONReport(t *testing.T) {
	fixture := `{"orders":[{"tracking_id":"A","lat":0.01,"lon":0.01},{"tracking_id":"B","lat":0.02,"lon":0.03}]}`
	path := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := analyzeCmd.Flags().Set("input", path); err != nil {
		t.Fatalf("failed to set input flag: %v", err)
	}

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := runAnalyze(analyzeCmd, nil)

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)

	if runErr != nil {
		t.Fatalf("unexpected error: %v", runErr)
	}

	var report map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(out), &report); err != nil {
		t.Fatalf("expected valid JSON report, got error %v; output: %s", err, out)
	}
	if total, ok := report["TotalOrders"].(float64); !ok || total != 2 {
		t.Errorf("expected TotalOrders 2 in report, got %v", report["TotalOrders"])
	}
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	if err := analyzeCmd.Flags().Set("input", filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("failed to set input flag: %v", err)
	}
	if err := runAnalyze(analyzeCmd, nil); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
