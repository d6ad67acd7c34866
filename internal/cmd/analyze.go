package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lastmile-route/routeplanner/internal/analyzer"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the pre-flight distribution analyzer over an order file",
	Long: `Reads the orders from a plan input file and prints the distribution
analysis (spread, density, convex hull) along with suggested clustering and
sequencing parameters (spec §4.8).`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("input", "", "Input JSON file (same shape as 'plan')")
	_ = analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	path, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	var in planInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	points := make([]geometry.Point, len(in.Orders))
	for i, o := range in.Orders {
		points[i] = geometry.Point{Lat: o.Lat, Lon: o.Lon}
	}

	report := analyzer.Analyze(points)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
