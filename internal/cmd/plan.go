package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/lastmile-route/routeplanner/internal/obstacle"
	"github.com/lastmile-route/routeplanner/internal/planner"
	"github.com/lastmile-route/routeplanner/internal/types"
	"github.com/lastmile-route/routeplanner/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan delivery routes from one or more order files",
	Long: `Reads one or more JSON order files, clusters and sequences each into a
delivery route, and writes the resulting PlannedStop sequence as JSON.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringArray("input", nil, "Input JSON file (repeatable for batch planning)")
	planCmd.Flags().String("output-dir", "./plans", "Output directory for plan JSON results")
	planCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	planCmd.Flags().Bool("progress", true, "Show progress during batch planning")
	planCmd.Flags().String("rivers", "", "Path to the river obstacle document (geometry verification)")
	planCmd.Flags().String("highways", "", "Path to the highway obstacle document (geometry verification)")

	for _, bf := range []struct{ key, flag string }{
		{"plan.output_dir", "output-dir"},
		{"plan.workers", "workers"},
		{"plan.progress", "progress"},
		{"plan.rivers", "rivers"},
		{"plan.highways", "highways"},
	} {
		if err := viper.BindPFlag(bf.key, planCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// planInput is the on-disk JSON shape for one plan request (spec §6);
// it mirrors types.PlanRequest but exposes every optional knob as a
// plain JSON field the overlay-onto-defaults logic in planner.Plan
// already knows how to fill in.
type planInput struct {
	Start     types.Point    `json:"start"`
	Orders    []types.Order  `json:"orders"`
	Endpoint  string         `json:"endpoint,omitempty"`
	ManualEnd *types.Point   `json:"manual_end,omitempty"`
	MaxOrdersCap int         `json:"max_orders_cap,omitempty"`

	UseSmart bool `json:"use_smart,omitempty"`

	MaxGroupSize int     `json:"max_group_size,omitempty"`
	RadiusKM     float64 `json:"radius_km,omitempty"`
	MinSamples   int     `json:"min_samples,omitempty"`
	Metric       string  `json:"metric,omitempty"`
	RandomState  int64   `json:"random_state,omitempty"`
	NInit        int     `json:"n_init,omitempty"`

	GroupOrder string `json:"group_order,omitempty"`
	InnerOrder string `json:"inner_order,omitempty"`

	Verification  string  `json:"verification,omitempty"`
	CheckHighways bool    `json:"check_highways,omitempty"`
	GroupPenalty  float64 `json:"group_penalty,omitempty"`
	InnerPenalty  float64 `json:"inner_penalty,omitempty"`

	Smart struct {
		StrictGroupOrder      bool    `json:"strict_group_order,omitempty"`
		DirectionalConstraint bool    `json:"directional_constraint,omitempty"`
		NextGroupLinkage      string  `json:"next_group_linkage,omitempty"`
		LinkageWeight         float64 `json:"linkage_weight,omitempty"`
	} `json:"smart,omitempty"`
}

func (in planInput) toRequest() types.PlanRequest {
	req := types.PlanRequest{
		Start:         in.Start,
		Orders:        in.Orders,
		Endpoint:      types.EndpointMode(in.Endpoint),
		MaxOrdersCap:  in.MaxOrdersCap,
		UseSmart:      in.UseSmart,
		GroupOrder:    types.GroupOrderStrategy(in.GroupOrder),
		InnerOrder:    types.InnerOrderStrategy(in.InnerOrder),
		Verification:  types.VerificationMode(in.Verification),
		CheckHighways: in.CheckHighways,
		GroupPenalty:  in.GroupPenalty,
		InnerPenalty:  in.InnerPenalty,
		Clustering: types.ClusteringSettings{
			RadiusKM:     in.RadiusKM,
			MinSamples:   in.MinSamples,
			MaxGroupSize: in.MaxGroupSize,
			Metric:       types.Metric(in.Metric),
			RandomState:  in.RandomState,
			NInit:        in.NInit,
		},
		Smart: types.SmartSettings{
			StrictGroupOrder:      in.Smart.StrictGroupOrder,
			DirectionalConstraint: in.Smart.DirectionalConstraint,
			NextGroupLinkage:      types.NextGroupLinkage(in.Smart.NextGroupLinkage),
			LinkageWeight:         in.Smart.LinkageWeight,
		},
	}
	if in.ManualEnd != nil {
		req.ManualEnd = *in.ManualEnd
	}
	return req
}

func runPlan(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	inputs, _ := cmd.Flags().GetStringArray("input")
	if len(inputs) == 0 {
		return fmt.Errorf("at least one --input file is required")
	}

	outputDir := viper.GetString("plan.output_dir")
	workers := viper.GetInt("plan.workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	showProgress := viper.GetBool("plan.progress")
	riversPath := viper.GetString("plan.rivers")
	highwaysPath := viper.GetString("plan.highways")
	verificationMode := viper.GetString("verification")
	valhallaEndpoint := viper.GetString("valhalla-endpoint")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	var index *obstacle.Index
	if verificationMode == string(types.VerificationGeometry) || riversPath != "" || highwaysPath != "" {
		idx, err := obstacle.Load(riversPath, highwaysPath)
		if err != nil {
			logger.Warn("obstacle index degraded", "error", err)
		}
		index = idx
	}

	var apiOracle obstacle.CrossingOracle
	if verificationMode == string(types.VerificationAPI) && valhallaEndpoint != "" {
		apiOracle = obstacle.NewValhallaOracle(valhallaEndpoint, 200*time.Millisecond)
	}

	eng := planner.New(planner.Options{Index: index, APIOracle: apiOracle, Logger: logger})

	tasks := make([]worker.Task, 0, len(inputs))
	for _, path := range inputs {
		req, err := loadPlanRequest(path, verificationMode, riversPath, highwaysPath)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		tasks = append(tasks, worker.Task{ID: path, Request: req})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received interrupt signal, cancelling...")
		cancel()
	}()

	progress := worker.NewProgress(len(tasks), showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Planner:    eng,
		OnProgress: progress.Callback(),
	})

	logger.Info("planning routes", "count", len(tasks), "workers", workers)
	results := pool.Run(ctx, tasks)
	progress.Done()
	logger.Info(progress.Summary())

	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("plan failed", "input", r.Task.ID, "error", r.Err)
			continue
		}
		outPath := filepath.Join(outputDir, planOutputName(r.Task.ID))
		if err := writePlanResponse(outPath, r.Response); err != nil {
			failedCount++
			logger.Error("failed to write plan output", "input", r.Task.ID, "error", err)
			continue
		}
		logger.Info("plan written", "input", r.Task.ID, "output", outPath, "stops", len(r.Response.Stops), "groups", r.Response.TotalGroups)
	}

	if failedCount > 0 {
		return fmt.Errorf("%d of %d plans failed", failedCount, len(tasks))
	}
	return nil
}

func loadPlanRequest(path, verificationMode, riversPath, highwaysPath string) (types.PlanRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PlanRequest{}, err
	}
	var in planInput
	if err := json.Unmarshal(data, &in); err != nil {
		return types.PlanRequest{}, fmt.Errorf("invalid json: %w", err)
	}
	req := in.toRequest()
	if req.Verification == "" && verificationMode != "" {
		req.Verification = types.VerificationMode(verificationMode)
	}
	if req.Verification == types.VerificationGeometry && !req.CheckHighways && highwaysPath != "" {
		req.CheckHighways = true
	}
	return req, nil
}

func writePlanResponse(path string, resp *types.PlanResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func planOutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + ".plan.json"
}
