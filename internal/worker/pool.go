// Package worker provides a parallel plan-execution worker pool: many
// PlanRequests in flight at once, one goroutine pool wide (spec §5).
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/lastmile-route/routeplanner/internal/types"
)

// Planner is the interface for running one plan request to completion.
// This matches planner.Planner.Plan's signature.
type Planner interface {
	Plan(ctx context.Context, req types.PlanRequest) (*types.PlanResponse, error)
}

// Task is a single plan request, tagged with a caller-supplied ID (e.g.
// an input file name) for matching results back to inputs.
type Task struct {
	ID      string
	Request types.PlanRequest
}

// Result is the outcome of one plan task.
type Result struct {
	Task     Task
	Response *types.PlanResponse
	Err      error
	Elapsed  time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Planner    Planner
	OnProgress ProgressFunc
}

// Pool manages parallel plan execution.
type Pool struct {
	workers    int
	planner    Planner
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		planner:    cfg.Planner,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and returns results. Tasks are processed in
// parallel by the configured number of workers; Plan itself never runs
// two stages concurrently for the same request (spec §5), so the pool is
// the only source of concurrency. The function blocks until all tasks
// complete or the context is cancelled.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var (
		completed int
		failed    int
		mu        sync.Mutex
	)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	go func() {
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				break
			}
		}
		close(taskCh)
	}()

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		for result := range resultCh {
			results = append(results, result)

			mu.Lock()
			completed++
			if result.Err != nil {
				failed++
			}
			c, f := completed, failed
			mu.Unlock()

			if p.onProgress != nil {
				p.onProgress(c, len(tasks), f)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)

	<-done

	return results
}

// worker processes tasks from the task channel and sends results to the
// result channel.
func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		select {
		case <-ctx.Done():
			results <- Result{
				Task: task,
				Err:  ctx.Err(),
			}
			continue
		default:
		}

		start := time.Now()
		resp, err := p.planner.Plan(ctx, task.Request)
		elapsed := time.Since(start)

		results <- Result{
			Task:     task,
			Response: resp,
			Err:      err,
			Elapsed:  elapsed,
		}
	}
}
