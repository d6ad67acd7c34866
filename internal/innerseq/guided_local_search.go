package innerseq

import (
	"context"
	"time"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// solverDeadline is the wall-clock budget a general TSP solver would be
// given (spec §4.6 "wall-clock <= 5s"). Exceeding it falls back to
// whatever tour has been found so far rather than blocking the plan.
const solverDeadline = 5 * time.Second

// SolveGuidedLocalSearch is the "ortools" strategy, implemented without a
// cgo OR-Tools binding, which no example in the retrieval pack provides.
// It builds a float64 obstacle-aware cost matrix (no integer scaling),
// seeds with a nearest-neighbor order (not a cheapest-arc construction),
// then repeatedly 2-opt-improves random double-bridge perturbations of
// the best tour until solverDeadline, in the spirit of guided local
// search's "escape the local optimum, keep searching" loop. Inputs of
// fewer than 4 points return the nearest-neighbor order directly.
func SolveGuidedLocalSearch(ctx context.Context, start geometry.Point, points []geometry.Point, costModel cost.Model) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n < 4 {
		return nearestNeighborOrder(ctx, start, points, costModel)
	}

	deadline := time.Now().Add(solverDeadline)
	matrix := distanceMatrix(ctx, start, points, costModel)

	seed := nearestNeighborOrder(ctx, start, points, costModel)
	best := toVertexTour(seed)
	bestCost := tourCost(matrix, best)

	rng := newPerturbRNG(int64(n) * 2654435761)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return fromVertexTour(best)
		default:
		}

		candidate := doubleBridge(best, rng)
		candidate = localTwoOpt(matrix, candidate, deadline)
		if c := tourCost(matrix, candidate); c < bestCost {
			best, bestCost = candidate, c
		}
	}

	return fromVertexTour(best)
}

func toVertexTour(order []int) []int {
	tour := make([]int, len(order)+1)
	tour[0] = 0
	for i, p := range order {
		tour[i+1] = p + 1
	}
	return tour
}

func fromVertexTour(tour []int) []int {
	result := make([]int, len(tour)-1)
	for i, v := range tour[1:] {
		result[i] = v - 1
	}
	return result
}

func tourCost(matrix [][]float64, tour []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		total += matrix[tour[i]][tour[i+1]]
	}
	return total
}

// localTwoOpt runs 2-opt to a local optimum (or until deadline), holding
// position 0 (the virtual start) fixed.
func localTwoOpt(matrix [][]float64, tour []int, deadline time.Time) []int {
	for {
		if time.Now().After(deadline) {
			return tour
		}
		improved := false
		base := tourCost(matrix, tour)
		for i := 1; i < len(tour)-1; i++ {
			for j := i + 1; j < len(tour); j++ {
				candidate := reverseInfix(tour, i, j)
				if c := tourCost(matrix, candidate); c < base {
					tour, base = candidate, c
					improved = true
				}
			}
		}
		if !improved {
			return tour
		}
	}
}

// doubleBridge performs a random 4-opt double-bridge move, the standard
// perturbation used to escape 2-opt local optima without the
// reversal-based moves that 2-opt itself already explores exhaustively.
func doubleBridge(tour []int, rng *perturbRNG) []int {
	n := len(tour)
	if n < 8 {
		return append([]int{}, tour...)
	}
	// Choose 3 cut points splitting positions 1..n-1 into 4 segments,
	// keeping position 0 fixed.
	p := []int{1 + rng.intn(n-4), 0, 0}
	p[1] = p[0] + 1 + rng.intn(n-p[0]-3)
	p[2] = p[1] + 1 + rng.intn(n-p[1]-2)

	a := tour[:p[0]]
	b := tour[p[0]:p[1]]
	c := tour[p[1]:p[2]]
	d := tour[p[2]:]

	out := make([]int, 0, n)
	out = append(out, a...)
	out = append(out, c...)
	out = append(out, b...)
	out = append(out, d...)
	return out
}

type perturbRNG struct{ state uint64 }

func newPerturbRNG(seed int64) *perturbRNG {
	s := uint64(seed)
	if s == 0 {
		s = 0xdeadbeef
	}
	return &perturbRNG{state: s}
}

func (r *perturbRNG) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

func (r *perturbRNG) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}
