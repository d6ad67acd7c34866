package innerseq

import (
	"context"
	"time"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
)

// solveEndAnchored implements "...with end" (spec §4.6): the same
// guided-local-search contract as SolveGuidedLocalSearch, but with an
// additional fixed end vertex appended after the virtual start, so the
// optimizer is free to reorder only the interior points. At the deadline
// or on context cancellation it returns the best tour found so far;
// inputs of fewer than 4 points use the greedy route over interior orders
// instead (spec §4.6 fallback clause).
func solveEndAnchored(ctx context.Context, start geometry.Point, points []geometry.Point, end geometry.Point, costModel cost.Model) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if n < 4 {
		return greedyThenEnd(ctx, start, points, costModel)
	}

	deadline := time.Now().Add(solverDeadline)

	// Vertex 0 = virtual start, vertices 1..n = points, vertex n+1 = fixed
	// end. Only positions 1..n of the tour are free to permute.
	verts := make([]geometry.Point, n+2)
	verts[0] = start
	copy(verts[1:n+1], points)
	verts[n+1] = end

	matrix := make([][]float64, n+2)
	for i := range matrix {
		matrix[i] = make([]float64, n+2)
		for j := range matrix[i] {
			if i != j {
				matrix[i][j] = costModel.Cost(ctx, verts[i], verts[j], cost.ScopeInner)
			}
		}
	}

	seed := nearestNeighborOrder(ctx, start, points, costModel)
	tour := make([]int, 0, n+2)
	tour = append(tour, 0)
	for _, p := range seed {
		tour = append(tour, p+1)
	}
	tour = append(tour, n+1)

	best := localTwoOptFixedEnds(matrix, tour, deadline)
	bestCost := tourCost(matrix, best)

	rng := newPerturbRNG(int64(n)*2654435761 + 1)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return interiorFromTour(best, n)
		default:
		}
		candidate := doubleBridgeInterior(best, rng)
		candidate = localTwoOptFixedEnds(matrix, candidate, deadline)
		if c := tourCost(matrix, candidate); c < bestCost {
			best, bestCost = candidate, c
		}
	}

	return interiorFromTour(best, n)
}

// localTwoOptFixedEnds is localTwoOpt restricted to leave both tour[0]
// and tour[len-1] untouched.
func localTwoOptFixedEnds(matrix [][]float64, tour []int, deadline time.Time) []int {
	for {
		if time.Now().After(deadline) {
			return tour
		}
		improved := false
		base := tourCost(matrix, tour)
		for i := 1; i < len(tour)-2; i++ {
			for j := i + 1; j < len(tour)-1; j++ {
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

func doubleBridgeInterior(tour []int, rng *perturbRNG) []int {
	n := len(tour)
	interior := n - 2
	if interior < 6 {
		return append([]int{}, tour...)
	}
	p := []int{1 + rng.intn(interior-4), 0, 0}
	p[1] = p[0] + 1 + rng.intn(n-1-p[0]-3)
	p[2] = p[1] + 1 + rng.intn(n-1-p[1]-2)

	a := tour[:p[0]]
	b := tour[p[0]:p[1]]
	c := tour[p[1]:p[2]]
	d := tour[p[2] : n-1]
	endVertex := tour[n-1:]

	out := make([]int, 0, n)
	out = append(out, a...)
	out = append(out, c...)
	out = append(out, b...)
	out = append(out, d...)
	out = append(out, endVertex...)
	return out
}

func interiorFromTour(tour []int, n int) []int {
	result := make([]int, 0, n)
	for _, v := range tour[1 : len(tour)-1] {
		result = append(result, v-1)
	}
	return result
}

// greedyThenEnd visits interior orders nearest-neighbor style, the
// fallback path for tiny inputs (spec §4.6). The endpoint is not a point
// index, so it is not part of the returned permutation; the order is the
// plain nearest-neighbor order and does not take the endpoint into account.
func greedyThenEnd(ctx context.Context, start geometry.Point, points []geometry.Point, costModel cost.Model) []int {
	return nearestNeighborOrder(ctx, start, points, costModel)
}
