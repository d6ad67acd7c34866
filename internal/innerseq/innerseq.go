// Package innerseq orders the orders within one cluster (spec §4.6):
// nearest-neighbor, matrix 2-opt, matrix-TSP, and an end-anchored TSP
// variant for a fixed manual endpoint.
package innerseq

import (
	"context"
	"math"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// Order sequences a cluster's points, starting from start, returning a
// permutation of 0..len(points)-1. When end is non-nil and strategy is
// "ortools", the sequence is anchored to finish there (spec §4.6
// "End-anchored TSP"); every other strategy ignores end.
func Order(ctx context.Context, strategy types.InnerOrderStrategy, start geometry.Point, points []geometry.Point, end *geometry.Point, costModel cost.Model) []int {
	switch strategy {
	case types.InnerOrder2Opt:
		seed := nearestNeighborOrder(ctx, start, points, costModel)
		return matrixTwoOpt(start, points, costModel, seed)
	case types.InnerOrderOrTools:
		if end != nil {
			return solveEndAnchored(ctx, start, points, *end, costModel)
		}
		return SolveGuidedLocalSearch(ctx, start, points, costModel)
	case types.InnerOrderLKH:
		// No LKH binding exists anywhere in the retrieval pack; fall back
		// to the same guided-local-search solver as "ortools" (spec §7
		// SolverFailure: degrade to nearest-neighbor-class heuristic
		// rather than fail the plan).
		return SolveGuidedLocalSearch(ctx, start, points, costModel)
	default:
		return nearestNeighborOrder(ctx, start, points, costModel)
	}
}

// nearestNeighborOrder greedily picks the obstacle-aware-nearest
// remaining point from current, repeating until all points are placed
// (spec §4.6 "Nearest-neighbor").
func nearestNeighborOrder(ctx context.Context, start geometry.Point, points []geometry.Point, costModel cost.Model) []int {
	n := len(points)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	current := start

	for len(order) < n {
		best := -1
		bestCost := math.Inf(1)
		for i, p := range points {
			if visited[i] {
				continue
			}
			d := costModel.Cost(ctx, current, p, cost.ScopeInner)
			if d < bestCost {
				best, bestCost = i, d
			}
		}
		visited[best] = true
		order = append(order, best)
		current = points[best]
	}
	return order
}

// distanceMatrix builds an (n+1)x(n+1) obstacle-aware cost matrix where
// index 0 is the virtual start vertex and indices 1..n are points[0..n-1]
// (spec §4.6 "Build the cluster's distance matrix").
func distanceMatrix(ctx context.Context, start geometry.Point, points []geometry.Point, costModel cost.Model) [][]float64 {
	n := len(points) + 1
	verts := make([]geometry.Point, n)
	verts[0] = start
	copy(verts[1:], points)

	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				continue
			}
			m[i][j] = costModel.Cost(ctx, verts[i], verts[j], cost.ScopeInner)
		}
	}
	return m
}

// matrixTwoOpt seeds with a nearest-neighbor order (already computed in
// 0-based point-index terms) and runs 2-opt on the open tour including
// the virtual start vertex (spec §4.6 "Matrix 2-opt").
func matrixTwoOpt(start geometry.Point, points []geometry.Point, costModel cost.Model, seed []int) []int {
	n := len(points)
	if n < 3 {
		return seed
	}
	matrix := distanceMatrix(context.Background(), start, points, costModel)

	// tour is vertex indices into the matrix: 0 is virtual start, i+1 is
	// points[i]. Index 0 is pinned; 2-opt reverses within positions 1..n.
	tour := make([]int, n+1)
	tour[0] = 0
	for i, p := range seed {
		tour[i+1] = p + 1
	}

	pathCost := func(t []int) float64 {
		total := 0.0
		for i := 0; i+1 < len(t); i++ {
			total += matrix[t[i]][t[i+1]]
		}
		return total
	}

	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		improved := false
		base := pathCost(tour)
		for i := 1; i < len(tour)-1; i++ {
			for j := i + 1; j < len(tour); j++ {
				candidate := reverseInfix(tour, i, j)
				if pathCost(candidate) < base {
					tour = candidate
					base = pathCost(tour)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	result := make([]int, n)
	for i, v := range tour[1:] {
		result[i] = v - 1
	}
	return result
}

func reverseInfix(tour []int, i, j int) []int {
	out := append([]int{}, tour...)
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
