// Package groupseq orders a plan's clusters into a single visitation
// permutation (spec §4.5): greedy nearest-centroid, angular sweep, or
// greedy seeded with 2-opt improvement.
package groupseq

import (
	"context"
	"math"
	"sort"

	"github.com/lastmile-route/routeplanner/internal/cost"
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// Centroid pairs a cluster id with its geometric centroid and order count,
// the minimal view this package needs of a cluster.
type Centroid struct {
	ClusterID int
	Point     geometry.Point
	OrderCount int
}

// Order returns a permutation of indices into centroids (spec §4.5).
func Order(ctx context.Context, strategy types.GroupOrderStrategy, start geometry.Point, centroids []Centroid, costModel cost.Model) []int {
	switch strategy {
	case types.GroupOrderSweep:
		return sweepOrder(start, centroids)
	case types.GroupOrder2Opt:
		seed := greedyOrder(ctx, start, centroids, costModel)
		return twoOptImprove(start, centroids, costModel, seed)
	default:
		return greedyOrder(ctx, start, centroids, costModel)
	}
}

// greedyOrder repeatedly picks the unvisited centroid minimizing
// obstacle-aware cost from current, updating current to the chosen
// centroid (spec §4.5 "Greedy").
func greedyOrder(ctx context.Context, start geometry.Point, centroids []Centroid, costModel cost.Model) []int {
	n := len(centroids)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	current := start

	for len(order) < n {
		best := -1
		bestCost := math.Inf(1)
		for i, c := range centroids {
			if visited[i] {
				continue
			}
			d := costModel.Cost(ctx, current, c.Point, cost.ScopeGroup)
			if d < bestCost {
				best, bestCost = i, d
			}
		}
		visited[best] = true
		order = append(order, best)
		current = centroids[best].Point
	}
	return order
}

// sweepOrder implements the angular sweep strategy (spec §4.5 "Sweep"):
// closest centroid anchors the base direction, remaining centroids are
// partitioned left/right of that ray by order-count weight to pick a
// rotation direction, then all centroids are sorted by angle in that
// direction.
func sweepOrder(start geometry.Point, centroids []Centroid) []int {
	n := len(centroids)
	if n == 0 {
		return nil
	}

	anchor := 0
	anchorDist := geometry.PlanarDistance(start, centroids[0].Point)
	for i := 1; i < n; i++ {
		if d := geometry.PlanarDistance(start, centroids[i].Point); d < anchorDist {
			anchor, anchorDist = i, d
		}
	}

	anchorPoint := centroids[anchor].Point
	var leftOrders, rightOrders int
	for i, c := range centroids {
		if i == anchor {
			continue
		}
		cross := geometry.CrossProduct2D(start, anchorPoint, c.Point)
		if cross >= 0 {
			leftOrders += c.OrderCount
		} else {
			rightOrders += c.OrderCount
		}
	}

	clockwise := rightOrders >= leftOrders
	baseAngle := geometry.PolarAngle(start, anchorPoint)

	type angled struct {
		idx   int
		angle float64
	}
	entries := make([]angled, n)
	for i, c := range centroids {
		a := geometry.PolarAngle(start, c.Point) - baseAngle
		if clockwise {
			a = -a
		}
		for a < 0 {
			a += 2 * math.Pi
		}
		for a >= 2*math.Pi {
			a -= 2 * math.Pi
		}
		entries[i] = angled{idx: i, angle: a}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].angle < entries[j].angle })

	order := make([]int, n)
	for i, e := range entries {
		order[i] = e.idx
	}
	return order
}

// twoOptImprove runs the bounded 2-opt improvement loop on an open tour
// start -> c[order[0]] -> ... -> c[order[k-1]] (spec §4.5 "2-opt"): for
// every (i,j) with j >= i+2, reverse the infix and keep the reversal if
// total cost strictly decreases. Stops after 100 iterations or a pass
// with no improvement.
func twoOptImprove(start geometry.Point, centroids []Centroid, costModel cost.Model, order []int) []int {
	n := len(order)
	if n < 3 {
		return order
	}
	tour := append([]int{}, order...)

	pathCost := func(t []int) float64 {
		total := 0.0
		current := start
		for _, idx := range t {
			total += costModel.PlainDistance(current, centroids[idx].Point)
			current = centroids[idx].Point
		}
		return total
	}

	const maxIterations = 100
	for iter := 0; iter < maxIterations; iter++ {
		improved := false
		base := pathCost(tour)
		for i := 0; i < n-1; i++ {
			for j := i + 2; j < n; j++ {
				candidate := reversedInfix(tour, i, j)
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
	return tour
}

func reversedInfix(tour []int, i, j int) []int {
	out := append([]int{}, tour...)
	for l, r := i+1, j; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}
