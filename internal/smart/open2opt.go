package smart

import (
	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/types"
)

// directionalWeight is the fixed weight applied to the directional score
// term (spec §4.7 "weight = 1.0").
const directionalWeight = 1.0

// linkageMaxIterations bounds every open-2opt variant below (spec §4.7,
// mirroring C5/C6's 100-iteration cap).
const linkageMaxIterations = 100

// OpenTwoOpt runs the directional-constrained open-path 2-opt (spec §4.7
// "Directional-constrained open 2-opt"): a fixed starting index, with an
// optional augmented objective that rewards paths ending nearer target.
// target is the next cluster's entry point if known, else its centroid,
// else nil to fall back to pure path length.
func OpenTwoOpt(points []geometry.Point, startIdx int, target *geometry.Point, directional bool) []int {
	n := len(points)
	if n <= 2 {
		route := make([]int, n)
		for i := range route {
			route[i] = i
		}
		return rotateToStart(route, startIdx)
	}

	route := nearestNeighborFrom(points, startIdx)

	evaluate := func(r []int) float64 {
		d := totalPathLength(points, r)
		if directional && target != nil {
			d += directionalScore(points, r, *target) * directionalWeight
		}
		return d
	}

	for iter := 0; iter < linkageMaxIterations; iter++ {
		improved := false
		base := evaluate(route)
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				candidate := reverseOpen(route, i, j)
				if evaluate(candidate) < base {
					route = candidate
					base = evaluate(route)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return route
}

// directionalScore implements spec §4.7's augmented objective:
// mean(distance of 2nd-half vertices to target) - mean(distance of
// 1st-half vertices to target). A negative score (second half closer to
// target than the first) lowers total cost, biasing the path to end
// nearer the next cluster.
func directionalScore(points []geometry.Point, route []int, target geometry.Point) float64 {
	if len(route) == 0 {
		return 0
	}
	mid := len(route) / 2
	var firstSum, secondSum float64
	for i, idx := range route {
		d := geometry.PlanarDistance(points[idx], target)
		if i < mid {
			firstSum += d
		} else {
			secondSum += d
		}
	}
	var firstAvg, secondAvg float64
	if mid > 0 {
		firstAvg = firstSum / float64(mid)
	}
	secondAvg = secondSum / float64(len(route)-mid)
	return secondAvg - firstAvg
}

// LinkageOptimize implements spec §4.7's inter-group linkage modes atop
// the directional open-2opt: none is OpenTwoOpt unmodified; weighted adds
// w * distance(last vertex, nextCentroid) to the objective; virtual
// endpoint appends nextCentroid as a fixed terminal vertex, optimizes,
// then strips it.
func LinkageOptimize(points []geometry.Point, startIdx int, mode types.NextGroupLinkage, nextCentroid *geometry.Point, weight float64, directional bool, directionalTarget *geometry.Point) []int {
	switch mode {
	case types.LinkageWeighted:
		return weightedLinkage(points, startIdx, nextCentroid, weight, directional, directionalTarget)
	case types.LinkageVirtualEndpoint:
		return virtualEndpointLinkage(points, startIdx, nextCentroid, directional, directionalTarget)
	default:
		return OpenTwoOpt(points, startIdx, directionalTarget, directional)
	}
}

func weightedLinkage(points []geometry.Point, startIdx int, nextCentroid *geometry.Point, weight float64, directional bool, directionalTarget *geometry.Point) []int {
	n := len(points)
	route := nearestNeighborFrom(points, startIdx)
	if n <= 2 {
		return route
	}

	evaluate := func(r []int) float64 {
		d := totalPathLength(points, r)
		if directional && directionalTarget != nil {
			d += directionalScore(points, r, *directionalTarget) * directionalWeight
		}
		if nextCentroid != nil {
			last := points[r[len(r)-1]]
			d += weight * geometry.PlanarDistance(last, *nextCentroid)
		}
		return d
	}

	for iter := 0; iter < linkageMaxIterations; iter++ {
		improved := false
		base := evaluate(route)
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				candidate := reverseOpen(route, i, j)
				if evaluate(candidate) < base {
					route = candidate
					base = evaluate(route)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return route
}

func virtualEndpointLinkage(points []geometry.Point, startIdx int, nextCentroid *geometry.Point, directional bool, directionalTarget *geometry.Point) []int {
	if nextCentroid == nil {
		return OpenTwoOpt(points, startIdx, directionalTarget, directional)
	}
	n := len(points)
	extended := append(append([]geometry.Point{}, points...), *nextCentroid)

	route := nearestNeighborFrom(extended[:n], startIdx)
	route = append(route, n) // virtual vertex fixed at the end

	evaluate := func(r []int) float64 {
		d := totalPathLength(extended, r)
		if directional && directionalTarget != nil {
			d += directionalScore(extended, r[:len(r)-1], *directionalTarget) * directionalWeight
		}
		return d
	}

	for iter := 0; iter < linkageMaxIterations; iter++ {
		improved := false
		base := evaluate(route)
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				candidate := reverseOpen(route, i, j)
				if evaluate(candidate) < base {
					route = candidate
					base = evaluate(route)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	out := make([]int, 0, n)
	for _, idx := range route {
		if idx < n {
			out = append(out, idx)
		}
	}
	return out
}

func nearestNeighborFrom(points []geometry.Point, startIdx int) []int {
	n := len(points)
	visited := make([]bool, n)
	route := []int{startIdx}
	visited[startIdx] = true
	current := points[startIdx]

	for len(route) < n {
		best := -1
		bestDist := 0.0
		for i, p := range points {
			if visited[i] {
				continue
			}
			d := geometry.PlanarDistance(current, p)
			if best == -1 || d < bestDist {
				best, bestDist = i, d
			}
		}
		visited[best] = true
		route = append(route, best)
		current = points[best]
	}
	return route
}

func totalPathLength(points []geometry.Point, route []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += geometry.PlanarDistance(points[route[i]], points[route[i+1]])
	}
	return total
}

// reverseOpen reverses route[i:j+1], leaving position 0 fixed (the
// designated starting index).
func reverseOpen(route []int, i, j int) []int {
	out := append([]int{}, route...)
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

func rotateToStart(route []int, startIdx int) []int {
	for i, v := range route {
		if v == startIdx {
			route[0], route[i] = route[i], route[0]
			return route
		}
	}
	return route
}
