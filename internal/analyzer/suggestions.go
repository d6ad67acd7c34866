package analyzer

import "github.com/lastmile-route/routeplanner/internal/types"

// buildSuggestions ports original_source/app.py's advisory rule table
// verbatim (thresholds and bucket values unchanged): aspect ratio picks a
// group-order method, (order count, density) picks a max_group_size
// bucket, density picks a cluster radius (narrowed further for a linear
// distribution that likely crosses a river), and the likely-river-crossing
// flag (derived from range) decides whether to recommend obstacle
// verification.
func buildSuggestions(totalOrders int, aspectRatio, density, maxRangeKM float64, likelyCrossesRiver bool) (Suggestions, []string) {
	var s Suggestions
	var reasoning []string

	switch {
	case aspectRatio > 3.0:
		s.GroupOrderMethod = types.GroupOrderGreedy
		reasoning = append(reasoning, "orders form a linear distribution; greedy ordering avoids unnecessary backtracking")
	case aspectRatio > 2.0:
		s.GroupOrderMethod = types.GroupOrderSweep
		reasoning = append(reasoning, "orders form an elliptical distribution; sweep ordering avoids doubling back across the dense half")
	default:
		s.GroupOrderMethod = types.GroupOrder2Opt
		reasoning = append(reasoning, "orders form a concentrated distribution; 2-opt refinement is worth the extra compute")
	}

	switch {
	case totalOrders < 50:
		s.MaxGroupSize = 20
	case totalOrders < 150:
		switch {
		case density > 100:
			s.MaxGroupSize = 25
		case density > 50:
			s.MaxGroupSize = 30
		default:
			s.MaxGroupSize = 35
		}
	case totalOrders < 300:
		switch {
		case density > 100:
			s.MaxGroupSize = 30
		case density > 50:
			s.MaxGroupSize = 35
		default:
			s.MaxGroupSize = 40
		}
	default:
		if density > 100 {
			s.MaxGroupSize = 35
		} else {
			s.MaxGroupSize = 45
		}
	}

	switch {
	case density > 100:
		reasoning = append(reasoning, "high order density favors smaller groups")
	case density > 50:
		reasoning = append(reasoning, "moderate order density")
	default:
		reasoning = append(reasoning, "low order density favors larger groups")
	}

	switch {
	case density > 100:
		s.ClusterRadiusKM = 0.8
	case density > 50:
		s.ClusterRadiusKM = 1.0
	default:
		s.ClusterRadiusKM = 1.5
	}

	if aspectRatio > 3.0 && likelyCrossesRiver {
		s.ClusterRadiusKM = maxFloat(0.6, s.ClusterRadiusKM-0.3)
	}

	if likelyCrossesRiver {
		s.Verification = types.VerificationGeometry
		s.GroupPenalty = 2.5
		s.InnerPenalty = 1.8
		reasoning = append(reasoning, "order spread exceeds 5km; enabling river verification")
	} else {
		s.Verification = types.VerificationNone
		s.GroupPenalty = 2.0
		s.InnerPenalty = 1.5
	}

	if density > 80 {
		s.MinSamples = 4
	} else {
		s.MinSamples = 3
	}

	s.Metric = types.MetricEuclidean
	s.RandomState = 42
	s.NInit = 10
	s.CheckHighways = likelyCrossesRiver

	return s, reasoning
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
