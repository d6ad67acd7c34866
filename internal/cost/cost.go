// Package cost implements the obstacle-aware traversal cost (spec §4.3):
// plain distance scaled by a multiplicative penalty when the segment
// crosses a checked obstacle.
package cost

import (
	"context"

	"github.com/lastmile-route/routeplanner/internal/geometry"
	"github.com/lastmile-route/routeplanner/internal/obstacle"
)

// Scope selects which penalty applies to a segment: group_penalty for
// inter-cluster decisions, inner_penalty for intra-cluster ones (spec
// §4.3).
type Scope int

const (
	ScopeGroup Scope = iota
	ScopeInner
)

// Model computes traversal cost as d(P,Q) * penalty(P,Q) (spec §4.3).
// A nil Oracle degrades to plain distance with no penalty, matching the
// "obstacles disabled" / DataUnavailable-degraded path (spec §7, §8
// property 7: "With obstacles disabled, replanning the same request
// produces byte-identical outputs").
type Model struct {
	Oracle       obstacle.CrossingOracle
	Metric       string
	GroupPenalty float64
	InnerPenalty float64
}

// Cost returns the obstacle-aware cost of traversing from P to Q under
// the given scope. ctx bounds any API-mode oracle call.
func (m Model) Cost(ctx context.Context, from, to geometry.Point, scope Scope) float64 {
	d := geometry.Distance(m.Metric, from, to)
	if m.Oracle == nil {
		return d
	}
	status, err := m.Oracle.CheckCrossing(ctx, from, to)
	if err != nil || status != obstacle.StatusCrosses {
		return d
	}
	if scope == ScopeGroup {
		return d * m.GroupPenalty
	}
	return d * m.InnerPenalty
}

// PlainDistance returns the unpenalized distance, used where only
// distance (not cost) matters, e.g. reporting or tie-breaking.
func (m Model) PlainDistance(from, to geometry.Point) float64 {
	return geometry.Distance(m.Metric, from, to)
}
