package types

import "errors"

// Error kinds from spec §7. Callers match with errors.Is; the engine
// wraps these with fmt.Errorf("...: %w", ErrXxx) to add context.
var (
	// ErrInputValidation: missing start, missing orders, bad coord ranges.
	// The request is rejected immediately; nothing is planned.
	ErrInputValidation = errors.New("input validation failed")

	// ErrDataUnavailable: obstacle source files missing or unreadable.
	// The obstacle index degrades to empty and a warning is logged once;
	// planning continues.
	ErrDataUnavailable = errors.New("obstacle data unavailable")

	// ErrSolverFailure: a TSP subsolver errored or timed out without a
	// solution. The caller falls back to a greedy/nearest-neighbor route
	// and continues; this is never returned to the end user.
	ErrSolverFailure = errors.New("solver failure")

	// ErrOracleUnavailable: the external crossing-verification API
	// returned 4xx/5xx or timed out. The segment's crossing status is
	// reported as unknown; planning continues.
	ErrOracleUnavailable = errors.New("crossing oracle unavailable")

	// ErrInternal: an arithmetic or invariant break. Fatal — the plan
	// aborts.
	ErrInternal = errors.New("internal planner error")
)
