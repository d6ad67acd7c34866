package types

import "fmt"

// PlannedStop is one entry of the final visitation sequence (spec §3).
type PlannedStop struct {
	GlobalSeq  int    `json:"global_seq"` // 1-based, contiguous across the whole plan
	GroupLabel string `json:"group_label"`
	IntraSeq   string `json:"intra_seq"` // "<label>-NN", NN zero-padded 2-digit, restarts at 01 per group
	TrackingID string `json:"tracking_id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// EndpointTrackingID marks the synthetic stop appended for a manual
// endpoint (spec §3, §6).
const EndpointTrackingID = "ENDPOINT"

// EndpointGroupLabel is the group label of the synthetic endpoint stop.
const EndpointGroupLabel = "End"

// FormatIntraSeq renders "<label>-NN" with NN zero-padded to 2 digits.
func FormatIntraSeq(label string, n int) string {
	return fmt.Sprintf("%s-%02d", label, n)
}

// Crossing is one reported obstacle crossing in the final route (spec §6).
type Crossing struct {
	FromTrackingID string `json:"from_tracking_id"`
	ToTrackingID   string `json:"to_tracking_id"`
	CrossesRiver   bool   `json:"crosses_river"`
	CrossesHighway bool   `json:"crosses_highway"`
	Method         string `json:"method"` // "geometry" | "api"
}

// PlanResponse is the planning engine's output (spec §6).
type PlanResponse struct {
	Stops              []PlannedStop `json:"stops"`
	TotalOrders        int           `json:"total_orders"`
	TotalGroups        int           `json:"total_groups"`
	Crossings          []Crossing    `json:"crossings"`
	VerificationMethod string        `json:"verification_method"`
}
