package types

import "strconv"

// Cluster is an ordered collection of order indices assigned a stable
// integer id during clustering, and later a letter label once the group
// sequencer has run. Order indices refer into the plan's order slice.
type Cluster struct {
	ID      int
	Label   string // set once C5/C7 has assigned a visitation order; empty until then
	Indices []int
}

// Size returns the number of orders in the cluster.
func (c Cluster) Size() int {
	return len(c.Indices)
}

// GroupLabels produces A, B, C, ..., Z, Z1, Z2, ... for position i (0-based),
// per spec §4.5 "Labeling".
func GroupLabels(n int) []string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(alphabet) {
			labels[i] = string(alphabet[i])
		} else {
			overflow := i - len(alphabet) + 1
			labels[i] = "Z" + strconv.Itoa(overflow)
		}
	}
	return labels
}
