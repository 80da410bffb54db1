// Package memest models the flash and RAM cost of a trained forest on
// the target microcontroller. The model is exact, not approximate:
// callers assert the report against a budget and reject oversized
// models before anything is flashed.
package memest

import "emg-forest/internal/common"

// Model is the forest shape the estimator walks. *forest.Forest
// satisfies it.
type Model interface {
	TreeCount() int
	TotalNodes() int
	MaxDepth() int
	FeatureCount() int
	ClassCount() int
}

// Report is a read-only snapshot of a forest's memory footprint,
// recomputed on demand and never cached.
type Report struct {
	TotalNodes      int     `json:"total_nodes"`
	AvgNodesPerTree float64 `json:"avg_nodes_per_tree"`
	MaxDepth        int     `json:"max_depth"`
	FlashBytes      int     `json:"flash_bytes"`
	RAMBytes        int     `json:"ram_bytes"`
}

// Estimate computes the footprint of the forest under the 8-byte
// encoded node layout: flash holds the node arrays, RAM holds one
// float32 feature slot per feature, one vote byte per class, and fixed
// traversal bookkeeping.
func Estimate(m Model) Report {
	total := m.TotalNodes()
	r := Report{
		TotalNodes: total,
		MaxDepth:   m.MaxDepth(),
		FlashBytes: total * common.EncodedNodeBytes,
		RAMBytes: m.FeatureCount()*common.RAMBytesPerFeature +
			m.ClassCount()*common.RAMBytesPerClass +
			common.RAMOverheadBytes,
	}
	if n := m.TreeCount(); n > 0 {
		r.AvgNodesPerTree = float64(total) / float64(n)
	}
	return r
}

// Fits reports whether the footprint respects the given budgets. A
// non-positive budget means unconstrained.
func (r Report) Fits(flashBudget, ramBudget int) bool {
	if flashBudget > 0 && r.FlashBytes > flashBudget {
		return false
	}
	if ramBudget > 0 && r.RAMBytes > ramBudget {
		return false
	}
	return true
}
