package memest_test

import (
	"testing"

	"emg-forest/internal/forest"
	"emg-forest/internal/memest"
)

// chainForest builds a forest of numTrees left-leaning trees with
// nodesPerTree nodes each (nodesPerTree must be odd).
func chainForest(numTrees, nodesPerTree, numFeatures, numClasses int) *forest.Forest {
	f := &forest.Forest{
		NumFeatures: numFeatures,
		NumClasses:  numClasses,
	}
	for t := 0; t < numTrees; t++ {
		var nodes []forest.Node
		internal := (nodesPerTree - 1) / 2
		for i := 0; i < internal; i++ {
			nodes = append(nodes, forest.Node{
				Feature:   i % numFeatures,
				Threshold: 0.5,
				Left:      len(nodes) + 1,
				Right:     len(nodes) + 2,
			})
			nodes = append(nodes, forest.Node{Left: forest.NoChild, Right: forest.NoChild, Class: i % numClasses, Leaf: true})
		}
		nodes = append(nodes, forest.Node{Left: forest.NoChild, Right: forest.NoChild, Class: 0, Leaf: true})
		f.Trees = append(f.Trees, forest.Tree{Nodes: nodes})
	}
	return f
}

func TestFlashBytesExact(t *testing.T) {
	t.Parallel()

	// Forests spanning 1 to over 1000 total nodes.
	cases := []struct {
		trees, nodesPerTree int
	}{
		{1, 1},
		{1, 3},
		{15, 7},
		{20, 51},
		{15, 63}, // 945 nodes, near the firmware's static ceiling
		{20, 63},
	}
	for _, tc := range cases {
		f := chainForest(tc.trees, tc.nodesPerTree, 10, 3)
		if err := f.Validate(); err != nil {
			t.Fatalf("fixture invalid: %v", err)
		}
		r := memest.Estimate(f)
		wantNodes := tc.trees * tc.nodesPerTree
		if r.TotalNodes != wantNodes {
			t.Errorf("%d x %d: total nodes = %d, want %d", tc.trees, tc.nodesPerTree, r.TotalNodes, wantNodes)
		}
		if r.FlashBytes != wantNodes*8 {
			t.Errorf("%d x %d: flash = %d, want %d", tc.trees, tc.nodesPerTree, r.FlashBytes, wantNodes*8)
		}
		if want := float64(tc.nodesPerTree); r.AvgNodesPerTree != want {
			t.Errorf("%d x %d: avg nodes per tree = %v, want %v", tc.trees, tc.nodesPerTree, r.AvgNodesPerTree, want)
		}
	}
}

func TestRAMModel(t *testing.T) {
	t.Parallel()

	f := chainForest(3, 5, 12, 3)
	r := memest.Estimate(f)
	// 12 float32 feature slots + 3 vote bytes + 100 bytes overhead.
	if want := 12*4 + 3*1 + 100; r.RAMBytes != want {
		t.Errorf("ram = %d, want %d", r.RAMBytes, want)
	}
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	f := chainForest(2, 7, 4, 2)
	r := memest.Estimate(f)
	if r.MaxDepth != 3 {
		t.Errorf("max depth = %d, want 3", r.MaxDepth)
	}
}

func TestFits(t *testing.T) {
	t.Parallel()

	f := chainForest(15, 7, 10, 3) // 105 nodes, 840 flash bytes
	r := memest.Estimate(f)

	if !r.Fits(0, 0) {
		t.Error("unconstrained budget should always fit")
	}
	if !r.Fits(1024, 256) {
		t.Error("840/1024 flash and 143/256 ram should fit")
	}
	if r.Fits(512, 0) {
		t.Error("840 flash bytes must not fit a 512-byte budget")
	}
	if r.Fits(0, 100) {
		t.Error("143 ram bytes must not fit a 100-byte budget")
	}
}
