// Package forest trains and evaluates bagged decision-tree ensembles
// for sEMG gesture classification. Trees are stored as flat node arrays
// with index-based children, the same arena layout the firmware
// traverses, so the encoder never has to restructure them.
package forest

import (
	"emg-forest/internal/common"
)

// NoChild marks the child slots of a leaf node.
const NoChild = -1

// Node is one entry of a tree's node array. A node is either internal
// (Feature, Threshold and both children populated) or a leaf (Class
// populated, children NoChild) — never partially filled.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a decision tree over a flat node array. The root is always
// index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a trained ensemble. It is immutable once trained: the
// estimator and encoder only read it, so concurrent reads need no
// coordination.
type Forest struct {
	Trees        []Tree   `json:"trees"`
	NumFeatures  int      `json:"n_features"`
	NumClasses   int      `json:"n_classes"`
	FeatureNames []string `json:"feature_names,omitempty"`
	ClassNames   []string `json:"class_names,omitempty"`
	Seed         int64    `json:"seed"`
}

// Predict traverses the tree for one sample and returns the leaf class.
// The comparison direction (value < threshold goes left) matches the
// firmware traversal contract.
func (t *Tree) Predict(sample []float64) int {
	idx := 0
	for {
		n := &t.Nodes[idx]
		if n.Leaf {
			return n.Class
		}
		if sample[n.Feature] < n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// Depth returns the maximum root-to-leaf depth of the tree; a
// single-leaf tree has depth 0.
func (t *Tree) Depth() int {
	return t.depthFrom(0)
}

func (t *Tree) depthFrom(idx int) int {
	n := &t.Nodes[idx]
	if n.Leaf {
		return 0
	}
	l := t.depthFrom(n.Left)
	r := t.depthFrom(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// PredictOne classifies a single feature vector by majority vote and
// returns the winning class with an integer confidence in [0,100],
// the winning vote share across the forest.
func (f *Forest) PredictOne(sample []float64) (class, confidence int, err error) {
	if len(sample) != f.NumFeatures {
		return 0, 0, &common.InputShapeError{What: "feature vector length", Want: f.NumFeatures, Got: len(sample)}
	}
	votes := make([]int, f.NumClasses)
	for i := range f.Trees {
		votes[f.Trees[i].Predict(sample)]++
	}
	best := 0
	for c, v := range votes {
		if v > votes[best] {
			best = c
		}
	}
	confidence = votes[best] * 100 / len(f.Trees)
	return best, confidence, nil
}

// Predict classifies a batch of feature vectors, returning parallel
// class and confidence slices.
func (f *Forest) Predict(samples [][]float64) (classes, confidences []int, err error) {
	classes = make([]int, len(samples))
	confidences = make([]int, len(samples))
	for i, s := range samples {
		classes[i], confidences[i], err = f.PredictOne(s)
		if err != nil {
			return nil, nil, err
		}
	}
	return classes, confidences, nil
}

// TreeCount returns the number of trees in the forest.
func (f *Forest) TreeCount() int { return len(f.Trees) }

// TotalNodes returns the node count summed over all trees.
func (f *Forest) TotalNodes() int {
	var n int
	for i := range f.Trees {
		n += len(f.Trees[i].Nodes)
	}
	return n
}

// MaxDepth returns the deepest root-to-leaf path over all trees.
func (f *Forest) MaxDepth() int {
	var max int
	for i := range f.Trees {
		if d := f.Trees[i].Depth(); d > max {
			max = d
		}
	}
	return max
}

// FeatureCount returns the feature vector length the forest expects.
func (f *Forest) FeatureCount() int { return f.NumFeatures }

// ClassCount returns the number of classes the forest predicts.
func (f *Forest) ClassCount() int { return f.NumClasses }

// Validate checks the structural invariants of every tree: a non-empty
// node array, children that are valid in-tree indices on internal
// nodes, NoChild on leaves, and feature/class values in range. A forest
// that fails Validate is never encoded or persisted.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return &common.DeserializationError{Reason: "forest has no trees"}
	}
	if f.NumFeatures <= 0 || f.NumClasses <= 0 {
		return &common.DeserializationError{Reason: "non-positive feature or class count"}
	}
	for ti := range f.Trees {
		nodes := f.Trees[ti].Nodes
		if len(nodes) == 0 {
			return &common.DeserializationError{Reason: "tree has no nodes"}
		}
		for ni := range nodes {
			n := &nodes[ni]
			if n.Leaf {
				if n.Left != NoChild || n.Right != NoChild {
					return &common.DeserializationError{Reason: "leaf node has children"}
				}
				if n.Class < 0 || n.Class >= f.NumClasses {
					return &common.DeserializationError{Reason: "leaf class out of range"}
				}
				continue
			}
			if n.Left < 0 || n.Left >= len(nodes) || n.Right < 0 || n.Right >= len(nodes) {
				return &common.DeserializationError{Reason: "internal node child index out of range"}
			}
			if n.Feature < 0 || n.Feature >= f.NumFeatures {
				return &common.DeserializationError{Reason: "internal node feature index out of range"}
			}
		}
	}
	return nil
}
