// Package encode converts a trained forest into the compact fixed-point
// node arrays the firmware traverses, and emits them as a C header.
//
// Every node is an 8-byte record. Internal nodes carry a feature index,
// a Q8.8 threshold and two child indices; leaves carry the predicted
// class in the low 7 bits of the flag byte, with bit 0x80 set. The flag
// bit is the only leaf discriminator the decoder may rely on.
package encode

import (
	"math"

	"github.com/rs/zerolog/log"

	"emg-forest/internal/common"
	"emg-forest/internal/forest"
)

// MetricsInterface defines the metrics methods the encoder reports to.
type MetricsInterface interface {
	NodesEncodedAdd(int)
	EncodeFailuresInc()
}

// Node is the 8-byte encoded record. Reserved pads the layout to the
// target's alignment and is always zero.
type Node struct {
	FeatureIndex uint8
	Flag         uint8
	Threshold    int16 // Q8.8
	Left         uint8
	Right        uint8
	Reserved     [2]uint8
}

// Leaf reports whether the node is a leaf, solely via the flag bit.
func (n Node) Leaf() bool { return n.Flag&common.LeafFlag != 0 }

// Class returns the class label of a leaf node.
func (n Node) Class() uint8 { return n.Flag & common.LeafClassMask }

// Tree is one encoded tree. The root is always index 0.
type Tree struct {
	Nodes []Node
}

// Predict traverses the encoded tree over an already-normalized Q8.8
// feature vector, reproducing the firmware inference loop: value below
// threshold goes left, otherwise right, until a leaf.
func (t *Tree) Predict(features []int16) uint8 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.Leaf() {
			return n.Class()
		}
		if features[n.FeatureIndex] < n.Threshold {
			idx = int(n.Left)
		} else {
			idx = int(n.Right)
		}
	}
}

// Forest is the full encoded model plus the per-feature normalization
// constants firmware applies before traversal.
type Forest struct {
	Trees       []Tree
	NumFeatures int
	NumClasses  int

	// Parallel per-feature Q8.8 arrays, identity (256, 0) unless the
	// caller supplies calibrated values. Calibration itself is the
	// caller's concern.
	FeatureScale  []int16
	FeatureOffset []int16

	FeatureNames []string
	ClassNames   []string
}

// ToFixed converts a real value to Q8.8 by flooring value*256. The same
// rule quantizes every threshold, so output is reproducible for a given
// forest.
func ToFixed(v float64) (int16, error) {
	q := math.Floor(v * common.FixedScale)
	if q < math.MinInt16 || q > math.MaxInt16 {
		return 0, &common.EncodingOverflowError{Field: "threshold_q8_8", Value: int64(q), Max: math.MaxInt16}
	}
	return int16(q), nil
}

// ToFloat converts a Q8.8 value back to a float64.
func ToFloat(q int16) float64 { return float64(q) / common.FixedScale }

// EncodeForest losslessly re-encodes every tree of a trained forest
// into the node layout above. Threshold quantization is the only
// information loss. Scale and offset default to identity when nil; when
// supplied they must have one entry per feature. No partially encoded
// forest is ever returned.
func EncodeForest(f *forest.Forest, scale, offset []int16) (*Forest, error) {
	return EncodeForestWithMetrics(f, scale, offset, nil)
}

// EncodeForestWithMetrics is EncodeForest with an optional metrics sink.
func EncodeForestWithMetrics(f *forest.Forest, scale, offset []int16, m MetricsInterface) (*Forest, error) {
	ef, err := encodeForest(f, scale, offset)
	if err != nil {
		if m != nil {
			m.EncodeFailuresInc()
		}
		return nil, err
	}
	if m != nil {
		var nodes int
		for i := range ef.Trees {
			nodes += len(ef.Trees[i].Nodes)
		}
		m.NodesEncodedAdd(nodes)
	}
	return ef, nil
}

func encodeForest(f *forest.Forest, scale, offset []int16) (*Forest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.NumClasses > common.MaxClasses {
		return nil, &common.EncodingOverflowError{Field: "n_classes", Value: int64(f.NumClasses), Max: common.MaxClasses}
	}
	if scale == nil {
		scale = identity(f.NumFeatures, common.FixedScale)
	}
	if offset == nil {
		offset = identity(f.NumFeatures, 0)
	}
	if len(scale) != f.NumFeatures {
		return nil, &common.InputShapeError{What: "feature_scale length", Want: f.NumFeatures, Got: len(scale)}
	}
	if len(offset) != f.NumFeatures {
		return nil, &common.InputShapeError{What: "feature_offset length", Want: f.NumFeatures, Got: len(offset)}
	}

	ef := &Forest{
		Trees:         make([]Tree, len(f.Trees)),
		NumFeatures:   f.NumFeatures,
		NumClasses:    f.NumClasses,
		FeatureScale:  scale,
		FeatureOffset: offset,
		FeatureNames:  f.FeatureNames,
		ClassNames:    f.ClassNames,
	}
	for ti := range f.Trees {
		et, err := encodeTree(&f.Trees[ti])
		if err != nil {
			return nil, err
		}
		ef.Trees[ti] = et
	}
	log.Debug().
		Int("trees", len(ef.Trees)).
		Int("features", ef.NumFeatures).
		Int("classes", ef.NumClasses).
		Msg("forest encoded")
	return ef, nil
}

func encodeTree(t *forest.Tree) (Tree, error) {
	nodes := make([]Node, len(t.Nodes))
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Leaf {
			// Children stay zero; firmware must not dereference them.
			nodes[i] = Node{Flag: common.LeafFlag | uint8(n.Class)}
			continue
		}
		if n.Feature > common.MaxFeatureIndex {
			return Tree{}, &common.EncodingOverflowError{Field: "feature_index", Value: int64(n.Feature), Max: common.MaxFeatureIndex}
		}
		if n.Left > common.MaxNodeIndex {
			return Tree{}, &common.EncodingOverflowError{Field: "left_child", Value: int64(n.Left), Max: common.MaxNodeIndex}
		}
		if n.Right > common.MaxNodeIndex {
			return Tree{}, &common.EncodingOverflowError{Field: "right_child", Value: int64(n.Right), Max: common.MaxNodeIndex}
		}
		q, err := ToFixed(n.Threshold)
		if err != nil {
			return Tree{}, err
		}
		nodes[i] = Node{
			FeatureIndex: uint8(n.Feature),
			Threshold:    q,
			Left:         uint8(n.Left),
			Right:        uint8(n.Right),
		}
	}
	return Tree{Nodes: nodes}, nil
}

func identity(n int, v int16) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = v
	}
	return out
}
