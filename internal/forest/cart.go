package forest

import (
	"math"
	"math/rand"
	"sort"
)

// treeBuilder grows one CART tree on a bootstrap sample. Split quality
// is Gini impurity; each split draws a sqrt-sized random feature
// subset, the standard bagging decorrelation rule.
type treeBuilder struct {
	x          [][]float64
	y          []int
	numClasses int
	cfg        Config
	rng        *rand.Rand
	nodes      []Node
	importance []float64 // summed impurity decrease per feature
}

func newTreeBuilder(x [][]float64, y []int, numClasses int, cfg Config, rng *rand.Rand) *treeBuilder {
	return &treeBuilder{
		x:          x,
		y:          y,
		numClasses: numClasses,
		cfg:        cfg,
		rng:        rng,
		importance: make([]float64, len(x[0])),
	}
}

// grow builds the tree for the given sample indices and returns it with
// the root at node 0.
func (b *treeBuilder) grow(indices []int) Tree {
	b.nodes = b.nodes[:0]
	b.build(indices, 0)
	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	return Tree{Nodes: nodes}
}

// build appends the subtree for indices and returns its root index.
func (b *treeBuilder) build(indices []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: NoChild, Right: NoChild})

	counts := b.classCounts(indices)
	if depth >= b.cfg.MaxDepth || len(indices) < b.cfg.MinSamplesSplit || isPure(counts) {
		b.nodes[idx] = leafNode(counts)
		return idx
	}

	feature, threshold, gain, ok := b.bestSplit(indices, counts)
	if !ok {
		b.nodes[idx] = leafNode(counts)
		return idx
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.cfg.MinSamplesLeaf || len(right) < b.cfg.MinSamplesLeaf {
		b.nodes[idx] = leafNode(counts)
		return idx
	}

	b.importance[feature] += float64(len(indices)) / float64(len(b.y)) * gain

	leftIdx := b.build(left, depth+1)
	rightIdx := b.build(right, depth+1)
	b.nodes[idx] = Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      leftIdx,
		Right:     rightIdx,
	}
	return idx
}

// bestSplit scans a random sqrt-sized feature subset for the threshold
// with the largest Gini impurity decrease. Candidate thresholds are
// midpoints between consecutive distinct sorted values, so sample order
// never influences the result.
func (b *treeBuilder) bestSplit(indices []int, parentCounts []int) (feature int, threshold, gain float64, ok bool) {
	numFeatures := len(b.x[0])
	k := int(math.Round(math.Sqrt(float64(numFeatures))))
	if k < 1 {
		k = 1
	}
	candidates := b.rng.Perm(numFeatures)[:k]
	sort.Ints(candidates)

	parentGini := gini(parentCounts, len(indices))
	bestGain := 0.0
	found := false

	sorted := make([]int, len(indices))
	leftCounts := make([]int, b.numClasses)
	rightCounts := make([]int, b.numClasses)

	for _, f := range candidates {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, c int) bool { return b.x[sorted[a]][f] < b.x[sorted[c]][f] })

		for c := range leftCounts {
			leftCounts[c] = 0
		}
		copy(rightCounts, parentCounts)

		for i := 0; i < len(sorted)-1; i++ {
			cls := b.y[sorted[i]]
			leftCounts[cls]++
			rightCounts[cls]--

			v, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if v == next {
				continue
			}
			nLeft, nRight := i+1, len(sorted)-i-1
			if nLeft < b.cfg.MinSamplesLeaf || nRight < b.cfg.MinSamplesLeaf {
				continue
			}
			weighted := (float64(nLeft)*gini(leftCounts, nLeft) +
				float64(nRight)*gini(rightCounts, nRight)) / float64(len(sorted))
			if g := parentGini - weighted; g > bestGain {
				bestGain = g
				feature = f
				threshold = (v + next) / 2
				found = true
			}
		}
	}
	return feature, threshold, bestGain, found
}

func (b *treeBuilder) classCounts(indices []int) []int {
	counts := make([]int, b.numClasses)
	for _, i := range indices {
		counts[b.y[i]]++
	}
	return counts
}

func leafNode(counts []int) Node {
	best := 0
	for c, n := range counts {
		if n > counts[best] {
			best = c
		}
	}
	return Node{Left: NoChild, Right: NoChild, Class: best, Leaf: true}
}

func isPure(counts []int) bool {
	seen := 0
	for _, n := range counts {
		if n > 0 {
			seen++
		}
	}
	return seen <= 1
}

func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		g -= p * p
	}
	return g
}
