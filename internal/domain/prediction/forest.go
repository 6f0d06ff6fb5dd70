package prediction

import (
	"math/rand"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// BAGGED-TREE SECTOR CLASSIFIER
// ══════════════════════════════════════════════════════════════════════════════
//
// A small bagging ensemble of depth-limited decision trees, fitted per run on
// the synthetic sector labels. Cohorts here are tens of students at most, so
// shallow trees and a fixed tree count are plenty; the ensemble's only job is
// to smooth the rule-derived labels, not to learn an independent signal.

const (
	// numTrees matches the ensemble size of the source behaviour.
	numTrees = 50

	// maxTreeDepth bounds each tree; with six features and tiny cohorts
	// deeper trees only memorize the bootstrap sample.
	maxTreeDepth = 3

	// minSplitSize is the smallest node the builder will split.
	minSplitSize = 2
)

// treeNode is one node of a classification tree. Leaves carry label >= 0.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	label     int
}

// forest is the fitted ensemble.
type forest struct {
	trees []*treeNode
}

// fitForest trains the ensemble on bootstrap samples drawn from rng.
func fitForest(inputs [][]float64, labels []int, rng *rand.Rand) *forest {
	f := &forest{trees: make([]*treeNode, 0, numTrees)}
	n := len(inputs)

	for t := 0; t < numTrees; t++ {
		sampleX := make([][]float64, n)
		sampleY := make([]int, n)
		for i := 0; i < n; i++ {
			idx := rng.Intn(n)
			sampleX[i] = inputs[idx]
			sampleY[i] = labels[idx]
		}
		f.trees = append(f.trees, buildTree(sampleX, sampleY, 0, rng))
	}
	return f
}

// predict returns the majority vote across trees; ties break toward the
// lower class label.
func (f *forest) predict(input []float64) int {
	votes := make(map[int]int)
	for _, tree := range f.trees {
		votes[tree.classify(input)]++
	}

	best, bestCount := 0, -1
	classes := make([]int, 0, len(votes))
	for c := range votes {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	for _, c := range classes {
		if votes[c] > bestCount {
			best, bestCount = c, votes[c]
		}
	}
	return best
}

func (n *treeNode) classify(input []float64) int {
	if n.left == nil {
		return n.label
	}
	if input[n.feature] <= n.threshold {
		return n.left.classify(input)
	}
	return n.right.classify(input)
}

// buildTree grows a tree greedily by Gini impurity. Feature candidates are
// subsampled per node, which is what decorrelates the bagged trees.
func buildTree(inputs [][]float64, labels []int, depth int, rng *rand.Rand) *treeNode {
	if depth >= maxTreeDepth || len(labels) < minSplitSize || pure(labels) {
		return &treeNode{label: majority(labels)}
	}

	feature, threshold, ok := bestSplit(inputs, labels, rng)
	if !ok {
		return &treeNode{label: majority(labels)}
	}

	var leftX, rightX [][]float64
	var leftY, rightY []int
	for i, row := range inputs {
		if row[feature] <= threshold {
			leftX = append(leftX, row)
			leftY = append(leftY, labels[i])
		} else {
			rightX = append(rightX, row)
			rightY = append(rightY, labels[i])
		}
	}
	if len(leftY) == 0 || len(rightY) == 0 {
		return &treeNode{label: majority(labels)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(leftX, leftY, depth+1, rng),
		right:     buildTree(rightX, rightY, depth+1, rng),
	}
}

// bestSplit searches a random subset of features for the split with the
// lowest weighted Gini impurity.
func bestSplit(inputs [][]float64, labels []int, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	numFeatures := len(inputs[0])
	candidates := rng.Perm(numFeatures)
	// ceil(sqrt) of six features is three candidates per node.
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	bestGini := 2.0
	for _, f := range candidates {
		values := make([]float64, 0, len(inputs))
		for _, row := range inputs {
			values = append(values, row[f])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			th := (values[i] + values[i-1]) / 2
			g := splitGini(inputs, labels, f, th)
			if g < bestGini {
				bestGini, feature, threshold, ok = g, f, th, true
			}
		}
	}
	return feature, threshold, ok
}

func splitGini(inputs [][]float64, labels []int, feature int, threshold float64) float64 {
	leftCounts := make(map[int]int)
	rightCounts := make(map[int]int)
	leftN, rightN := 0, 0
	for i, row := range inputs {
		if row[feature] <= threshold {
			leftCounts[labels[i]]++
			leftN++
		} else {
			rightCounts[labels[i]]++
			rightN++
		}
	}
	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftCounts, leftN) +
		float64(rightN)/total*gini(rightCounts, rightN)
}

func gini(counts map[int]int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

func pure(labels []int) bool {
	for _, l := range labels {
		if l != labels[0] {
			return false
		}
	}
	return true
}

func majority(labels []int) int {
	if len(labels) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	best, bestCount := 0, -1
	for _, c := range classes {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}
