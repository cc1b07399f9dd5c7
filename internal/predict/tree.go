// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package predict

import (
	"math/rand"
	"sort"
)

// regressionTree is a CART tree fit by variance reduction. It is the
// shared building block of the forest and boosting regressors.
type regressionTree struct {
	maxDepth    int
	minLeafSize int

	// maxFeatures caps the features considered per split; <= 0 means
	// all features. Subsampling uses the provided rng for determinism.
	maxFeatures int

	root *treeNode

	// importance accumulates per-feature weighted variance reduction.
	importance []float64
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// fit grows the tree on the given rows. rng drives feature subsampling
// and may be nil when maxFeatures is unlimited.
func (t *regressionTree) fit(x [][]float64, y []float64, rng *rand.Rand) {
	t.importance = make([]float64, len(x[0]))
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(x, y, idx, 0, rng)
}

func (t *regressionTree) grow(x [][]float64, y []float64, idx []int, depth int, rng *rand.Rand) *treeNode {
	if len(idx) <= t.minLeafSize || depth >= t.maxDepth || constantTarget(y, idx) {
		return &treeNode{leaf: true, value: mean(y, idx)}
	}

	feature, threshold, gain := t.bestSplit(x, y, idx, rng)
	if feature < 0 {
		return &treeNode{leaf: true, value: mean(y, idx)}
	}
	t.importance[feature] += gain * float64(len(idx))

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: mean(y, idx)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(x, y, left, depth+1, rng),
		right:     t.grow(x, y, right, depth+1, rng),
	}
}

// bestSplit searches candidate thresholds for the variance-minimizing
// split. Returns feature -1 when no split improves on the parent.
func (t *regressionTree) bestSplit(x [][]float64, y []float64, idx []int, rng *rand.Rand) (int, float64, float64) {
	numFeatures := len(x[0])
	features := candidateFeatures(numFeatures, t.maxFeatures, rng)

	parentVar := variance(y, idx)
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		// Prefix sums over the sorted order allow O(1) variance per cut.
		n := len(sorted)
		prefixSum := make([]float64, n+1)
		prefixSq := make([]float64, n+1)
		for i, row := range sorted {
			prefixSum[i+1] = prefixSum[i] + y[row]
			prefixSq[i+1] = prefixSq[i] + y[row]*y[row]
		}

		for i := 1; i < n; i++ {
			if x[sorted[i]][f] == x[sorted[i-1]][f] {
				continue
			}
			leftN, rightN := float64(i), float64(n-i)
			leftVar := prefixSq[i]/leftN - (prefixSum[i]/leftN)*(prefixSum[i]/leftN)
			rightSum := prefixSum[n] - prefixSum[i]
			rightVar := (prefixSq[n]-prefixSq[i])/rightN - (rightSum/rightN)*(rightSum/rightN)

			gain := parentVar - (leftN*leftVar+rightN*rightVar)/float64(n)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (x[sorted[i]][f] + x[sorted[i-1]][f]) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// predict walks the tree for one row.
func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// candidateFeatures returns the feature indices considered for a split.
func candidateFeatures(numFeatures, maxFeatures int, rng *rand.Rand) []int {
	all := make([]int, numFeatures)
	for i := range all {
		all[i] = i
	}
	if maxFeatures <= 0 || maxFeatures >= numFeatures || rng == nil {
		return all
	}
	rng.Shuffle(numFeatures, func(i, j int) { all[i], all[j] = all[j], all[i] })
	subset := all[:maxFeatures]
	sort.Ints(subset)
	return subset
}

func mean(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func variance(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	m := mean(y, idx)
	var sum float64
	for _, i := range idx {
		diff := y[i] - m
		sum += diff * diff
	}
	return sum / float64(len(idx))
}

func constantTarget(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}
