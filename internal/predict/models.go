// Biliscope - Social Video Analytics and Recommendation Engine
// Copyright 2026 Biliscope Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/biliscope/biliscope

package predict

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// regressor is one candidate model in the training panel.
type regressor interface {
	Name() string
	Fit(x [][]float64, y []float64) error
	Predict(row []float64) float64

	// Importances returns normalized per-feature importance weights, or
	// nil when the model does not expose them.
	Importances() []float64
}

const (
	modelRandomForest     = "random_forest"
	modelGradientBoosting = "gradient_boosting"
	modelLinear           = "linear_regression"
)

// trainingPanel returns the fixed candidate set, freshly seeded.
func trainingPanel(seed int64) []regressor {
	return []regressor{
		newRandomForest(seed),
		newGradientBoosting(seed),
		&linearRegression{},
	}
}

// linearRegression is ordinary least squares with an intercept term.
type linearRegression struct {
	weights []float64
	bias    float64
}

func (l *linearRegression) Name() string { return modelLinear }

func (l *linearRegression) Fit(x [][]float64, y []float64) error {
	rows, cols := len(x), len(x[0])

	// Design matrix with a leading ones column for the intercept.
	design := mat.NewDense(rows, cols+1, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(rows, y)

	var solution mat.VecDense
	if err := solution.SolveVec(design, target); err != nil {
		return err
	}

	l.bias = solution.AtVec(0)
	l.weights = make([]float64, cols)
	for j := range l.weights {
		l.weights[j] = solution.AtVec(j + 1)
	}
	return nil
}

func (l *linearRegression) Predict(row []float64) float64 {
	out := l.bias
	for j, w := range l.weights {
		out += w * row[j]
	}
	return out
}

func (l *linearRegression) Importances() []float64 { return nil }

// randomForest averages trees fit on bootstrap samples with per-split
// feature subsampling.
type randomForest struct {
	numTrees    int
	maxDepth    int
	minLeafSize int
	seed        int64

	trees       []*regressionTree
	importances []float64
}

func newRandomForest(seed int64) *randomForest {
	return &randomForest{
		numTrees:    100,
		maxDepth:    12,
		minLeafSize: 2,
		seed:        seed,
	}
}

func (f *randomForest) Name() string { return modelRandomForest }

func (f *randomForest) Fit(x [][]float64, y []float64) error {
	rng := rand.New(rand.NewSource(f.seed))
	numFeatures := len(x[0])
	maxFeatures := featureSubsetSize(numFeatures)

	f.trees = make([]*regressionTree, 0, f.numTrees)
	f.importances = make([]float64, numFeatures)

	bootX := make([][]float64, len(x))
	bootY := make([]float64, len(y))
	for range f.numTrees {
		for i := range bootX {
			j := rng.Intn(len(x))
			bootX[i] = x[j]
			bootY[i] = y[j]
		}

		tree := &regressionTree{
			maxDepth:    f.maxDepth,
			minLeafSize: f.minLeafSize,
			maxFeatures: maxFeatures,
		}
		tree.fit(bootX, bootY, rng)
		f.trees = append(f.trees, tree)

		for j, imp := range tree.importance {
			f.importances[j] += imp
		}
	}
	normalizeImportances(f.importances)
	return nil
}

func (f *randomForest) Predict(row []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

func (f *randomForest) Importances() []float64 { return f.importances }

// gradientBoosting fits shallow trees to the running residuals.
type gradientBoosting struct {
	numTrees     int
	maxDepth     int
	minLeafSize  int
	learningRate float64
	seed         int64

	base        float64
	trees       []*regressionTree
	importances []float64
}

func newGradientBoosting(seed int64) *gradientBoosting {
	return &gradientBoosting{
		numTrees:     100,
		maxDepth:     3,
		minLeafSize:  2,
		learningRate: 0.1,
		seed:         seed,
	}
}

func (g *gradientBoosting) Name() string { return modelGradientBoosting }

func (g *gradientBoosting) Fit(x [][]float64, y []float64) error {
	rng := rand.New(rand.NewSource(g.seed))
	numFeatures := len(x[0])

	var sum float64
	for _, v := range y {
		sum += v
	}
	g.base = sum / float64(len(y))

	residuals := make([]float64, len(y))
	current := make([]float64, len(y))
	for i := range current {
		current[i] = g.base
	}

	g.trees = make([]*regressionTree, 0, g.numTrees)
	g.importances = make([]float64, numFeatures)
	for range g.numTrees {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}

		tree := &regressionTree{
			maxDepth:    g.maxDepth,
			minLeafSize: g.minLeafSize,
		}
		tree.fit(x, residuals, rng)
		g.trees = append(g.trees, tree)

		for i, row := range x {
			current[i] += g.learningRate * tree.predict(row)
		}
		for j, imp := range tree.importance {
			g.importances[j] += imp
		}
	}
	normalizeImportances(g.importances)
	return nil
}

func (g *gradientBoosting) Predict(row []float64) float64 {
	out := g.base
	for _, tree := range g.trees {
		out += g.learningRate * tree.predict(row)
	}
	return out
}

func (g *gradientBoosting) Importances() []float64 { return g.importances }

// featureSubsetSize follows the usual sqrt heuristic, floored at 1.
func featureSubsetSize(numFeatures int) int {
	size := 1
	for size*size < numFeatures {
		size++
	}
	if size*size > numFeatures {
		size--
	}
	if size < 1 {
		size = 1
	}
	return size
}

func normalizeImportances(imp []float64) {
	var total float64
	for _, v := range imp {
		total += v
	}
	if total == 0 {
		return
	}
	for j := range imp {
		imp[j] /= total
	}
}
