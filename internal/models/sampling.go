package models

import "math/rand"

// BootstrapIndices draws n row indices uniformly from [0, n) with replacement.
func BootstrapIndices(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = rng.Intn(n)
	}
	return idx
}

// Gather builds the resampled training set addressed by idx. Rows are shared
// with X, not copied.
func Gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	Xb := make([][]float64, len(idx))
	yb := make([]float64, len(idx))
	for i, j := range idx {
		Xb[i] = X[j]
		yb[i] = y[j]
	}
	return Xb, yb
}

// SelectFeatures picks the columns a tree is allowed to see. k <= 0 keeps all
// nFeats columns in their original order; otherwise min(k, nFeats) distinct
// columns are drawn without replacement.
func SelectFeatures(nFeats, k int, rng *rand.Rand) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if k <= 0 {
		return idx
	}
	if k > nFeats {
		k = nFeats
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(nFeats-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := make([]int, k)
	copy(out, idx[:k])
	return out
}

// ReduceColumns returns a copy of X holding only cols, in cols order.
func ReduceColumns(X [][]float64, cols []int) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = reduceRow(X[i], cols)
	}
	return out
}

func reduceRow(x []float64, cols []int) []float64 {
	row := make([]float64, len(cols))
	for j, c := range cols {
		row[j] = x[c]
	}
	return row
}
