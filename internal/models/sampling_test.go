package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{1, 2, 17, 200} {
		idx := BootstrapIndices(n, rng)
		require.Len(t, idx, n)
		for _, i := range idx {
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, n)
		}
	}
}

func TestGatherKeepsRowsAligned(t *testing.T) {
	X := [][]float64{{0}, {10}, {20}}
	y := []float64{0, 1, 2}
	Xb, yb := Gather(X, y, []int{2, 2, 0})
	assert.Equal(t, [][]float64{{20}, {20}, {0}}, Xb)
	assert.Equal(t, []float64{2, 2, 0}, yb)
}

func TestSelectFeatures(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	assert.Equal(t, []int{0, 1, 2, 3}, SelectFeatures(4, -1, rng))
	assert.Equal(t, []int{0, 1, 2, 3}, SelectFeatures(4, 0, rng))

	cols := SelectFeatures(10, 4, rng)
	require.Len(t, cols, 4)
	seen := map[int]bool{}
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %d", c)
		seen[c] = true
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, 10)
	}

	cols = SelectFeatures(3, 8, rng)
	assert.ElementsMatch(t, []int{0, 1, 2}, cols)
}

func TestReduceColumns(t *testing.T) {
	X := [][]float64{{1, 2, 3}, {4, 5, 6}}
	out := ReduceColumns(X, []int{2, 0})
	assert.Equal(t, [][]float64{{3, 1}, {6, 4}}, out)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, X)
}
