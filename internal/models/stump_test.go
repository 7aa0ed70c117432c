package models

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStumpFitSeparatesClasses(t *testing.T) {
	X := [][]float64{{0.1}, {0.2}, {0.9}, {0.95}}
	y := []float64{1, 1, 2, 2}

	s := NewStump()
	require.NoError(t, s.Fit(X, y))
	assert.True(t, s.Fitted)
	assert.Equal(t, 0, s.Feature)
	assert.InDelta(t, 0.55, s.Threshold, 1e-12)
	assert.Equal(t, 1.0, s.LeftValue)
	assert.Equal(t, 2.0, s.RightValue)

	p, err := s.Predict([]float64{0.15})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
	p, err = s.Predict([]float64{0.92})
	require.NoError(t, err)
	assert.Equal(t, 2.0, p)
	p, err = s.Predict([]float64{0.55})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestStumpPicksLowestErrorColumn(t *testing.T) {
	// column 0 is noise, column 1 separates the labels perfectly
	X := [][]float64{
		{5, 1},
		{1, 2},
		{4, 10},
		{2, 11},
	}
	y := []float64{3, 3, 7, 7}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.Equal(t, 1, s.Feature)
	assert.InDelta(t, 6.0, s.Threshold, 1e-12)
	assert.Equal(t, 3.0, s.LeftValue)
	assert.Equal(t, 7.0, s.RightValue)
}

func TestStumpLeafValuesAreMeans(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}}
	y := []float64{1, 2, 3, 20, 22}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.InDelta(t, 6.5, s.Threshold, 1e-12)
	assert.InDelta(t, 2.0, s.LeftValue, 1e-12)
	assert.InDelta(t, 21.0, s.RightValue, 1e-12)
}

func TestStumpTieKeepsEarlierColumn(t *testing.T) {
	// both columns give a perfect split
	X := [][]float64{{0, 10}, {1, 11}, {2, 12}, {3, 13}}
	y := []float64{1, 1, 2, 2}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.Equal(t, 0, s.Feature)
	assert.InDelta(t, 1.5, s.Threshold, 1e-12)
}

func TestStumpNoSplitBetweenEqualValues(t *testing.T) {
	X := [][]float64{{1}, {1}, {1}, {2}}
	y := []float64{1, 2, 1, 2}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.InDelta(t, 1.5, s.Threshold, 1e-12)
	assert.InDelta(t, 4.0/3.0, s.LeftValue, 1e-12)
	assert.Equal(t, 2.0, s.RightValue)
}

func TestStumpThresholdBetweenDistinctValues(t *testing.T) {
	X := [][]float64{{3, 0.5}, {1, 0.5}, {4, 0.5}, {1, 0.5}, {5, 0.5}, {9, 0.5}}
	y := []float64{1, 2, 1, 2, 1, 1}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.Equal(t, 0, s.Feature)
	assert.Greater(t, s.Threshold, 1.0)
	assert.Less(t, s.Threshold, 3.0)
	assert.Equal(t, 2.0, s.LeftValue)
	assert.Equal(t, 1.0, s.RightValue)
}

func TestStumpConstantColumnsFail(t *testing.T) {
	cases := map[string][][]float64{
		"single row": {{1, 2}},
		"constant":   {{1, 2}, {1, 2}, {1, 2}},
	}
	for name, X := range cases {
		t.Run(name, func(t *testing.T) {
			y := make([]float64, len(X))
			var s Stump
			err := s.Fit(X, y)
			assert.True(t, errors.Is(err, ErrNoValidSplit), "got %v", err)
			assert.False(t, s.Fitted)

			_, err = s.Predict([]float64{1, 2})
			assert.True(t, errors.Is(err, ErrNotTrained))
		})
	}
}

func TestStumpInvalidInput(t *testing.T) {
	var s Stump
	assert.True(t, errors.Is(s.Fit(nil, nil), ErrInvalidInput))
	assert.True(t, errors.Is(s.Fit([][]float64{{1}, {2}}, []float64{1}), ErrInvalidInput))
	assert.True(t, errors.Is(s.Fit([][]float64{{1}, {2, 3}}, []float64{1, 2}), ErrInvalidInput))
}

func TestStumpFitsOnce(t *testing.T) {
	var s Stump
	require.NoError(t, s.Fit([][]float64{{0}, {1}}, []float64{1, 2}))
	before := s
	assert.Error(t, s.Fit([][]float64{{5}, {6}}, []float64{3, 4}))
	assert.Equal(t, before, s)
}

func TestStumpPredictShortInput(t *testing.T) {
	s := Stump{Fitted: true, Feature: 2, Threshold: 0.5, LeftValue: 1, RightValue: 2}
	_, err := s.Predict([]float64{0.1})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestStumpTieKeepsEarlierPosition(t *testing.T) {
	// boundaries after the first and after the fourth row both give error 12
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{0, 4, 4, 4, 0}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.Equal(t, 1.5, s.Threshold)
	assert.Equal(t, 0.0, s.LeftValue)
	assert.Equal(t, 3.0, s.RightValue)
}

func TestStumpLargeMagnitudeThreshold(t *testing.T) {
	X := [][]float64{{1e308}, {1e308}, {1.5e308}, {1.5e308}}
	y := []float64{1, 1, 2, 2}

	var s Stump
	require.NoError(t, s.Fit(X, y))
	assert.False(t, math.IsInf(s.Threshold, 0))
	assert.GreaterOrEqual(t, s.Threshold, 1e308)
	assert.Less(t, s.Threshold, 1.5e308)
	for i := range X {
		p, err := s.Predict(X[i])
		require.NoError(t, err)
		assert.Equal(t, y[i], p, "row %d", i)
	}
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, 0.5, midpoint(0, 1))
	assert.InEpsilon(t, 1.25e308, midpoint(1e308, 1.5e308), 1e-12)
	next := math.Nextafter(1, 2)
	assert.Equal(t, 1.0, midpoint(1, next))
	assert.Equal(t, 0.0, midpoint(-math.MaxFloat64, math.MaxFloat64))
}
