package models

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfcredit/internal/features"
)

func TestBundleSaveLoad(t *testing.T) {
	header := []string{"amount", "housing", "class"}
	rows := [][]string{
		{"100", "own", "1"},
		{"200", "rent", "1"},
		{"900", "free", "2"},
		{"950", "rent", "2"},
		{"120", "own", "1"},
		{"870", "free", "2"},
	}
	enc := features.NewEncoder()
	X, y, _, err := enc.FitTransform(header, rows)
	require.NoError(t, err)

	rf := NewBagging()
	rf.NEstimators = 7
	rf.Seed = 21
	require.NoError(t, rf.Fit(X, y))

	path := filepath.Join(t.TempDir(), "models", "rf.gob")
	require.NoError(t, SaveBundle(path, &Bundle{Forest: rf, Encoder: enc, Threshold: 1.5}))

	b, err := LoadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, rf.Trees, b.Forest.Trees)
	assert.Equal(t, 1.5, b.Threshold)
	assert.Equal(t, enc.Categories, b.Encoder.Categories)

	for i := range X {
		want, err := rf.Predict(X[i])
		require.NoError(t, err)
		v, err := b.Encoder.Vectorize(rows[i][:2])
		require.NoError(t, err)
		got, err := b.Forest.Predict(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBundleRejectsUntrainedForest(t *testing.T) {
	var buf bytes.Buffer
	err := (&Bundle{Forest: NewRandomForest()}).Encode(&buf)
	assert.True(t, errors.Is(err, ErrNotTrained))
}
