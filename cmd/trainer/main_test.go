package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rfcredit/internal/models"
)

func run(args ...string) error {
	cmd := newRootCmd(zap.NewNop())
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestGenerateTrainEvaluate(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "credit.csv")
	modelPath := filepath.Join(dir, "models", "rf.gob")

	require.NoError(t, run("generate", "--n", "200", "--out", csvPath, "--gen_seed", "4"))
	require.NoError(t, run("train", "--data", csvPath, "--model", modelPath, "--trees", "9", "--max_features", "3", "--seed", "6", "--test_fraction", "0.2"))

	b, err := models.LoadBundle(modelPath)
	require.NoError(t, err)
	assert.Len(t, b.Forest.Trees, 9)
	require.NotNil(t, b.Encoder)

	require.NoError(t, run("evaluate", "--data", csvPath, "--model", modelPath))
}

func TestEvaluateRejectsBundleWithoutEncoder(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "credit.csv")
	modelPath := filepath.Join(dir, "rf.gob")
	require.NoError(t, run("generate", "--n", "20", "--out", csvPath, "--gen_seed", "2"))

	rf := models.NewBagging()
	rf.NEstimators = 2
	rf.Seed = 1
	require.NoError(t, rf.Fit([][]float64{{0}, {1}, {2}, {3}}, []float64{1, 1, 2, 2}))
	require.NoError(t, models.SaveBundle(modelPath, &models.Bundle{Forest: rf, Threshold: 1.5}))

	err := run("evaluate", "--data", csvPath, "--model", modelPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no encoder")
}
