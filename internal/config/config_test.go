package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 100, c.Trees)
	assert.Equal(t, 5, c.MaxDepth)
	assert.Equal(t, -1, c.MaxFeatures)
	assert.Equal(t, 1.5, c.Threshold)
	assert.Equal(t, "models/rf_model.gob", c.Model)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trees: 20\nmax_features: 3\nseed: 7\n"), 0o644))
	t.Setenv("RFCREDIT_MAX_FEATURES", "4")

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Trees)
	assert.Equal(t, 4, c.MaxFeatures)
	assert.Equal(t, int64(7), c.Seed)

	rf := c.Forest()
	assert.Equal(t, 20, rf.NEstimators)
	assert.Equal(t, 4, rf.MaxFeatures)
	assert.Equal(t, int64(7), rf.Seed)
	assert.Empty(t, rf.Trees)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	c := Config{Trees: 0, Workers: -1, Threshold: 1.5, TestFraction: 1}
	err := c.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)

	c = Config{Trees: 1, Threshold: 1.5}
	assert.NoError(t, c.Validate())
}
