package models

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Tree is one ensemble member: a stump fitted on a reduced column set and
// the original column index of every reduced column.
type Tree struct {
	Stump    Stump
	Features []int
}

// Predict maps x into the tree's reduced column space before asking the stump.
func (t *Tree) Predict(x []float64) (float64, error) {
	for _, f := range t.Features {
		if f >= len(x) {
			return 0, errors.Wrapf(ErrInvalidInput, "tree uses feature %d, input has %d", f, len(x))
		}
	}
	return t.Stump.Predict(reduceRow(x, t.Features))
}

// SplitFeature returns the original column the stump splits on.
func (t *Tree) SplitFeature() int {
	if !t.Stump.Fitted {
		return -1
	}
	return t.Features[t.Stump.Feature]
}

type RandomForest struct {
	NEstimators int
	// MaxDepth is kept for configuration compatibility. Every tree is a
	// single split regardless of its value.
	MaxDepth    int
	MaxFeatures int
	// Seed drives all sampling. Zero picks a time based seed per Fit.
	Seed      int64
	Workers   int
	NFeatures int
	Trees     []Tree

	logger *zap.Logger
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 50, MaxDepth: 1, MaxFeatures: 5, Workers: 1, Trees: []Tree{}}
}

func (rf *RandomForest) Name() string {
	if rf.MaxFeatures <= 0 {
		return "Bagging"
	}
	return "RandomForest"
}

func (rf *RandomForest) SetLogger(l *zap.Logger) { rf.logger = l }

func (rf *RandomForest) log() *zap.Logger {
	if rf.logger == nil {
		return zap.NewNop()
	}
	return rf.logger
}

// Fit replaces the ensemble with NEstimators stumps, each trained on its own
// bootstrap sample and column subset. Trees are fitted concurrently by up to
// Workers goroutines; per-tree seeds are drawn up front and trees are stored
// by index, so the result does not depend on the worker count. Any tree
// failure fails the whole fit and leaves the forest untrained.
func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	rf.Trees = nil
	rf.NFeatures = 0
	if err := validateTrainingSet(X, y); err != nil {
		return err
	}
	if rf.NEstimators < 1 {
		return errors.Wrapf(ErrInvalidInput, "tree count %d", rf.NEstimators)
	}
	seed := rf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := rf.Workers
	if workers < 1 {
		workers = 1
	}
	nFeats := len(X[0])
	logger := rf.log()
	logger.Info("training forest",
		zap.String("model", rf.Name()),
		zap.Int("trees", rf.NEstimators),
		zap.Int("rows", len(X)),
		zap.Int("features", nFeats),
		zap.Int("max_features", rf.MaxFeatures),
		zap.Int64("seed", seed),
		zap.Int("workers", workers),
	)

	seeds := treeSeeds(seed, rf.NEstimators)
	trees := make([]Tree, rf.NEstimators)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := range trees {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			t, err := fitTree(X, y, rf.MaxFeatures, rand.New(rand.NewSource(seeds[i])))
			if err != nil {
				return errors.Wrapf(err, "tree %d", i+1)
			}
			trees[i] = t
			logger.Debug("tree trained", zap.Int("tree", i+1), zap.Int("of", len(trees)), zap.Int("feature", t.SplitFeature()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	rf.NFeatures = nFeats
	logger.Info("forest trained", zap.Int("trees", len(trees)))
	return nil
}

func fitTree(X [][]float64, y []float64, maxFeatures int, rng *rand.Rand) (Tree, error) {
	Xb, yb := Gather(X, y, BootstrapIndices(len(X), rng))
	cols := SelectFeatures(len(X[0]), maxFeatures, rng)
	var s Stump
	if err := s.Fit(ReduceColumns(Xb, cols), yb); err != nil {
		return Tree{}, err
	}
	return Tree{Stump: s, Features: cols}, nil
}

func treeSeeds(seed int64, n int) []int64 {
	master := rand.New(rand.NewSource(seed))
	out := make([]int64, n)
	for i := range out {
		out[i] = master.Int63()
	}
	return out
}

// Votes returns every tree's output for x in training order.
func (rf *RandomForest) Votes(x []float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, errors.Wrap(ErrNotTrained, "empty ensemble")
	}
	out := make([]float64, len(rf.Trees))
	for i := range rf.Trees {
		v, err := rf.Trees[i].Predict(x)
		if err != nil {
			return nil, errors.Wrapf(err, "tree %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}

// Predict returns the majority vote of the ensemble for x.
func (rf *RandomForest) Predict(x []float64) (float64, error) {
	votes, err := rf.Votes(x)
	if err != nil {
		return 0, err
	}
	return MajorityVote(votes)
}

func (rf *RandomForest) PredictBatch(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range X {
		p, err := rf.Predict(X[i])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = p
	}
	return out, nil
}

// MajorityVote returns the most frequent value. Among values with the same
// count the one cast first wins.
func MajorityVote(votes []float64) (float64, error) {
	if len(votes) == 0 {
		return 0, errors.Wrap(ErrNotTrained, "no votes")
	}
	counts := make(map[float64]int, 2)
	for _, v := range votes {
		counts[v]++
	}
	best, bestCount := votes[0], 0
	for _, v := range votes {
		if c := counts[v]; c > bestCount {
			best, bestCount = v, c
		}
	}
	return best, nil
}
