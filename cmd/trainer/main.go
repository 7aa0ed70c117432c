package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"rfcredit/internal/config"
	"rfcredit/internal/data"
	"rfcredit/internal/evaluation"
	"rfcredit/internal/features"
	"rfcredit/internal/models"
	"rfcredit/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	v := viper.New()
	var cfgFile string
	root := &cobra.Command{
		Use:           "trainer",
		Short:         "Train and evaluate a random forest of decision stumps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("data", "", "CSV dataset, last column is the label")
	pf.String("model", "", "Model bundle path")
	pf.Int("trees", 0, "Number of trees")
	pf.Int("max_depth", 0, "Maximum tree depth (accepted, every tree is a single split)")
	pf.Int("max_features", 0, "Features per tree, -1 for all")
	pf.Int64("seed", 0, "Random seed, 0 for time based")
	pf.Int("workers", 0, "Trees fitted concurrently")
	pf.Float64("threshold", 0, "Cut between class 1 and class 2 on the raw vote")
	pf.Float64("test_fraction", 0, "Fraction of each class held out for testing")
	for _, name := range []string{"data", "model", "trees", "max_depth", "max_features", "seed", "workers", "threshold", "test_fraction"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	load := func() (config.Config, error) { return config.Load(v, cfgFile) }
	root.AddCommand(
		newGenerateCmd(logger),
		newTrainCmd(logger, load),
		newEvaluateCmd(logger, load),
	)
	return root
}

func newGenerateCmd(logger *zap.Logger) *cobra.Command {
	var n int
	var out string
	var seed int64
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic credit dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("generating synthetic dataset", zap.Int("n", n), zap.String("out", out))
			return data.GenerateSyntheticCredit(n, out, seed)
		},
	}
	cmd.Flags().IntVar(&n, "n", 1000, "Number of records")
	cmd.Flags().StringVar(&out, "out", "data/german_credit_data.csv", "Output CSV")
	cmd.Flags().Int64Var(&seed, "gen_seed", 0, "Generator seed, 0 for time based")
	return cmd
}

func newTrainCmd(logger *zap.Logger, load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train a forest on the dataset and save the model bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			enc := features.NewEncoder()
			enc.SetLogger(logger)
			X, y, err := loadDataset(logger, cfg.Data, enc, true)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(splitSeed(cfg.Seed)))
			Xtrain, ytrain, Xtest, ytest := evaluation.TrainTestSplit(X, y, cfg.TestFraction, rng)
			logger.Info("split dataset", zap.Int("train", len(Xtrain)), zap.Int("test", len(Xtest)))

			rf := cfg.Forest()
			rf.SetLogger(logger)
			start := time.Now()
			if err := rf.Fit(Xtrain, ytrain); err != nil {
				return err
			}
			logger.Info("training completed", zap.String("model", rf.Name()), zap.Duration("elapsed", time.Since(start)))

			Xeval, yeval := Xtest, ytest
			if len(Xeval) == 0 {
				Xeval, yeval = Xtrain, ytrain
			}
			rep, err := evaluation.Evaluate(rf, Xeval, yeval, cfg.Threshold)
			if err != nil {
				return err
			}
			logReport(logger, rf.Name(), rep, cfg.Threshold)

			b := &models.Bundle{Forest: rf, Encoder: enc, Threshold: cfg.Threshold}
			if err := models.SaveBundle(cfg.Model, b); err != nil {
				return err
			}
			logger.Info("model saved", zap.String("path", cfg.Model))
			fmt.Println("Model:", rf.Name())
			return nil
		},
	}
}

func newEvaluateCmd(logger *zap.Logger, load func() (config.Config, error)) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a saved model against a labelled dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			b, err := models.LoadBundle(cfg.Model)
			if err != nil {
				return err
			}
			if b.Encoder == nil {
				return errors.Errorf("model %s has no encoder", cfg.Model)
			}
			b.Encoder.SetLogger(logger)
			X, y, err := loadDataset(logger, cfg.Data, b.Encoder, false)
			if err != nil {
				return err
			}
			cut := b.Threshold
			if cmd.Flags().Changed("threshold") {
				cut = cfg.Threshold
			}
			rep, err := evaluation.Evaluate(b.Forest, X, y, cut)
			if err != nil {
				return err
			}
			if verbose {
				for _, r := range rep.Rows {
					result := "Incorrect"
					if r.Correct {
						result = "Correct"
					}
					fmt.Printf("Row %d: raw=%.4f classified=%g actual=%g %s\n", r.Index+1, r.Raw, r.Classified, r.Actual, result)
				}
			}
			logReport(logger, b.Forest.Name(), rep, cut)
			fmt.Printf("Accuracy: %.2f%%\n", rep.Accuracy*100)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every row")
	return cmd
}

// loadDataset reads path and encodes it, fitting enc first when fit is set.
func loadDataset(logger *zap.Logger, path string, enc *features.Encoder, fit bool) ([][]float64, []float64, error) {
	t, err := data.LoadTable(path)
	if err != nil {
		return nil, nil, err
	}
	if fit {
		if err := enc.Fit(t.Header, t.Rows); err != nil {
			return nil, nil, err
		}
	}
	X, y, rep, err := enc.Transform(t.Rows)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("data loaded",
		zap.String("path", path),
		zap.Int("rows", rep.Rows),
		zap.Int("features", enc.NFeatures),
		zap.Int("skipped_columns", rep.SkippedColumns),
		zap.Int("skipped_labels", rep.SkippedLabels),
	)
	return X, y, nil
}

func logReport(logger *zap.Logger, name string, rep *evaluation.Report, cut float64) {
	logger.Info("evaluation",
		zap.String("model", name),
		zap.Int("rows", len(rep.Rows)),
		zap.Float64("accuracy", rep.Accuracy),
		zap.Float64("precision", rep.Precision),
		zap.Float64("recall", rep.Recall),
		zap.Float64("f1", rep.F1),
		zap.Float64("raw_mean", rep.RawMean),
		zap.Float64("raw_std", rep.RawStd),
		zap.Float64("threshold", cut),
	)
}

func splitSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
