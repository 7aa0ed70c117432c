package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

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

	if err := newCmd(logger).Execute(); err != nil {
		logger.Error("analyzer failed", zap.Error(err))
		os.Exit(1)
	}
}

func newCmd(logger *zap.Logger) *cobra.Command {
	v := viper.New()
	var cfgFile string
	var points, minSize int
	var useLog bool
	cmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Plot a learning curve for the forest over growing training sizes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			if cfg.TestFraction <= 0 {
				cfg.TestFraction = 0.2
			}
			t, err := data.LoadTable(cfg.Data)
			if err != nil {
				return err
			}
			enc := features.NewEncoder()
			X, y, rep, err := enc.FitTransform(t.Header, t.Rows)
			if err != nil {
				return err
			}
			logger.Info("data loaded", zap.String("path", cfg.Data), zap.Int("rows", rep.Rows))

			seed := cfg.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			Xtrain, ytrain, Xtest, ytest := evaluation.TrainTestSplit(X, y, cfg.TestFraction, rand.New(rand.NewSource(seed)))
			sizes := evaluation.CurveSizes(len(Xtrain), points, minSize, useLog)
			curve, err := evaluation.LearningCurve(func() models.Model { return cfg.Forest() }, Xtrain, ytrain, Xtest, ytest, sizes, cfg.Threshold)
			if err != nil {
				return err
			}
			for _, p := range curve {
				fmt.Printf("size=%d | train=%.3f | test=%.3f | f1=%.3f\n", p.Size, p.TrainAcc, p.TestAcc, p.TestF1)
			}
			if err := evaluation.WriteCurveCSV(cfg.CurveCSV, curve); err != nil {
				logger.Warn("failed to write curve csv", zap.Error(err))
			}
			if err := evaluation.PlotCurvePNG(cfg.CurveImg, curve); err != nil {
				logger.Warn("failed to write curve png", zap.Error(err))
			} else {
				logger.Info("learning curve written", zap.String("png", cfg.CurveImg), zap.String("csv", cfg.CurveCSV))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	f.String("data", "", "CSV dataset, last column is the label")
	f.Int("trees", 0, "Number of trees")
	f.Int("max_features", 0, "Features per tree, -1 for all")
	f.Int64("seed", 0, "Random seed, 0 for time based")
	f.Int("workers", 0, "Trees fitted concurrently")
	f.Float64("test_fraction", 0, "Fraction of each class held out, default 0.2")
	f.String("curve_csv", "", "Curve CSV output")
	f.String("curve_img", "", "Curve PNG output")
	for _, name := range []string{"data", "trees", "max_features", "seed", "workers", "test_fraction", "curve_csv", "curve_img"} {
		_ = v.BindPFlag(name, f.Lookup(name))
	}
	f.IntVar(&points, "points", 8, "Points on the curve")
	f.IntVar(&minSize, "min", 50, "Smallest training size")
	f.BoolVar(&useLog, "log", true, "Space sizes geometrically")
	return cmd
}
