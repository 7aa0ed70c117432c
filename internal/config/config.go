package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"rfcredit/internal/models"
)

const EnvPrefix = "RFCREDIT"

type Config struct {
	Trees        int     `mapstructure:"trees"`
	MaxDepth     int     `mapstructure:"max_depth"`
	MaxFeatures  int     `mapstructure:"max_features"`
	Seed         int64   `mapstructure:"seed"`
	Workers      int     `mapstructure:"workers"`
	Data         string  `mapstructure:"data"`
	Model        string  `mapstructure:"model"`
	Threshold    float64 `mapstructure:"threshold"`
	TestFraction float64 `mapstructure:"test_fraction"`
	CurveCSV     string  `mapstructure:"curve_csv"`
	CurveImg     string  `mapstructure:"curve_img"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("trees", 100)
	v.SetDefault("max_depth", 5)
	v.SetDefault("max_features", -1)
	v.SetDefault("seed", 0)
	v.SetDefault("workers", 1)
	v.SetDefault("data", "data/german_credit_data.csv")
	v.SetDefault("model", "models/rf_model.gob")
	v.SetDefault("threshold", 1.5)
	v.SetDefault("test_fraction", 0.0)
	v.SetDefault("curve_csv", "data/learning_curve.csv")
	v.SetDefault("curve_img", "data/learning_curve.png")
}

// Load resolves the configuration from defaults, an optional file and
// RFCREDIT_* environment variables, in increasing priority. Flags bound to v
// beforehand win over all of them.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var err error
	if c.Trees < 1 {
		err = multierr.Append(err, errors.Errorf("trees must be >= 1, got %d", c.Trees))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		err = multierr.Append(err, errors.New("threshold must be finite"))
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		err = multierr.Append(err, errors.Errorf("test_fraction must be in [0, 1), got %g", c.TestFraction))
	}
	return err
}

// Forest builds an untrained forest with the configured hyperparameters.
func (c Config) Forest() *models.RandomForest {
	rf := models.NewRandomForest()
	rf.NEstimators = c.Trees
	rf.MaxDepth = c.MaxDepth
	rf.MaxFeatures = c.MaxFeatures
	rf.Seed = c.Seed
	rf.Workers = c.Workers
	return rf
}
