package trainer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config fixes every hyperparameter of a discriminator run. It is set
// before the Runner is built and never changes afterwards; together with
// the dataset it fully determines model and training behavior. The input
// feature dimension is not part of it, it is derived from the data.
type Config struct {
	MaxEpochs    int     `yaml:"max_epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay"`

	ModelType string `yaml:"model_type"`
	NumLayers int    `yaml:"num_layers"`
	Hidden    int    `yaml:"hidden"`
	PoolType  string `yaml:"pool_type"`
	FuseType  string `yaml:"fuse_type"`

	Seed int64 `yaml:"seed"`
}

// DefaultConfig mirrors the reference hyperparameters for the benchmark
// datasets.
func DefaultConfig() Config {
	return Config{
		MaxEpochs:    320,
		BatchSize:    32,
		LearningRate: 1e-4,
		WeightDecay:  1e-4,
		ModelType:    "gmnet",
		NumLayers:    6,
		Hidden:       256,
		PoolType:     "sum",
		FuseType:     "abs_diff",
		Seed:         1,
	}
}

// LoadConfig reads a YAML file over the defaults, so a config file only
// needs the fields it overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("trainer: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("trainer: parsing %s: %w", path, err)
	}
	return cfg, nil
}
