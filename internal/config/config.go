// Package config loads the digitbench YAML configuration and turns it into
// dataset, trainer and model-list settings.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/digitbench/internal/dataset"
	"github.com/born-ml/digitbench/internal/experiment"
	"github.com/born-ml/digitbench/internal/model"
	"github.com/born-ml/digitbench/internal/output"
	"github.com/born-ml/digitbench/internal/trainer"
)

// EnvLogLevel overrides log_level when set.
const EnvLogLevel = "DIGITBENCH_LOG_LEVEL"

// Config represents the full configuration of a benchmark run.
type Config struct {
	DataDir        string `yaml:"data_dir"`
	ValidationSize int    `yaml:"validation_size"`
	// MaxSamples caps the train and test splits for quick runs (0 = all).
	MaxSamples int `yaml:"max_samples"`

	BatchSize    int     `yaml:"batch_size"`
	Epochs       int     `yaml:"epochs"`
	Attempts     int     `yaml:"attempts"`
	LearningRate float32 `yaml:"learning_rate"`
	DecayEpochs  int     `yaml:"decay_epochs"`
	DecayRate    float64 `yaml:"decay_rate"`
	KeepProb     float32 `yaml:"keep_prob"`
	Seed         int64   `yaml:"seed"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Models replaces the default model list when non-empty.
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig declares one model to evaluate.
type ModelConfig struct {
	Name   string     `yaml:"name"`
	Kind   model.Kind `yaml:"kind"`
	Hidden []int      `yaml:"hidden,omitempty"`
	Simple bool       `yaml:"simple,omitempty"`
}

// Arch returns the architecture the entry declares.
func (m ModelConfig) Arch() model.Arch {
	return model.Arch{Kind: m.Kind, Hidden: m.Hidden, Simple: m.Simple}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:        "./MNIST_data",
		ValidationSize: dataset.DefaultValidationSize,
		BatchSize:      trainer.DefaultBatchSize,
		Epochs:         trainer.DefaultEpochs,
		Attempts:       10,
		LearningRate:   trainer.DefaultLearningRate,
		DecayEpochs:    trainer.DefaultDecayEpochs,
		DecayRate:      trainer.DefaultDecayRate,
		KeepProb:       trainer.DefaultKeepProb,
		LogLevel:       "info",
		LogFormat:      output.FormatText,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
// DIGITBENCH_LOG_LEVEL, when set, overrides the file's log level.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		// Search for defaults
		for _, name := range []string{"digitbench.yaml", "digitbench.yml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if path != "" {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// Validate checks value ranges and every declared model.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if c.MaxSamples < 0 {
		errs = append(errs, errors.New("max_samples must be >= 0"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("batch_size must be > 0"))
	}
	if c.Epochs <= 0 {
		errs = append(errs, errors.New("epochs must be > 0"))
	}
	if c.Attempts <= 0 {
		errs = append(errs, errors.New("attempts must be > 0"))
	}
	if c.LearningRate <= 0 {
		errs = append(errs, errors.New("learning_rate must be > 0"))
	}
	if c.DecayEpochs <= 0 {
		errs = append(errs, errors.New("decay_epochs must be > 0"))
	}
	if c.DecayRate <= 0 || c.DecayRate > 1 {
		errs = append(errs, errors.New("decay_rate must be in (0, 1]"))
	}
	if c.KeepProb <= 0 || c.KeepProb > 1 {
		errs = append(errs, errors.New("keep_prob must be in (0, 1]"))
	}
	if _, err := output.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != output.FormatText && c.LogFormat != output.FormatJSON {
		errs = append(errs, fmt.Errorf("log_format must be %q or %q", output.FormatText, output.FormatJSON))
	}

	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("models[%d]: name must not be empty", i))
		} else if seen[m.Name] {
			errs = append(errs, fmt.Errorf("models[%d]: duplicate name %q", i, m.Name))
		}
		seen[m.Name] = true
		if err := m.Arch().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("models[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Descriptors returns the models to evaluate: the configured list, or the
// default eight when none are configured.
func (c *Config) Descriptors() []experiment.Descriptor {
	if len(c.Models) == 0 {
		return experiment.DefaultModels()
	}
	models := make([]experiment.Descriptor, len(c.Models))
	for i, m := range c.Models {
		models[i] = experiment.Descriptor{Name: m.Name, Arch: m.Arch()}
	}
	return models
}

// DatasetOptions returns the dataset loading options.
func (c *Config) DatasetOptions() dataset.LoadOptions {
	return dataset.LoadOptions{ValidationSize: c.ValidationSize, MaxSamples: c.MaxSamples}
}

// TrainerOptions returns the training hyperparameters.
func (c *Config) TrainerOptions() trainer.Options {
	return trainer.Options{
		BatchSize:    c.BatchSize,
		Epochs:       c.Epochs,
		LearningRate: c.LearningRate,
		DecayEpochs:  c.DecayEpochs,
		DecayRate:    c.DecayRate,
		KeepProb:     c.KeepProb,
		Seed:         c.Seed,
	}
}
