// Package config loads the pipeline-wide knobs that every stage reads
// instead of hardcoding (fixed-point iteration caps, trace sink sizing,
// classifier hyperparameters, the noise-filtering prefixes/suffixes of
// §6). Configuration is YAML, the format the teacher uses for its own
// ruleset manifests.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root pipeline configuration document.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Trace      TraceConfig      `yaml:"trace"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Noise      NoiseConfig      `yaml:"noise"`
}

// AnalysisConfig bounds the fixed-point solvers of §4.2–§4.4
// (dominators, postdominators, reaching definitions).
type AnalysisConfig struct {
	// MaxIterations is loaded and validated (it must be positive), but
	// no solver reads it: internal/dom and internal/reach each stop at
	// their own DefaultMaxIter constant.
	MaxIterations int `yaml:"max_iterations"`
}

// TraceConfig sizes the process-wide trace sink of §6.
type TraceConfig struct {
	// BufferSize is loaded and validated (it must be non-negative), but
	// trace.NewSink takes no size and reserves no initial capacity, so
	// the value has no effect on the sink.
	BufferSize int `yaml:"buffer_size"`
}

// ClassifierConfig holds the gradient-descent hyperparameters for
// internal/suspicious.LogisticClassifier.
type ClassifierConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
	Epochs       int     `yaml:"epochs"`
}

// NoiseConfig lists the variable-name prefixes/suffixes §6 excludes
// from aggregation (compiler/instrumentation temporaries).
type NoiseConfig struct {
	Prefixes []string `yaml:"prefixes"`
	Suffixes []string `yaml:"suffixes"`
}

// Default returns the built-in configuration used when no file is
// supplied on the command line.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxIterations: 500,
		},
		Trace: TraceConfig{
			BufferSize: 256,
		},
		Classifier: ClassifierConfig{
			LearningRate: 0.1,
			Epochs:       500,
		},
		Noise: NoiseConfig{
			Prefixes: []string{"temp", "ternary_"},
			Suffixes: []string{"_debug"},
		},
	}
}

// Load reads a YAML configuration file, filling any field the document
// omits from Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would make a pipeline stage behave
// nonsensically (zero or negative caps, empty-range hyperparameters).
func (c *Config) Validate() error {
	if c.Analysis.MaxIterations <= 0 {
		return fmt.Errorf("config: analysis.max_iterations must be positive, got %d", c.Analysis.MaxIterations)
	}
	if c.Trace.BufferSize < 0 {
		return fmt.Errorf("config: trace.buffer_size must be non-negative, got %d", c.Trace.BufferSize)
	}
	if c.Classifier.LearningRate <= 0 {
		return fmt.Errorf("config: classifier.learning_rate must be positive, got %f", c.Classifier.LearningRate)
	}
	if c.Classifier.Epochs <= 0 {
		return fmt.Errorf("config: classifier.epochs must be positive, got %d", c.Classifier.Epochs)
	}
	return nil
}

// IsNoise reports whether name matches one of the configured
// prefix/suffix patterns for instrumentation/compiler temporaries.
func (c *Config) IsNoise(name string) bool {
	for _, p := range c.Noise.Prefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return true
		}
	}
	for _, s := range c.Noise.Suffixes {
		if len(name) >= len(s) && name[len(name)-len(s):] == s {
			return true
		}
	}
	return false
}
