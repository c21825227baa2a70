package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 500, cfg.Analysis.MaxIterations)
	assert.Equal(t, 256, cfg.Trace.BufferSize)
	assert.Equal(t, 0.1, cfg.Classifier.LearningRate)
	assert.Equal(t, 500, cfg.Classifier.Epochs)
	assert.Contains(t, cfg.Noise.Prefixes, "temp")
	assert.Contains(t, cfg.Noise.Suffixes, "_debug")
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	doc := `
analysis:
  max_iterations: 1000
classifier:
  learning_rate: 0.05
  epochs: 200
noise:
  prefixes: ["scratch"]
  suffixes: ["_tmp"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Analysis.MaxIterations)
	assert.Equal(t, 0.05, cfg.Classifier.LearningRate)
	assert.Equal(t, 200, cfg.Classifier.Epochs)
	// trace.buffer_size was omitted from the document; Default()'s value survives.
	assert.Equal(t, 256, cfg.Trace.BufferSize)
	assert.Equal(t, []string{"scratch"}, cfg.Noise.Prefixes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/pipeline.yaml")
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [this is not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsNonsenseSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"zero max_iterations", &Config{Analysis: AnalysisConfig{MaxIterations: 0}, Classifier: ClassifierConfig{LearningRate: 0.1, Epochs: 1}}},
		{"negative buffer_size", &Config{Analysis: AnalysisConfig{MaxIterations: 1}, Trace: TraceConfig{BufferSize: -1}, Classifier: ClassifierConfig{LearningRate: 0.1, Epochs: 1}}},
		{"zero learning_rate", &Config{Analysis: AnalysisConfig{MaxIterations: 1}, Classifier: ClassifierConfig{LearningRate: 0, Epochs: 1}}},
		{"zero epochs", &Config{Analysis: AnalysisConfig{MaxIterations: 1}, Classifier: ClassifierConfig{LearningRate: 0.1, Epochs: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestIsNoise(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsNoise("temp_1"))
	assert.True(t, cfg.IsNoise("ternary_3"))
	assert.True(t, cfg.IsNoise("x_debug"))
	assert.False(t, cfg.IsNoise("balance"))
	assert.False(t, cfg.IsNoise("result_2"))
}
