package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .mutant.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Language detection override
	Language string `yaml:"language,omitempty"`

	// Test command run against each mutant
	TestCommand string `yaml:"test_command,omitempty"`

	// Default mutation budget (quick, thorough, all, or an integer)
	Budget string `yaml:"budget,omitempty"`

	// File patterns
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Quality score weight overrides
	Weights WeightsConfig `yaml:"weights,omitempty"`
}

// WeightsConfig holds quality score component weights. The three weights
// must sum to 1 when all are set.
type WeightsConfig struct {
	Mutation  float64 `yaml:"mutation,omitempty"`
	Assertion float64 `yaml:"assertion,omitempty"`
	Static    float64 `yaml:"static,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Budget:  "quick",
		Include: []string{"**/*.go", "**/*.py", "**/*.ts", "**/*.js"},
		Exclude: []string{
			"**/vendor/**",
			"**/node_modules/**",
			"**/*_test.go",
			"**/test_*.py",
			"**/*.test.ts",
			"**/*.test.js",
		},
		Weights: WeightsConfig{
			Mutation:  0.50,
			Assertion: 0.25,
			Static:    0.25,
		},
	}
}

// LoadProjectConfig loads a .mutant.yaml discovered upward from startDir.
// The search walks parent directories so a run on a deeply nested source
// file still finds the repository-level config. When no file exists the
// defaults are returned.
func LoadProjectConfig(startDir string) (*ProjectConfig, error) {
	configPath := findProjectConfig(startDir)
	if configPath == "" {
		return DefaultProjectConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	if err := cfg.Weights.validate(); err != nil {
		return nil, fmt.Errorf("in %s: %w", configPath, err)
	}

	return cfg, nil
}

// findProjectConfig walks from dir to the filesystem root looking for
// .mutant.yaml or .mutant.yml.
func findProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range []string{".mutant.yaml", ".mutant.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// SaveProjectConfig saves the config to .mutant.yaml in the given directory
func SaveProjectConfig(dir string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, ".mutant.yaml"), data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags). Zero
// values never override existing settings.
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Language != "" {
		c.Language = other.Language
	}

	if other.TestCommand != "" {
		c.TestCommand = other.TestCommand
	}

	if other.Budget != "" {
		c.Budget = other.Budget
	}

	if len(other.Include) > 0 {
		c.Include = other.Include
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}

	if other.Weights.Mutation != 0 {
		c.Weights.Mutation = other.Weights.Mutation
	}

	if other.Weights.Assertion != 0 {
		c.Weights.Assertion = other.Weights.Assertion
	}

	if other.Weights.Static != 0 {
		c.Weights.Static = other.Weights.Static
	}
}

// ResolveTestCommand returns the test command for a source file: the
// explicit override first, then the project config, then a built-in
// default for the detected language.
func (c *ProjectConfig) ResolveTestCommand(sourcePath, override string) string {
	if override != "" {
		return override
	}
	if c.TestCommand != "" {
		return c.TestCommand
	}
	return defaultTestCommand(sourcePath)
}

// defaultTestCommand picks a test command by file extension.
func defaultTestCommand(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".go":
		return "go test ./..."
	case ".py":
		return "python -m pytest " + dir
	case ".js", ".jsx", ".ts", ".tsx":
		return "npx jest " + dir
	default:
		return ""
	}
}

func (w WeightsConfig) validate() error {
	sum := w.Mutation + w.Assertion + w.Static
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("quality weights must sum to 1, got %.3f", sum)
	}
	return nil
}
