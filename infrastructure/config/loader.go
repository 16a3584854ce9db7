package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Sampler SamplerConfig `yaml:"sampler"`
	Artwork ArtworkConfig `yaml:"artwork"`
}

// PathsConfig contains directory paths for extracted media
type PathsConfig struct {
	OutputDirectory string `yaml:"output_directory"`
}

// SamplerConfig contains frame sampling settings
type SamplerConfig struct {
	TargetFraction       float64 `yaml:"target_fraction"`
	MaxAttempts          int     `yaml:"max_attempts"`
	StepSeconds          float64 `yaml:"step_seconds"`
	Tolerance            float64 `yaml:"tolerance"`
	UniqueColorThreshold int     `yaml:"unique_color_threshold"`
	ImageFormat          string  `yaml:"image_format"`
}

// ArtworkConfig contains cover embedding settings
type ArtworkConfig struct {
	MaxImageSide int    `yaml:"max_image_side"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
	Description  string `yaml:"description"`
}

// DefaultTargetFraction places the sampled frame at 10% of playback
const DefaultTargetFraction = 0.1

// Default returns a configuration with every knob at its default
func Default() *Config {
	return &Config{
		Paths:   PathsConfig{OutputDirectory: "."},
		Sampler: SamplerConfig{TargetFraction: DefaultTargetFraction},
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TargetFraction returns the configured sampling fraction, or the default
func (c *Config) TargetFraction() float64 {
	if c == nil || c.Sampler.TargetFraction <= 0 {
		return DefaultTargetFraction
	}
	return c.Sampler.TargetFraction
}

// OutputDirectory returns the configured output directory, or "."
func (c *Config) OutputDirectory() string {
	if c == nil || c.Paths.OutputDirectory == "" {
		return "."
	}
	return c.Paths.OutputDirectory
}
