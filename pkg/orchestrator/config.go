// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file NewFromFile reads when the
// caller passes an empty path.
const DefaultConfigFile = "configuration.yaml"

// Config holds all orchestrator settings. Callers either construct a
// Config in Go code and pass it to New(), or place a configuration.yaml
// at the repository root and call NewFromFile().
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Builders BuildersConfig `yaml:"builders"`
	Tracker  TrackerConfig  `yaml:"tracker"`
	Render   RenderConfig   `yaml:"render"`
	Output   OutputConfig   `yaml:"output"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// CatalogConfig locates the requirement catalog.
type CatalogConfig struct {
	// Globs are doublestar patterns of requirement YAML files
	// (default ["docs/requirements/**/*.yaml"]). Files are read in
	// sorted path order.
	Globs []string `yaml:"globs"`
}

// BuildersConfig locates test case builder definitions.
type BuildersConfig struct {
	// Globs are doublestar patterns of builder YAML files
	// (default ["docs/builders/**/*.yaml"]).
	Globs []string `yaml:"globs"`
}

// TrackerConfig selects the GitHub repository issues are reconciled
// against.
type TrackerConfig struct {
	// Repo is the owner/repo string. When empty it is detected from the
	// git remote or the go.mod module path.
	Repo string `yaml:"repo"`

	// State is the issue state to list: open, closed or all (default "all").
	State string `yaml:"state"`

	// Label restricts the listing to issues carrying this label.
	Label string `yaml:"label"`
}

// RenderConfig controls issue rendering.
type RenderConfig struct {
	// Template is a file path to a custom issue body template. During
	// LoadConfig the file is read and its content stored here. If empty,
	// the embedded default is used.
	Template string `yaml:"template"`
}

// OutputConfig controls where Generate writes rendered test cases.
type OutputConfig struct {
	// Dir is the output root (default "generated/testcases").
	Dir string `yaml:"dir"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `yaml:"path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is debug, info, warn or error (default "info").
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Catalog.Globs) == 0 {
		c.Catalog.Globs = []string{"docs/requirements/**/*.yaml"}
	}
	if len(c.Builders.Globs) == 0 {
		c.Builders.Globs = []string{"docs/builders/**/*.yaml"}
	}
	if c.Tracker.State == "" {
		c.Tracker.State = "all"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "generated/testcases"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// validate rejects values applyDefaults cannot repair.
func (c *Config) validate() error {
	switch c.Tracker.State {
	case "open", "closed", "all":
	default:
		return fmt.Errorf("tracker.state: must be open, closed or all, got %q", c.Tracker.State)
	}
	return nil
}

// LoadConfig reads a configuration YAML file and returns a Config.
// Render.Template is treated as a file path: LoadConfig reads the file
// and replaces the value with its content.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Render.Template != "" {
		content, err := os.ReadFile(cfg.Render.Template)
		if err != nil {
			return Config{}, fmt.Errorf("reading issue template %s: %w", cfg.Render.Template, err)
		}
		cfg.Render.Template = string(content)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}
