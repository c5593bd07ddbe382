// Package config loads the optional project file (refine.yaml) and
// holds its ambient toggles. The engine honors one of them: whether
// guard-evaluation errors are surfaced as diagnostics rather than
// silently discarded. TestMode and SearchPaths are loaded but not
// consulted by the engine or the CLI.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the optional, declarative project file consulted by both
// the cmd/refine CLI and pkg/refine.Engine.
type Config struct {
	// DiagnosticGuardErrors surfaces a guard expression's evaluation
	// error instead of silently discarding the overload. Off by
	// default, since turning it on changes which errors a program can
	// observe.
	DiagnosticGuardErrors bool `yaml:"diagnosticGuardErrors"`

	// TestMode is read from the project file; no part of the engine or
	// CLI changes its behavior based on it.
	TestMode bool `yaml:"testMode"`

	// SearchPaths are directories consulted for sibling source files
	// when a program is split across files. The language has no
	// module system; this only concerns the
	// driver's file discovery, not in-language imports.
	SearchPaths []string `yaml:"searchPaths"`
}

// Default returns the zero-value configuration: no diagnostics, no
// test mode, no extra search paths.
func Default() *Config {
	return &Config{}
}

// Load reads and parses a refine.yaml-shaped file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
