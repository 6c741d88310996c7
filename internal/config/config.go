// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads simstat run configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scgm/simstat/internal/logging"
	"github.com/scgm/simstat/simstat"
)

// Config is the configuration of a simstat run.
type Config struct {
	// Alpha selects the 1-Alpha bootstrap confidence interval.
	Alpha float64 `yaml:"alpha"`
	// Repetitions is the number of bootstrap resamples per cell.
	Repetitions int `yaml:"repetitions"`
	// Seed seeds the per-cell random sources.
	Seed uint64 `yaml:"seed"`
	// Workers is the number of cells computed at once.
	Workers int `yaml:"workers"`

	// GroupBy is the group-by specification of categories.
	GroupBy string `yaml:"group_by"`
	// Filter is the sample filter query.
	Filter string `yaml:"filter"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Alpha:       simstat.DefaultAlpha,
		Repetitions: simstat.DefaultRepetitions,
		Seed:        1,
		Workers:     1,
		GroupBy:     ".file",
		Filter:      "*",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads the configuration in path. Settings missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	if !(c.Alpha >= 0 && c.Alpha < 1) {
		return fmt.Errorf("alpha must be in [0, 1), got %v", c.Alpha)
	}
	if c.Repetitions < 1 {
		return fmt.Errorf("repetitions must be >= 1, got %d", c.Repetitions)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.GroupBy == "" {
		return fmt.Errorf("group_by must not be empty")
	}
	if c.Filter == "" {
		return fmt.Errorf("filter must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Bootstrap returns the bootstrap options of c. The caller supplies
// the random source.
func (c *Config) Bootstrap() simstat.BootstrapOptions {
	return simstat.BootstrapOptions{Alpha: c.Alpha, Repetitions: c.Repetitions}
}
