// Package config provides configuration parsing and validation for a
// benchmark run.
package config

import (
	"github.com/wesleyorama2/fieldbench/internal/bench"
	"github.com/wesleyorama2/fieldbench/internal/clock"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the root configuration for a benchmark run.
//
// Example YAML:
//
//	name: "nightly"
//	iterations: [20000, 200000, 2000000]
//	groups: [field-access, field-set]
//	output:
//	  path: benchmark.txt
//	  format: text
//	stabilize:
//	  pinCpu: false
//	logLevel: info
type Config struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Iterations is the iteration plan, in report order
	Iterations []int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// Groups selects the benchmark groups to run; empty means all
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`

	// Output controls where and how the report is written
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// Stabilize controls environment preparation
	Stabilize StabilizeConfig `json:"stabilize,omitempty" yaml:"stabilize,omitempty"`

	// Calibration controls the clock calibration logged before the run
	Calibration CalibrationConfig `json:"calibration,omitempty" yaml:"calibration,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// OutputConfig controls the report sink.
type OutputConfig struct {
	// Path of the report file; empty or "-" writes to stdout
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Format is "text" or "json"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Color enables colored headings when writing to a terminal
	Color *bool `json:"color,omitempty" yaml:"color,omitempty"`
}

// StabilizeConfig controls environment preparation. Unset switches default
// to true.
type StabilizeConfig struct {
	Enabled         *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	CollectGarbage  *bool `json:"collectGarbage,omitempty" yaml:"collectGarbage,omitempty"`
	ElevatePriority *bool `json:"elevatePriority,omitempty" yaml:"elevatePriority,omitempty"`
	PinCPU          *bool `json:"pinCpu,omitempty" yaml:"pinCpu,omitempty"`
}

// CalibrationConfig controls clock calibration.
type CalibrationConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Samples int   `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// IsSet reports whether p is nil or points to true.
func IsSet(p *bool) bool {
	return p == nil || *p
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if len(c.Iterations) == 0 {
		c.Iterations = append([]int(nil), bench.DefaultPlan...)
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Output.Color == nil {
		c.Output.Color = Bool(true)
	}
	for _, p := range []**bool{
		&c.Stabilize.Enabled,
		&c.Stabilize.CollectGarbage,
		&c.Stabilize.ElevatePriority,
		&c.Stabilize.PinCPU,
		&c.Calibration.Enabled,
	} {
		if *p == nil {
			*p = Bool(true)
		}
	}
	if c.Calibration.Samples == 0 {
		c.Calibration.Samples = clock.DefaultSamples
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Plan returns the iteration plan as a bench.Plan.
func (c *Config) Plan() bench.Plan {
	return append(bench.Plan(nil), c.Iterations...)
}
