// Package config provides configuration parsing and validation for tally workload files.
package config

import (
	"time"
)

// Event kinds.
const (
	KindCounter   = "counter"
	KindHistogram = "histogram"
	KindTimed     = "timed"
)

// Distribution types.
const (
	DistConstant    = "constant"
	DistUniform     = "uniform"
	DistExponential = "exponential"
	DistNormal      = "normal"
)

// WorkloadConfig is the root configuration for a synthetic workload run.
//
// Example YAML:
//
//	name: "checkout service"
//	workers: 8
//	duration: 5s
//	flushInterval: 500ms
//	events:
//	  - name: requests
//	    kind: counter
//	  - name: request_seconds
//	    kind: timed
//	    buckets: [0.001, 0.005, 0.01]
//	    distribution:
//	      type: exponential
//	      mean: 0.002
type WorkloadConfig struct {
	// Name of the workload (for reporting)
	Name string `json:"name" yaml:"name"`

	// Description of the workload (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Workers is the number of goroutines, each owning its own registry
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Iterations per worker. Zero means run until Duration elapses.
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// Duration bounds the run. Zero means run until Iterations are done.
	Duration Duration `json:"duration,omitempty" yaml:"duration,omitempty"`

	// Rate caps iterations per second per worker. Zero means unpaced.
	Rate float64 `json:"rate,omitempty" yaml:"rate,omitempty"`

	// FlushInterval is how often workers submit a page to the collector
	FlushInterval Duration `json:"flushInterval,omitempty" yaml:"flushInterval,omitempty"`

	// Seed makes sampled magnitudes reproducible when non-zero
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Events defines what each worker observes per iteration
	Events []EventConfig `json:"events" yaml:"events"`
}

// EventConfig defines one event observed by every worker.
type EventConfig struct {
	// Name is the event name
	Name string `json:"name" yaml:"name"`

	// Kind is "counter", "histogram" or "timed"
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Buckets are ascending histogram upper bounds
	Buckets []float64 `json:"buckets,omitempty" yaml:"buckets,omitempty"`

	// Count is the repeat count of each observation (default: 1)
	Count uint64 `json:"count,omitempty" yaml:"count,omitempty"`

	// Distribution of sampled magnitudes (histogram) or seconds (timed)
	Distribution *DistributionConfig `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// DistributionConfig describes how magnitudes are sampled.
type DistributionConfig struct {
	// Type is "constant", "uniform", "exponential" or "normal"
	Type string `json:"type" yaml:"type"`

	// Value for constant distributions
	Value float64 `json:"value,omitempty" yaml:"value,omitempty"`

	// Min and Max for uniform distributions
	Min float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max float64 `json:"max,omitempty" yaml:"max,omitempty"`

	// Mean for exponential and normal distributions
	Mean float64 `json:"mean,omitempty" yaml:"mean,omitempty"`

	// StdDev for normal distributions
	StdDev float64 `json:"stddev,omitempty" yaml:"stddev,omitempty"`
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseDurationString(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
