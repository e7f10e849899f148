package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultWorkers       = 4
	DefaultIterations    = 1000
	DefaultFlushInterval = time.Second
)

// LoadConfig loads and validates a workload configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*WorkloadConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := ValidateSchema(data, path); err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// ParseConfig parses configuration data without validating it.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*WorkloadConfig, error) {
	var config WorkloadConfig

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &config, nil
}

// ParseDurationString parses a duration string.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	secs, convErr := strconv.Atoi(s)
	if convErr == nil {
		return time.Duration(secs) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration %q: %w", s, err)
}

// ApplyDefaults fills in unset fields.
func ApplyDefaults(config *WorkloadConfig) {
	if config.Workers == 0 {
		config.Workers = DefaultWorkers
	}
	if config.Iterations == 0 && config.Duration == 0 {
		config.Iterations = DefaultIterations
	}
	if config.FlushInterval == 0 {
		config.FlushInterval = Duration(DefaultFlushInterval)
	}

	for i := range config.Events {
		applyEventDefaults(&config.Events[i])
	}
}

func applyEventDefaults(ev *EventConfig) {
	if ev.Kind == "" {
		if len(ev.Buckets) > 0 || ev.Distribution != nil {
			ev.Kind = KindHistogram
		} else {
			ev.Kind = KindCounter
		}
	}
	if ev.Count == 0 {
		ev.Count = 1
	}
	if ev.Distribution == nil && ev.Kind != KindCounter {
		ev.Distribution = &DistributionConfig{Type: DistConstant, Value: 1}
	}
}
