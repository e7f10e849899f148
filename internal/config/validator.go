package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire workload configuration.
//
// Returns nil if valid, or a *ValidationErrors containing all problems found.
func (c *WorkloadConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.Name == "" {
		errs.Add("name", "name is required")
	}
	if c.Workers < 0 {
		errs.Add("workers", "must not be negative")
	}
	if c.Iterations < 0 {
		errs.Add("iterations", "must not be negative")
	}
	if c.Duration < 0 {
		errs.Add("duration", "must not be negative")
	}
	if c.Rate < 0 {
		errs.Add("rate", "must not be negative")
	}
	if c.FlushInterval < 0 {
		errs.Add("flushInterval", "must not be negative")
	}

	if len(c.Events) == 0 {
		errs.Add("events", "at least one event is required")
	}

	seen := make(map[string]int, len(c.Events))
	for i, ev := range c.Events {
		field := fmt.Sprintf("events[%d]", i)
		if prev, ok := seen[ev.Name]; ok && ev.Name != "" {
			errs.Add(field+".name", fmt.Sprintf("duplicate event name %q (also events[%d])", ev.Name, prev))
		}
		seen[ev.Name] = i
		validateEvent(field, &ev, errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateEvent(field string, ev *EventConfig, errs *ValidationErrors) {
	if ev.Name == "" {
		errs.Add(field+".name", "name is required")
	}

	switch ev.Kind {
	case "", KindCounter, KindHistogram, KindTimed:
	default:
		errs.Add(field+".kind", fmt.Sprintf("unknown kind %q", ev.Kind))
	}

	if ev.Kind == KindCounter && ev.Distribution != nil {
		errs.Add(field+".distribution", "counters always observe magnitude 1")
	}

	// The metrics core trusts bucket order; catch mistakes here instead.
	for i := 1; i < len(ev.Buckets); i++ {
		if ev.Buckets[i] <= ev.Buckets[i-1] {
			errs.Add(fmt.Sprintf("%s.buckets[%d]", field, i), "buckets must be strictly ascending")
			break
		}
	}

	if ev.Distribution != nil {
		validateDistribution(field+".distribution", ev.Kind, ev.Distribution, errs)
	}
}

func validateDistribution(field, kind string, d *DistributionConfig, errs *ValidationErrors) {
	switch d.Type {
	case DistConstant:
	case DistUniform:
		if d.Max < d.Min {
			errs.Add(field+".max", "max must be >= min")
		}
	case DistExponential:
		if d.Mean <= 0 {
			errs.Add(field+".mean", "mean must be positive")
		}
	case DistNormal:
		if d.StdDev < 0 {
			errs.Add(field+".stddev", "stddev must not be negative")
		}
	default:
		errs.Add(field+".type", fmt.Sprintf("unknown distribution %q", d.Type))
	}

	if kind == KindTimed && (d.Min < 0 || d.Value < 0) {
		errs.Add(field, "timed events cannot sleep for a negative duration")
	}
}
