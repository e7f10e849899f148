package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/tally/adapters/prometheus"
	"github.com/wesleyorama2/tally/internal/workload"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the plain report rendering
	FormatText OutputFormat = "text"
	// FormatConsole is the rendering with summary, colors and bucket bars
	FormatConsole OutputFormat = "console"
	// FormatJSON outputs the run result in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs the run result in YAML format
	FormatYAML OutputFormat = "yaml"
	// FormatPrometheus outputs the report in the Prometheus text exposition format
	FormatPrometheus OutputFormat = "prometheus"
)

// Formats lists every supported format.
var Formats = []OutputFormat{FormatText, FormatConsole, FormatJSON, FormatYAML, FormatPrometheus}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
}

// Options controls Write.
type Options struct {
	// Scheme colors console output; nil disables colors
	Scheme *ColorScheme

	// Namespace prefixes Prometheus metric names
	Namespace string
}

// Write renders result to w in the given format.
func Write(w io.Writer, format OutputFormat, result *workload.Result, opts Options) error {
	switch format {
	case FormatText:
		_, err := result.Report.WriteTo(w)
		return err
	case FormatConsole:
		renderer := NewConsoleRenderer(opts.Scheme)
		if err := renderer.RenderSummary(w, result); err != nil {
			return err
		}
		return renderer.RenderReport(w, result.Report)
	case FormatJSON:
		data, err := MarshalJSON(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatPrometheus:
		return prometheus.WriteText(w, result.Report, opts.Namespace)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// MarshalJSON encodes result as indented JSON.
func MarshalJSON(result *workload.Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return data, nil
}
