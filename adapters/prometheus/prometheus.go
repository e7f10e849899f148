// Package prometheus exposes merged tally reports as Prometheus metrics.
//
// A Report is a point-in-time value, so the collector emits const metrics:
// events without buckets that only ever saw unit observations become
// counters, everything else becomes a histogram with cumulative buckets.
package prometheus

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/wesleyorama2/tally/metrics"
)

// ReportCollector implements prometheus.Collector over a report.
type ReportCollector struct {
	report    *metrics.Report
	namespace string
}

// NewCollector creates a collector for report. namespace may be empty.
func NewCollector(report *metrics.Report, namespace string) *ReportCollector {
	return &ReportCollector{report: report, namespace: namespace}
}

// Describe implements prometheus.Collector.
func (c *ReportCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

// Collect implements prometheus.Collector.
func (c *ReportCollector) Collect(ch chan<- prometheus.Metric) {
	names := c.report.Names()
	fqNames := c.fqNames(names)
	for _, name := range names {
		snapshot, _ := c.report.Get(name)
		ch <- c.metric(fqNames[name], name, snapshot)
	}
}

func isCounter(s metrics.Snapshot) bool {
	return len(s.BucketCounts) == 0 && s.IsCounter()
}

// fqNames assigns every event a distinct metric name. Event names that
// sanitize to the same metric name are suffixed _2, _3, ... in sorted
// order, so "db.query" stays "db_query" and "db_query" becomes "db_query_2".
func (c *ReportCollector) fqNames(names []string) map[string]string {
	fqName := func(base string, counter bool) string {
		if counter {
			base += "_total"
		}
		return prometheus.BuildFQName(c.namespace, "", base)
	}

	used := make(map[string]bool, len(names))
	out := make(map[string]string, len(names))
	for _, name := range names {
		snapshot, _ := c.report.Get(name)
		counter := isCounter(snapshot)
		base := SanitizeName(name)

		candidate := fqName(base, counter)
		for n := 2; used[candidate]; n++ {
			candidate = fqName(fmt.Sprintf("%s_%d", base, n), counter)
		}
		used[candidate] = true
		out[name] = candidate
	}
	return out
}

func (c *ReportCollector) metric(fqName, name string, s metrics.Snapshot) prometheus.Metric {
	if isCounter(s) {
		desc := prometheus.NewDesc(fqName, fmt.Sprintf("Count of %s observations.", name), nil, nil)
		m, err := prometheus.NewConstMetric(desc, prometheus.CounterValue, float64(s.Count))
		if err != nil {
			return prometheus.NewInvalidMetric(desc, err)
		}
		return m
	}

	desc := prometheus.NewDesc(fqName, fmt.Sprintf("Distribution of %s observations.", name), nil, nil)

	if len(s.BucketMagnitudes) != len(s.BucketCounts) {
		return prometheus.NewInvalidMetric(desc, fmt.Errorf("%w: %d bucket counts but %d bounds",
			metrics.ErrBucketMismatch, len(s.BucketCounts), len(s.BucketMagnitudes)))
	}

	// Prometheus buckets are cumulative; report buckets are not.
	buckets := make(map[float64]uint64, len(s.BucketCounts))
	var cumulative uint64
	for i, count := range s.BucketCounts {
		cumulative += count
		buckets[s.BucketMagnitudes[i]] = cumulative
	}

	m, err := prometheus.NewConstHistogram(desc, s.Count, s.Sum, buckets)
	if err != nil {
		return prometheus.NewInvalidMetric(desc, err)
	}
	return m
}

// SanitizeName maps an event name onto the Prometheus metric name charset.
func SanitizeName(name string) string {
	if name == "" {
		return "_"
	}

	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == ':',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// WriteText writes report in the Prometheus text exposition format.
func WriteText(w io.Writer, report *metrics.Report, namespace string) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(report, namespace)); err != nil {
		return fmt.Errorf("failed to register report collector: %w", err)
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather report metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
