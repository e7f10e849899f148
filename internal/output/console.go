package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wesleyorama2/tally/internal/workload"
	"github.com/wesleyorama2/tally/metrics"
)

const (
	barWidth      = 30
	progressFill  = "█"
	progressEmpty = "░"
)

// ConsoleRenderer renders reports for humans, with optional colors and
// per-bucket bars.
type ConsoleRenderer struct {
	scheme *ColorScheme
}

// NewConsoleRenderer creates a renderer. A nil scheme disables colors.
func NewConsoleRenderer(scheme *ColorScheme) *ConsoleRenderer {
	if scheme == nil {
		scheme = NoColorScheme()
	}
	return &ConsoleRenderer{scheme: scheme}
}

// RenderReport writes one block per event, sorted by name. It follows the
// plain report layout and adds a bar per bucket.
func (r *ConsoleRenderer) RenderReport(w io.Writer, report *metrics.Report) error {
	var sb strings.Builder
	for _, name := range report.Names() {
		s, _ := report.Get(name)
		r.renderEvent(&sb, name, s)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *ConsoleRenderer) renderEvent(sb *strings.Builder, name string, s metrics.Snapshot) {
	sb.WriteString(r.scheme.EventName.Sprint(name))
	sb.WriteString(": ")

	switch {
	case s.Count == 0:
		sb.WriteString(r.scheme.Muted.Sprint("0"))
		sb.WriteString("\n")
		return
	case s.IsCounter():
		sb.WriteString(r.scheme.Counter.Sprintf("%d", s.Count))
		sb.WriteString(r.scheme.Muted.Sprint(" (counter)"))
	default:
		fmt.Fprintf(sb, "%s; sum %s; avg %s",
			r.scheme.Value.Sprintf("%d", s.Count),
			r.scheme.Value.Sprint(metrics.FormatMagnitude(s.Sum)),
			r.scheme.Value.Sprint(metrics.FormatMagnitude(s.Mean())))
	}
	sb.WriteString("\n")

	if len(s.BucketCounts) == 0 {
		return
	}

	labels := make([]string, 0, len(s.BucketCounts)+1)
	for i := range s.BucketCounts {
		bound := "?"
		if i < len(s.BucketMagnitudes) {
			bound = metrics.FormatMagnitude(s.BucketMagnitudes[i])
		}
		labels = append(labels, "<= "+bound)
	}
	labels = append(labels, "+Inf")

	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}

	counts := append(append([]uint64{}, s.BucketCounts...), s.InfBucket())
	for i, c := range counts {
		bar := r.scheme.Bar
		if i == len(counts)-1 {
			bar = r.scheme.Overflow
		}
		fmt.Fprintf(sb, "  %s %s %d\n",
			r.scheme.Bucket.Sprintf("%-*s", width, labels[i]),
			bar.Sprint(progressBar(c, s.Count)),
			c)
	}
}

// progressBar draws part/total as a fixed-width bar.
func progressBar(part, total uint64) string {
	filled := 0
	if total > 0 {
		filled = int(part * barWidth / total)
	}
	filled = min(filled, barWidth)
	return strings.Repeat(progressFill, filled) + strings.Repeat(progressEmpty, barWidth-filled)
}

// RenderSummary writes the run header: workload name, workers, elapsed time
// and observation overhead.
func (r *ConsoleRenderer) RenderSummary(w io.Writer, result *workload.Result) error {
	var sb strings.Builder

	sb.WriteString(r.scheme.Title.Sprintf("━━ %s ━━", result.Name))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  workers  %d\n", result.Workers)
	fmt.Fprintf(&sb, "  elapsed  %s\n", result.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  events   %d\n", result.Report.Len())
	if result.Overhead.Count > 0 {
		fmt.Fprintf(&sb, "  overhead p50 %s, p99 %s, max %s over %d observations\n",
			result.Overhead.P50, result.Overhead.P99, result.Overhead.Max, result.Overhead.Count)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
