package metrics

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// ReportPage is one goroutine's contribution to a report: the snapshots of
// every event in its registry at one instant.
type ReportPage struct {
	snapshots map[string]Snapshot
}

// NewReportPage builds a page from existing snapshots, e.g. pages decoded
// after transport. The map is copied.
func NewReportPage(snapshots map[string]Snapshot) ReportPage {
	return ReportPage{snapshots: maps.Clone(snapshots)}
}

// Len returns the number of events on the page.
func (p ReportPage) Len() int {
	return len(p.snapshots)
}

// Get returns the snapshot for name.
func (p ReportPage) Get(name string) (Snapshot, bool) {
	s, ok := p.snapshots[name]
	return s, ok
}

// Names returns the event names on the page, sorted.
func (p ReportPage) Names() []string {
	return slices.Sorted(maps.Keys(p.snapshots))
}

// ReportBuilder merges report pages from any number of goroutines.
type ReportBuilder struct {
	pages []ReportPage
}

// NewReportBuilder creates an empty builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// AddPage queues a page for merging.
func (b *ReportBuilder) AddPage(page ReportPage) *ReportBuilder {
	b.pages = append(b.pages, page)
	return b
}

// Build merges all queued pages. It fails with ErrBucketMismatch if two pages
// disagree on the bucket count of the same event.
func (b *ReportBuilder) Build() (*Report, error) {
	merged := make(map[string]Snapshot)

	for _, page := range b.pages {
		for name, snapshot := range page.snapshots {
			agg, ok := merged[name]
			if !ok {
				agg = Snapshot{
					BucketCounts:     make([]uint64, len(snapshot.BucketCounts)),
					BucketMagnitudes: snapshot.BucketMagnitudes,
				}
			}

			agg, err := agg.Merge(snapshot)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", name, err)
			}
			merged[name] = agg
		}
	}

	return &Report{Events: merged}, nil
}

// MustBuild is like Build but panics on a bucket mismatch, which is always
// a programming error.
func (b *ReportBuilder) MustBuild() *Report {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Report is the merged view of all pages, ready for display or export.
type Report struct {
	// Events maps event names to merged snapshots
	Events map[string]Snapshot `json:"events" yaml:"events"`
}

// Len returns the number of events in the report.
func (r *Report) Len() int {
	return len(r.Events)
}

// Get returns the merged snapshot for name.
func (r *Report) Get(name string) (Snapshot, bool) {
	s, ok := r.Events[name]
	return s, ok
}

// Names returns the event names, sorted.
func (r *Report) Names() []string {
	return slices.Sorted(maps.Keys(r.Events))
}

// Page turns the report back into a page so it can be merged with others.
func (r *Report) Page() ReportPage {
	return NewReportPage(r.Events)
}

// String renders the report, one entry per event sorted by name.
func (r *Report) String() string {
	var sb strings.Builder
	for _, name := range r.Names() {
		sb.WriteString(name)
		sb.WriteString(": ")
		r.Events[name].render(&sb)
	}
	return sb.String()
}

// WriteTo writes the rendered report to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}
