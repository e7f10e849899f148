// Package metrics provides low-overhead observation recording for events,
// with per-goroutine accumulation and cross-goroutine report assembly.
//
// Observations are folded into a Registry owned by a single goroutine. No
// locks or atomics are used on the hot path: the owning goroutine is the
// only one that ever touches its registry and the events built from it.
// State crosses goroutine boundaries only as immutable snapshots.
//
// # Basic Usage
//
//	reg := metrics.NewRegistry()
//
//	latency := reg.Event().
//		Name("request_latency").
//		Buckets(0.001, 0.01, 0.1, 1).
//		MustBuild()
//
//	requests := reg.Event().Name("requests").MustBuild()
//
//	requests.ObserveUnit()
//	latency.ObserveDuration(func() {
//		handle(req)
//	})
//
// # Reports
//
// Each goroutine captures its own ReportPage. Pages are handed to a host
// collector (channel, shutdown hook, whatever fits) and merged:
//
//	builder := metrics.NewReportBuilder()
//	for page := range pages {
//		builder.AddPage(page)
//	}
//	report, err := builder.Build()
//	fmt.Print(report)
//
// Merging adds counts, sums and bucket counts, so the order in which pages
// are added does not matter.
//
// # Goroutine Confinement
//
// A Registry and every Event built from it must only be used by the goroutine
// that created it. Each goroutine builds its own Event for the same name; the
// merge step joins them by name. Snapshot, ReportPage and Report values are
// immutable and may be shared freely.
package metrics
