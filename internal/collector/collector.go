// Package collector gathers report pages submitted by worker goroutines and
// merges them into reports.
//
// Pages are cumulative: a worker's newest page already contains everything
// its older pages did. The collector therefore keeps only the latest page
// per source and merges those.
package collector

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/wesleyorama2/tally/metrics"
)

// Submission is a page sent over the collector's channel.
type Submission struct {
	// Source identifies the submitting goroutine (e.g. "worker-3")
	Source string

	// Seq orders pages of one source. A page with a lower Seq than the one
	// already held is stale and dropped.
	Seq uint64

	// Page is the source's latest page
	Page metrics.ReportPage
}

// Collector merges the latest page of every source.
//
// # Thread Safety
//
// Collector is safe for concurrent use. Submit may be called from any
// goroutine; pages are immutable so no copying is needed.
type Collector struct {
	mu       sync.RWMutex
	latest   map[string]Submission
	received map[string]time.Time

	submissions chan Submission
	logger      *slog.Logger

	runCtx    context.Context
	runCancel context.CancelFunc
	runWg     sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Collector.
type Option func(*Collector)

// WithBuffer sets the submission channel buffer size (default: 64).
func WithBuffer(size int) Option {
	return func(c *Collector) {
		if size >= 0 {
			c.submissions = make(chan Submission, size)
		}
	}
}

// WithLogger sets the logger used for diagnostics (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a collector. Call Start to consume the submission channel, or
// use Submit directly.
func New(opts ...Option) *Collector {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Collector{
		latest:      make(map[string]Submission),
		received:    make(map[string]time.Time),
		submissions: make(chan Submission, 64),
		logger:      slog.Default(),
		runCtx:      ctx,
		runCancel:   cancel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submissions returns the channel workers can send pages on. It is consumed
// by the goroutine started with Start.
func (c *Collector) Submissions() chan<- Submission {
	return c.submissions
}

// Start consumes the submission channel in the background until ctx is done
// or Stop is called. A stopped collector cannot be started again, though
// Submit keeps working.
func (c *Collector) Start(ctx context.Context) {
	c.runWg.Add(1)
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	defer c.runWg.Done()

	for {
		select {
		case <-ctx.Done():
			c.drain()
			return
		case <-c.runCtx.Done():
			c.drain()
			return
		case sub := <-c.submissions:
			c.Submit(sub)
		}
	}
}

// drain applies submissions already buffered when the collector stops.
func (c *Collector) drain() {
	for {
		select {
		case sub := <-c.submissions:
			c.Submit(sub)
		default:
			return
		}
	}
}

// Stop ends the background consumer and waits for it to exit. Buffered
// submissions are applied first.
func (c *Collector) Stop() {
	c.closeOnce.Do(c.runCancel)
	c.runWg.Wait()
}

// Submit records the page as the latest state of its source, unless a page
// with a higher Seq was already received.
func (c *Collector) Submit(sub Submission) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.latest[sub.Source]; ok && sub.Seq < prev.Seq {
		c.logger.Debug("stale page dropped",
			slog.String("source", sub.Source), slog.Uint64("seq", sub.Seq), slog.Uint64("held", prev.Seq))
		return
	}

	c.latest[sub.Source] = sub
	c.received[sub.Source] = time.Now()

	c.logger.Debug("page received",
		slog.String("source", sub.Source), slog.Uint64("seq", sub.Seq), slog.Int("events", sub.Page.Len()))
}

// Sources returns the ids of every source that submitted a page, sorted.
func (c *Collector) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources := make([]string, 0, len(c.latest))
	for source := range c.latest {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	return sources
}

// LastSeen returns when source last submitted a page.
func (c *Collector) LastSeen(source string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.received[source]
	return t, ok
}

// Report merges the latest page of every source.
func (c *Collector) Report() (*metrics.Report, error) {
	c.mu.RLock()
	builder := metrics.NewReportBuilder()
	for _, sub := range c.latest {
		builder.AddPage(sub.Page)
	}
	c.mu.RUnlock()

	return builder.Build()
}
