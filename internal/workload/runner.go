// Package workload drives synthetic observation traffic through the metrics
// core: a fixed pool of worker goroutines, each owning its own registry,
// periodically handing report pages to a collector.
package workload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/tally/internal/collector"
	"github.com/wesleyorama2/tally/internal/config"
	"github.com/wesleyorama2/tally/metrics"
)

// Result contains the outcome of a workload run.
type Result struct {
	// Name is the workload name
	Name string `json:"name" yaml:"name"`

	// Workers is the number of worker goroutines that ran
	Workers int `json:"workers" yaml:"workers"`

	// Elapsed is the wall-clock run time
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Report is the merged report of every worker's final page
	Report *metrics.Report `json:"report" yaml:"report"`

	// Overhead is the measured cost of counter and histogram observations
	Overhead OverheadStats `json:"overhead" yaml:"overhead"`
}

// Runner executes a workload configuration.
type Runner struct {
	cfg       *config.WorkloadConfig
	collector *collector.Collector
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCollector replaces the collector pages are submitted to.
func WithCollector(c *collector.Collector) Option {
	return func(r *Runner) {
		if c != nil {
			r.collector = c
		}
	}
}

// NewRunner creates a runner. cfg should already have defaults applied.
func NewRunner(cfg *config.WorkloadConfig, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.collector == nil {
		r.collector = collector.New(collector.WithLogger(r.logger))
	}
	return r
}

// Collector returns the collector receiving worker pages. Its Report can be
// polled while Run is in progress.
func (r *Runner) Collector() *collector.Collector {
	return r.collector
}

// Run starts the workers and blocks until they finish, the configured
// duration elapses or ctx is cancelled. Cancellation is not an error: the
// result reflects whatever the workers recorded.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.cfg.Workers <= 0 {
		return nil, fmt.Errorf("workload %q: workers must be positive", r.cfg.Name)
	}

	runCtx := ctx
	if d := time.Duration(r.cfg.Duration); d > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	r.collector.Start(runCtx)
	defer r.collector.Stop()

	start := time.Now()
	recorders := make([]*overheadRecorder, r.cfg.Workers)

	g, gctx := errgroup.WithContext(runCtx)
	for i := range r.cfg.Workers {
		g.Go(func() error {
			rec, err := r.runWorker(gctx, i)
			recorders[i] = rec
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.collector.Stop()

	report, err := r.collector.Report()
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:     r.cfg.Name,
		Workers:  r.cfg.Workers,
		Elapsed:  time.Since(start),
		Report:   report,
		Overhead: mergeOverhead(recorders),
	}, nil
}

// workerEvent is one configured event bound to a worker's registry.
type workerEvent struct {
	cfg    *config.EventConfig
	event  *metrics.Event
	sample sampler
}

// runWorker owns a registry for its whole life; nothing it builds escapes
// the goroutine except report pages.
func (r *Runner) runWorker(ctx context.Context, id int) (*overheadRecorder, error) {
	source := fmt.Sprintf("worker-%d", id)
	logger := r.logger.With(slog.String("source", source))

	reg := metrics.NewRegistry()
	rng := rand.New(rand.NewPCG(r.cfg.Seed, uint64(id)))
	overhead := newOverheadRecorder()

	events := make([]workerEvent, 0, len(r.cfg.Events))
	for i := range r.cfg.Events {
		ec := &r.cfg.Events[i]
		ev, err := reg.Event().Name(ec.Name).Buckets(ec.Buckets...).Build()
		if err != nil {
			return overhead, fmt.Errorf("%s: event %d: %w", source, i, err)
		}
		events = append(events, workerEvent{cfg: ec, event: ev, sample: newSampler(ec.Distribution, rng)})
	}

	pace := newPacer(r.cfg.Rate)
	flushInterval := r.cfg.FlushInterval.GetDuration(config.DefaultFlushInterval)
	lastFlush := time.Now()
	var seq uint64

	logger.Debug("worker started", slog.Int("events", len(events)))

	iterations := 0
	for r.cfg.Iterations == 0 || iterations < r.cfg.Iterations {
		if pace.wait(ctx) != nil {
			break
		}

		for _, we := range events {
			r.observe(ctx, we, overhead)
		}
		iterations++

		if time.Since(lastFlush) >= flushInterval {
			seq++
			r.flush(ctx, collector.Submission{Source: source, Seq: seq, Page: reg.ReportPage()})
			lastFlush = time.Now()
		}
	}

	// The final page bypasses the channel since the consumer may already be
	// gone; its Seq keeps any still-buffered page from replacing it.
	r.collector.Submit(collector.Submission{Source: source, Seq: seq + 1, Page: reg.ReportPage()})

	logger.Debug("worker finished", slog.Int("iterations", iterations))
	return overhead, nil
}

func (r *Runner) observe(ctx context.Context, we workerEvent, overhead *overheadRecorder) {
	switch we.cfg.Kind {
	case config.KindTimed:
		_, err := metrics.TimeContext(ctx, we.event, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, sleep(ctx, secondsToDuration(we.sample()))
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("timed operation failed", slog.String("event", we.cfg.Name), slog.Any("error", err))
		}
	case config.KindHistogram:
		magnitude := we.sample()
		overhead.measure(func() { we.event.ObserveMany(magnitude, we.cfg.Count) })
	default:
		if we.cfg.Count <= 1 {
			overhead.measure(we.event.ObserveUnit)
		} else {
			overhead.measure(func() { we.event.ObserveMany(1, we.cfg.Count) })
		}
	}
}

// flush hands an intermediate page to the collector without blocking past
// cancellation.
func (r *Runner) flush(ctx context.Context, sub collector.Submission) {
	select {
	case r.collector.Submissions() <- sub:
	case <-ctx.Done():
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
