package metrics

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Event records observations of one named event. Build it with an
// EventBuilder.
//
// An Event is confined to the goroutine owning the registry it was built
// from. Several Events with the same name on that goroutine share one bag.
type Event struct {
	noCopy noCopy

	bag *bag
}

// ObserveUnit records one observation of magnitude 1. An event that only
// receives unit observations is a counter and is reported as such.
func (e *Event) ObserveUnit() {
	e.bag.insert(1, 1)
}

// Observe records one observation of the given magnitude.
func (e *Event) Observe(magnitude Magnitude) {
	e.bag.insert(magnitude, 1)
}

// ObserveMany records count observations of the given magnitude.
func (e *Event) ObserveMany(magnitude Magnitude, count uint64) {
	e.bag.insert(magnitude, count)
}

// ObserveDuration runs f and records its wall-clock duration in seconds.
func (e *Event) ObserveDuration(f func()) {
	start := time.Now()
	f()
	e.bag.insert(time.Since(start).Seconds(), 1)
}

// Time runs f, records its wall-clock duration in seconds on e and returns
// its result.
func Time[R any](e *Event, f func() R) R {
	start := time.Now()
	result := f()
	e.bag.insert(time.Since(start).Seconds(), 1)
	return result
}

// TimeContext runs an operation that may block or wait on ctx and records
// the elapsed wall-clock time across the whole call, including time spent
// waiting. Nothing is recorded if f gave up because ctx was cancelled or
// timed out; an operation that completes is recorded even when ctx expired
// meanwhile.
func TimeContext[R any](ctx context.Context, e *Event, f func(context.Context) (R, error)) (R, error) {
	start := time.Now()
	result, err := f(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return result, err
	}
	e.bag.insert(time.Since(start).Seconds(), 1)
	return result, err
}

// EventBuilder configures an Event.
//
//	ev, err := reg.Event().Name("query_seconds").Buckets(0.01, 0.1, 1).Build()
type EventBuilder struct {
	registry *Registry
	name     string
	hasName  bool
	buckets  []Magnitude
}

// NewEventBuilder creates a builder that registers events in reg.
func NewEventBuilder(reg *Registry) *EventBuilder {
	return &EventBuilder{registry: reg}
}

// Name sets the event name. Required.
func (b *EventBuilder) Name(name string) *EventBuilder {
	b.name = name
	b.hasName = true
	return b
}

// Buckets sets the ascending upper bounds of the event's histogram. The
// order is not checked. Without buckets the event only tracks count and sum.
func (b *EventBuilder) Buckets(upperBounds ...Magnitude) *EventBuilder {
	b.buckets = slices.Clone(upperBounds)
	return b
}

// Build resolves the event in the registry. If the name is already
// registered the existing bag is reused and the configured buckets are
// ignored.
func (b *EventBuilder) Build() (*Event, error) {
	if !b.hasName {
		return nil, &ConfigurationError{Field: "name", Message: "name is required"}
	}
	if b.registry == nil {
		return nil, &ConfigurationError{Field: "registry", Message: "registry is required"}
	}

	return &Event{bag: b.registry.resolve(b.name, b.buckets)}, nil
}

// MustBuild is like Build but panics on a configuration error.
func (b *EventBuilder) MustBuild() *Event {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}
