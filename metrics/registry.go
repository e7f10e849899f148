package metrics

import "context"

// Registry maps event names to the bags that accumulate their observations.
//
// A Registry belongs to exactly one goroutine. Create one per worker
// goroutine, build events from it and capture its ReportPage from the same
// goroutine. The zero value is not usable; call NewRegistry.
type Registry struct {
	noCopy noCopy

	bags map[string]*bag
}

// NewRegistry creates an empty registry for the calling goroutine.
func NewRegistry() *Registry {
	return &Registry{bags: make(map[string]*bag)}
}

// Event starts configuring an event backed by this registry.
func (r *Registry) Event() *EventBuilder {
	return NewEventBuilder(r)
}

// resolve returns the bag registered under name, creating it with the given
// buckets if needed. The first registration wins: buckets passed for a name
// that already exists are ignored.
func (r *Registry) resolve(name string, buckets []Magnitude) *bag {
	if b, ok := r.bags[name]; ok {
		return b
	}

	b := newBag(buckets)
	r.bags[name] = b
	return b
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	return len(r.bags)
}

// Clear drops every registered event. Events built before the call keep
// pointing at their old bags, which no longer contribute to report pages.
func (r *Registry) Clear() {
	clear(r.bags)
}

// ReportPage captures the current state of every registered event. Bags are
// not reset; pages are cumulative.
func (r *Registry) ReportPage() ReportPage {
	snapshots := make(map[string]Snapshot, len(r.bags))
	for name, b := range r.bags {
		snapshots[name] = b.snapshot()
	}
	return ReportPage{snapshots: snapshots}
}

type registryKey struct{}

// WithRegistry returns a context carrying reg. Use it to hand the owning
// goroutine's registry down a call chain; the context must not be passed to
// other goroutines that record observations.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, reg)
}

// RegistryFrom returns the registry carried by ctx, or nil.
func RegistryFrom(ctx context.Context) *Registry {
	reg, _ := ctx.Value(registryKey{}).(*Registry)
	return reg
}

// noCopy may be embedded into structs which must not be copied after first
// use. go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
