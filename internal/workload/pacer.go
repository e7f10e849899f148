package workload

import (
	"context"
	"time"
)

// pacer schedules worker iterations at a fixed rate using a leaky bucket:
// a virtual drip time advances at the configured rate and each iteration
// waits for the next drip. Being late never causes a burst.
//
// A pacer belongs to one worker goroutine and is not locked.
type pacer struct {
	interval time.Duration
	next     time.Time
}

// newPacer returns nil for a non-positive rate, meaning "unpaced".
func newPacer(ratePerSecond float64) *pacer {
	if ratePerSecond <= 0 {
		return nil
	}
	return &pacer{
		interval: time.Duration(float64(time.Second) / ratePerSecond),
		next:     time.Now(),
	}
}

// wait blocks until the next iteration may start. A nil pacer never waits.
func (p *pacer) wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}

	now := time.Now()
	if p.next.Before(now) {
		// Behind schedule: run now and restart the drip from here.
		p.next = now
	}
	start := p.next
	p.next = start.Add(p.interval)

	d := start.Sub(now)
	if d <= 0 {
		return ctx.Err()
	}
	return sleep(ctx, d)
}
