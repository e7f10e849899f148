package workload

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Overhead histogram range: 1ns to 1s, 3 significant figures.
const (
	overheadMin     = 1
	overheadMax     = int64(time.Second)
	overheadSigFigs = 3
)

// OverheadStats describes the cost of a single observation call.
type OverheadStats struct {
	Count int64         `json:"count" yaml:"count"`
	Mean  time.Duration `json:"mean" yaml:"mean"`
	P50   time.Duration `json:"p50" yaml:"p50"`
	P99   time.Duration `json:"p99" yaml:"p99"`
	Max   time.Duration `json:"max" yaml:"max"`
}

// overheadRecorder is owned by one worker goroutine, like its registry.
type overheadRecorder struct {
	hist *hdrhistogram.Histogram
}

func newOverheadRecorder() *overheadRecorder {
	return &overheadRecorder{
		hist: hdrhistogram.New(overheadMin, overheadMax, overheadSigFigs),
	}
}

// measure runs f and records how long it took.
func (o *overheadRecorder) measure(f func()) {
	start := time.Now()
	f()
	ns := time.Since(start).Nanoseconds()

	// Clamp to valid range
	if ns < overheadMin {
		ns = overheadMin
	}
	if ns > overheadMax {
		ns = overheadMax
	}
	_ = o.hist.RecordValue(ns)
}

// mergeOverhead combines worker histograms once all workers are done.
func mergeOverhead(recorders []*overheadRecorder) OverheadStats {
	total := hdrhistogram.New(overheadMin, overheadMax, overheadSigFigs)
	for _, r := range recorders {
		if r != nil {
			total.Merge(r.hist)
		}
	}

	return OverheadStats{
		Count: total.TotalCount(),
		Mean:  time.Duration(total.Mean()),
		P50:   time.Duration(total.ValueAtQuantile(50)),
		P99:   time.Duration(total.ValueAtQuantile(99)),
		Max:   time.Duration(total.Max()),
	}
}
