package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is a frozen copy of one event's state. Treat it as read-only:
// BucketMagnitudes is shared with the live bag.
type Snapshot struct {
	// Count is the total number of observations
	Count uint64 `json:"count" yaml:"count"`

	// Sum is the sum of magnitude*count over all observations
	Sum Magnitude `json:"sum" yaml:"sum"`

	// BucketCounts holds one count per bucket, parallel to BucketMagnitudes
	BucketCounts []uint64 `json:"bucketCounts,omitempty" yaml:"bucketCounts,omitempty"`

	// BucketMagnitudes are the upper-inclusive bucket bounds, ascending
	BucketMagnitudes []Magnitude `json:"bucketMagnitudes,omitempty" yaml:"bucketMagnitudes,omitempty"`
}

// Merge returns the sum of s and other. Both must have the same number of
// buckets; magnitudes are taken from s when it has any.
func (s Snapshot) Merge(other Snapshot) (Snapshot, error) {
	if len(s.BucketCounts) != len(other.BucketCounts) {
		return Snapshot{}, fmt.Errorf("%w: %d buckets vs %d",
			ErrBucketMismatch, len(s.BucketCounts), len(other.BucketCounts))
	}
	for _, side := range []Snapshot{s, other} {
		if err := side.checkBuckets(); err != nil {
			return Snapshot{}, err
		}
	}

	counts := make([]uint64, len(s.BucketCounts))
	for i := range counts {
		counts[i] = s.BucketCounts[i] + other.BucketCounts[i]
	}

	magnitudes := s.BucketMagnitudes
	if magnitudes == nil {
		magnitudes = other.BucketMagnitudes
	}

	return Snapshot{
		Count:            s.Count + other.Count,
		Sum:              s.Sum + other.Sum,
		BucketCounts:     counts,
		BucketMagnitudes: magnitudes,
	}, nil
}

// checkBuckets verifies there is one bound per bucket count. Snapshots
// rebuilt through NewReportPage may lack bounds.
func (s Snapshot) checkBuckets() error {
	if len(s.BucketMagnitudes) != len(s.BucketCounts) {
		return fmt.Errorf("%w: %d bucket counts but %d bounds",
			ErrBucketMismatch, len(s.BucketCounts), len(s.BucketMagnitudes))
	}
	return nil
}

// IsCounter reports whether the event looks like a counter: every
// observation had magnitude 1, so count equals sum.
func (s Snapshot) IsCounter() bool {
	return Magnitude(s.Count) == s.Sum
}

// Mean returns Sum/Count, or 0 when there are no observations.
func (s Snapshot) Mean() Magnitude {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / Magnitude(s.Count)
}

// InfBucket returns the number of observations above every finite bucket.
func (s Snapshot) InfBucket() uint64 {
	var finite uint64
	for _, c := range s.BucketCounts {
		finite += c
	}
	return s.Count - finite
}

// String renders the snapshot as it appears in a report, without the name.
func (s Snapshot) String() string {
	var sb strings.Builder
	s.render(&sb)
	return sb.String()
}

func (s Snapshot) render(sb *strings.Builder) {
	switch {
	case s.Count == 0:
		sb.WriteString("0\n")
		return
	case s.IsCounter():
		fmt.Fprintf(sb, "%d (counter)\n", s.Count)
	default:
		fmt.Fprintf(sb, "%d; sum %s; avg %s\n", s.Count, FormatMagnitude(s.Sum), FormatMagnitude(s.Mean()))
	}

	if len(s.BucketCounts) == 0 {
		return
	}

	for i, c := range s.BucketCounts {
		bound := "?"
		if i < len(s.BucketMagnitudes) {
			bound = FormatMagnitude(s.BucketMagnitudes[i])
		}
		fmt.Fprintf(sb, "  bucket <= %s: %d\n", bound, c)
	}
	fmt.Fprintf(sb, "  bucket +Inf: %d\n", s.InfBucket())
}

// FormatMagnitude formats m in its shortest exact form ("85", "3.4", "0.001").
func FormatMagnitude(m Magnitude) string {
	return strconv.FormatFloat(m, 'g', -1, 64)
}
