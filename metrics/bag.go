package metrics

// Magnitude is the value attached to an observation.
type Magnitude = float64

// bag collects every observation made about one event on one goroutine.
//
// Fields are plain values: a bag is only ever touched by the goroutine
// owning its registry.
type bag struct {
	count        uint64
	sum          Magnitude
	bucketCounts []uint64

	// Upper-inclusive bounds, ascending. Shared with every snapshot.
	bucketMagnitudes []Magnitude
}

func newBag(buckets []Magnitude) *bag {
	return &bag{
		bucketCounts:     make([]uint64, len(buckets)),
		bucketMagnitudes: buckets,
	}
}

// insert folds count observations of the given magnitude into the bag.
// The observation lands in the first bucket whose bound is >= magnitude, or
// in no finite bucket at all (it is then reported under +Inf).
func (b *bag) insert(magnitude Magnitude, count uint64) {
	b.count += count
	b.sum += magnitude * Magnitude(count)

	// Bucket lists are short, a linear scan beats a binary search here.
	for i, upper := range b.bucketMagnitudes {
		if magnitude <= upper {
			b.bucketCounts[i] += count
			break
		}
	}
}

func (b *bag) snapshot() Snapshot {
	counts := make([]uint64, len(b.bucketCounts))
	copy(counts, b.bucketCounts)

	return Snapshot{
		Count:            b.count,
		Sum:              b.sum,
		BucketCounts:     counts,
		BucketMagnitudes: b.bucketMagnitudes,
	}
}
