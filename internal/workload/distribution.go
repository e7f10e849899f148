package workload

import (
	"math/rand/v2"

	"github.com/wesleyorama2/tally/internal/config"
)

// sampler draws one magnitude.
type sampler func() float64

func newSampler(d *config.DistributionConfig, rng *rand.Rand) sampler {
	if d == nil {
		return func() float64 { return 1 }
	}

	switch d.Type {
	case config.DistUniform:
		return func() float64 { return d.Min + rng.Float64()*(d.Max-d.Min) }
	case config.DistExponential:
		return func() float64 { return rng.ExpFloat64() * d.Mean }
	case config.DistNormal:
		return func() float64 { return rng.NormFloat64()*d.StdDev + d.Mean }
	default:
		v := d.Value
		return func() float64 { return v }
	}
}
