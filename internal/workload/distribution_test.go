package workload

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/tally/internal/config"
)

func TestSampler(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	assert.Equal(t, 1.0, newSampler(nil, rng)())
	assert.Equal(t, 7.0, newSampler(&config.DistributionConfig{Type: config.DistConstant, Value: 7}, rng)())

	uniform := newSampler(&config.DistributionConfig{Type: config.DistUniform, Min: 2, Max: 4}, rng)
	exp := newSampler(&config.DistributionConfig{Type: config.DistExponential, Mean: 3}, rng)
	for range 1000 {
		v := uniform()
		assert.GreaterOrEqual(t, v, 2.0)
		assert.Less(t, v, 4.0)
		assert.GreaterOrEqual(t, exp(), 0.0)
	}

	normal := newSampler(&config.DistributionConfig{Type: config.DistNormal, Mean: 10, StdDev: 0}, rng)
	assert.Equal(t, 10.0, normal())
}

func TestMergeOverhead_Empty(t *testing.T) {
	stats := mergeOverhead([]*overheadRecorder{nil, newOverheadRecorder()})
	assert.Equal(t, int64(0), stats.Count)
}

func TestOverheadRecorder(t *testing.T) {
	a, b := newOverheadRecorder(), newOverheadRecorder()
	for range 10 {
		a.measure(func() {})
		b.measure(func() {})
	}

	stats := mergeOverhead([]*overheadRecorder{a, b})
	assert.Equal(t, int64(20), stats.Count)
	assert.GreaterOrEqual(t, stats.Max, stats.P50)
}
