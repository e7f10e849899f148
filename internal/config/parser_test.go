package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "standard seconds", input: "30s", expected: 30 * time.Second},
		{name: "milliseconds", input: "500ms", expected: 500 * time.Millisecond},
		{name: "combined duration", input: "1h30m", expected: 90 * time.Minute},
		{name: "integer seconds", input: "45", expected: 45 * time.Second},
		{name: "empty string", input: "", expected: 0},
		{name: "invalid", input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "checkout.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "checkout service", cfg.Name)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 200, cfg.Iterations)
	assert.Equal(t, 50*time.Millisecond, time.Duration(cfg.FlushInterval))
	assert.Equal(t, uint64(7), cfg.Seed)
	require.Len(t, cfg.Events, 3)

	assert.Equal(t, KindCounter, cfg.Events[0].Kind)
	assert.Nil(t, cfg.Events[0].Distribution)
	assert.Equal(t, uint64(1), cfg.Events[0].Count)

	assert.Equal(t, []float64{1, 4, 16, 64}, cfg.Events[1].Buckets)
	assert.Equal(t, DistUniform, cfg.Events[1].Distribution.Type)

	// kind inferred from buckets
	assert.Equal(t, KindHistogram, cfg.Events[2].Kind)
	assert.Equal(t, uint64(2), cfg.Events[2].Count)
}

func TestLoadConfig_JSON(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "checkout.json"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 100*time.Millisecond, time.Duration(cfg.Duration))
	assert.Equal(t, 0, cfg.Iterations, "duration-bound runs get no default iteration count")
	assert.Equal(t, DefaultFlushInterval, time.Duration(cfg.FlushInterval))
	assert.Equal(t, KindTimed, cfg.Events[1].Kind)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
events:
  - name: x
    kind: gauge
    colour: blue
`), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.GreaterOrEqual(t, len(verrs.Errors), 1)
}

func TestParseConfig_InvalidYAML(t *testing.T) {
	_, err := ParseConfig([]byte("name: [unterminated"), "x.yaml")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &WorkloadConfig{
		Name:   "d",
		Events: []EventConfig{{Name: "a"}, {Name: "b", Kind: KindTimed}},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultIterations, cfg.Iterations)
	assert.Equal(t, KindCounter, cfg.Events[0].Kind)
	require.NotNil(t, cfg.Events[1].Distribution)
	assert.Equal(t, DistConstant, cfg.Events[1].Distribution.Type)
}
