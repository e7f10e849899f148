package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *WorkloadConfig {
	return &WorkloadConfig{
		Name: "ok",
		Events: []EventConfig{
			{Name: "hits"},
			{Name: "size", Buckets: []float64{1, 2, 3}, Distribution: &DistributionConfig{Type: DistUniform, Min: 0, Max: 4}},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *WorkloadConfig)
		field  string
	}{
		{"missing name", func(c *WorkloadConfig) { c.Name = "" }, "name"},
		{"negative workers", func(c *WorkloadConfig) { c.Workers = -1 }, "workers"},
		{"negative rate", func(c *WorkloadConfig) { c.Rate = -1 }, "rate"},
		{"no events", func(c *WorkloadConfig) { c.Events = nil }, "events"},
		{"unnamed event", func(c *WorkloadConfig) { c.Events[0].Name = "" }, "events[0].name"},
		{"duplicate event", func(c *WorkloadConfig) { c.Events[1].Name = "hits" }, "events[1].name"},
		{"unknown kind", func(c *WorkloadConfig) { c.Events[0].Kind = "gauge" }, "events[0].kind"},
		{"descending buckets", func(c *WorkloadConfig) { c.Events[1].Buckets = []float64{1, 3, 2} }, "events[1].buckets[2]"},
		{"equal buckets", func(c *WorkloadConfig) { c.Events[1].Buckets = []float64{1, 1} }, "events[1].buckets[1]"},
		{"uniform max below min", func(c *WorkloadConfig) { c.Events[1].Distribution.Min = 5 }, "events[1].distribution.max"},
		{"exponential without mean", func(c *WorkloadConfig) {
			c.Events[1].Distribution = &DistributionConfig{Type: DistExponential}
		}, "events[1].distribution.mean"},
		{"counter with distribution", func(c *WorkloadConfig) {
			c.Events[0].Kind = KindCounter
			c.Events[0].Distribution = &DistributionConfig{Type: DistConstant}
		}, "events[0].distribution"},
		{"negative timed sleep", func(c *WorkloadConfig) {
			c.Events[1].Kind = KindTimed
			c.Events[1].Distribution = &DistributionConfig{Type: DistConstant, Value: -1}
		}, "events[1].distribution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs))

			var fields []string
			for _, e := range verrs.Errors {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{}
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("name", "name is required")
	assert.Equal(t, "validation error on field 'name': name is required", errs.Error())

	errs.Add("", "something else")
	assert.Contains(t, errs.Error(), "2 validation errors:")
	assert.Contains(t, errs.Error(), "validation error: something else")
}

func TestValidateSchema(t *testing.T) {
	assert.NoError(t, ValidateSchema([]byte("name: x\nevents:\n  - name: a\n"), "x.yaml"))
	assert.NoError(t, ValidateSchema([]byte(`{"name":"x","events":[{"name":"a","buckets":[1,2]}]}`), "x.json"))

	err := ValidateSchema([]byte("name: x\nevents: []\n"), "x.yaml")
	assert.Error(t, err)

	err = ValidateSchema([]byte(`{"name":"x"`), "x.json")
	assert.Error(t, err)
}
