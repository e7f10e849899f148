package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/tally/internal/workload"
	"github.com/wesleyorama2/tally/metrics"
)

func testResult(t *testing.T) *workload.Result {
	t.Helper()

	reg := metrics.NewRegistry()
	requests := reg.Event().Name("requests").MustBuild()
	for range 4 {
		requests.ObserveUnit()
	}

	size := reg.Event().Name("db.rows").Buckets(1, 10).MustBuild()
	size.Observe(0.5)
	size.Observe(5)
	size.Observe(5)
	size.Observe(50)

	reg.Event().Name("idle").MustBuild()

	report, err := metrics.NewReportBuilder().AddPage(reg.ReportPage()).Build()
	require.NoError(t, err)

	return &workload.Result{
		Name:    "demo",
		Workers: 2,
		Elapsed: 1500 * time.Millisecond,
		Report:  report,
		Overhead: workload.OverheadStats{
			Count: 10, P50: 40 * time.Nanosecond, P99: 90 * time.Nanosecond, Max: time.Microsecond,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, testResult(t), Options{}))

	want := "db.rows: 4; sum 60.5; avg 15.125\n" +
		"  bucket <= 1: 1\n" +
		"  bucket <= 10: 2\n" +
		"  bucket +Inf: 1\n" +
		"idle: 0\n" +
		"requests: 4 (counter)\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_Console(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatConsole, testResult(t), Options{Scheme: NoColorScheme()}))

	out := buf.String()
	assert.Contains(t, out, "━━ demo ━━")
	assert.Contains(t, out, "workers  2")
	assert.Contains(t, out, "elapsed  1.5s")
	assert.Contains(t, out, "overhead p50 40ns, p99 90ns")
	assert.Contains(t, out, "requests: 4 (counter)")
	assert.Contains(t, out, "db.rows: 4; sum 60.5; avg 15.125")
	assert.Contains(t, out, "  <= 10 "+strings.Repeat(progressFill, 15)+strings.Repeat(progressEmpty, 15)+" 2\n")
	assert.Contains(t, out, "  +Inf  ")
	assert.NotContains(t, out, "\x1b[", "no escape codes without a color scheme")
}

func TestConsoleRenderer_MissingBucketBounds(t *testing.T) {
	report := &metrics.Report{Events: map[string]metrics.Snapshot{
		"size": {Count: 3, Sum: 7, BucketCounts: []uint64{1, 1}},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewConsoleRenderer(nil).RenderReport(&buf, report))
	assert.Contains(t, buf.String(), "  <= ? ")
	assert.Contains(t, buf.String(), "  +Inf ")
}

func TestWrite_ConsoleForcedColors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatConsole, testResult(t), Options{Scheme: ForceColorScheme()}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestColorScheme_Icons(t *testing.T) {
	plain := NoColorScheme()
	assert.Equal(t, "✓", plain.SuccessIcon())
	assert.Equal(t, "✗", plain.ErrorIcon())

	colored := ForceColorScheme()
	assert.Contains(t, colored.SuccessIcon(), "\x1b[32m")
	assert.Contains(t, colored.ErrorIcon(), "\x1b[31m")
}

func TestWrite_JSONAndQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, testResult(t), Options{}))

	json := buf.String()
	tests := map[string]string{
		"$.name":                                     "demo",
		"$.report.events.requests.count":             "4",
		"$.report.events['db.rows'].sum":             "60.5",
		`$.report.events["db.rows"].bucketCounts[1]`: "2",
		"$.overhead.count":                           "10",
	}
	for path, want := range tests {
		got, err := Query(json, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := Query(json, "$.report.events.missing")
	assert.Error(t, err)
	_, err = Query("", "$.name")
	assert.Error(t, err)
	_, err = Query(json, "")
	assert.Error(t, err)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, testResult(t), Options{}))

	var decoded struct {
		Name   string `yaml:"name"`
		Report struct {
			Events map[string]metrics.Snapshot `yaml:"events"`
		} `yaml:"report"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded.Name)
	assert.Equal(t, uint64(4), decoded.Report.Events["requests"].Count)
	assert.Equal(t, []uint64{1, 2}, decoded.Report.Events["db.rows"].BucketCounts)
}

func TestWrite_Prometheus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPrometheus, testResult(t), Options{Namespace: "tally"}))

	out := buf.String()
	assert.Contains(t, out, "tally_requests_total 4")
	assert.Contains(t, out, `tally_db_rows_bucket{le="10"} 3`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, OutputFormat("xml"), testResult(t), Options{}))
}

func TestToGjsonPath(t *testing.T) {
	tests := map[string]string{
		"$":                       "@this",
		"$.a.b":                   "a.b",
		"a[0].b":                  "a.0.b",
		"$['x.y'].z":              `x\.y.z`,
		`$["k"][2]`:               "k.2",
		"$.report.events.a.count": "report.events.a.count",
	}
	for in, want := range tests {
		assert.Equal(t, want, toGjsonPath(in), in)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(progressEmpty, barWidth), progressBar(0, 0))
	assert.Equal(t, strings.Repeat(progressFill, barWidth), progressBar(5, 5))
	assert.Equal(t, strings.Repeat(progressFill, 10)+strings.Repeat(progressEmpty, 20), progressBar(1, 3))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
