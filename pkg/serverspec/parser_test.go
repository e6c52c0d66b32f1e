package serverspec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webReport = `[
  {"hostname": "web1", "results": {"examples": [
    {"description": "should be running", "full_description": "Service lldpd should be running",
     "file_path": "./spec/all/lldpd_spec.rb", "line_number": 4, "status": "passed"},
    {"description": "should listen", "full_description": "Port 80 should listen",
     "file_path": "./spec/web/apache2_spec.rb", "line_number": 8, "status": "failed",
     "exception": {"class": "RSpec::Expectations::ExpectationNotMetError", "message": "expected port 80 to be listening",
                   "backtrace": ["./spec/web/apache2_spec.rb:9"]}}
  ], "summary": {"duration": 1.5, "example_count": 2, "failure_count": 1, "pending_count": 0}}},
  {"hostname": "web2", "results": {"examples": [
    {"file_path": "./spec/all/lldpd_spec.rb", "line_number": 4, "status": "pending", "pending_message": "not yet"}
  ]}}
]`

func TestParse_DecodesHostsAndExamples(t *testing.T) {
	report, err := Parse([]byte(webReport))
	require.NoError(t, err)
	require.Len(t, report, 2)

	web1 := report[0]
	assert.Equal(t, "web1", web1.Hostname)
	require.Len(t, web1.Results.Examples, 2)
	failed := web1.Results.Examples[1]
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "./spec/web/apache2_spec.rb", failed.FilePath)
	assert.Equal(t, 8, failed.LineNumber)
	require.NotNil(t, failed.Exception)
	assert.Equal(t, "expected port 80 to be listening", failed.Exception.Message)
	require.NotNil(t, web1.Results.Summary)
	assert.Equal(t, 1, web1.Results.Summary.FailureCount)

	assert.Equal(t, "not yet", report[1].Results.Examples[0].PendingMessage)
	assert.Nil(t, report[1].Results.Summary)
}

func TestParse_EmptyArrayAndNull(t *testing.T) {
	report, err := Parse([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, report)

	report, err = Parse([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Empty(t, report)
}

func TestParse_ReturnsError_When_NotJSON(t *testing.T) {
	_, err := Parse([]byte(`{bad`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding report")
}

func TestParseReader(t *testing.T) {
	report, err := ParseReader(strings.NewReader(webReport))
	require.NoError(t, err)
	assert.Len(t, report, 2)
}

func TestParseRSpec_SingleHost(t *testing.T) {
	raw := `{"version": "3.12.0", "examples": [
	  {"file_path": "./spec/db/mysql_spec.rb", "line_number": 3, "status": "passed"}
	], "summary_line": "1 example, 0 failures"}`

	h, err := ParseRSpec("db1", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "db1", h.Hostname)
	assert.Equal(t, "3.12.0", h.Results.Version)
	assert.Len(t, h.Results.Examples, 1)

	_, err = ParseRSpec("db1", []byte(`[`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db1")
}

func TestComputeStats(t *testing.T) {
	report, err := Parse([]byte(webReport))
	require.NoError(t, err)

	s := ComputeStats(report)
	assert.Equal(t, Stats{Hosts: 2, Examples: 3, Passed: 1, Failed: 1, Pending: 1, FailedHosts: 1}, s)
}

func TestReportBuilder_RoundTripsThroughParse(t *testing.T) {
	b := NewReportBuilder()
	require.NoError(t, b.AddRSpec("web1", []byte(`{"examples": [{"file_path": "./spec/web/nginx_spec.rb", "line_number": 2, "status": "passed"}]}`)))
	b.AddHost(HostResult{Hostname: "bare"})
	require.Error(t, b.AddRSpec("broken", []byte(`nope`)))

	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)

	report, err := Parse(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "web1", report[0].Hostname)
	assert.Equal(t, "bare", report[1].Hostname)
	assert.Equal(t, b.Report(), report)
}
