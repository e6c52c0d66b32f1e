// Package serverspec decodes serverspec (RSpec JSON formatter) results collected per host.
package serverspec

// Example statuses reported by RSpec, plus the synthesized missing placeholder.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusPending = "pending"
	StatusMissing = "missing"
)

// Example is a single RSpec example as emitted by the JSON formatter.
type Example struct {
	ID              string     `json:"id,omitempty"`
	Description     string     `json:"description,omitempty"`
	FullDescription string     `json:"full_description,omitempty"`
	Status          string     `json:"status"`
	FilePath        string     `json:"file_path,omitempty"`
	LineNumber      int        `json:"line_number,omitempty"`
	RunTime         float64    `json:"run_time,omitempty"`
	PendingMessage  string     `json:"pending_message,omitempty"`
	Exception       *Exception `json:"exception,omitempty"`
}

// Exception is the structured error attached to a failed example.
type Exception struct {
	Class     string   `json:"class"`
	Message   string   `json:"message"`
	Backtrace []string `json:"backtrace,omitempty"`
}

// Summary is RSpec's run summary. Optional in reports.
type Summary struct {
	Duration     float64 `json:"duration"`
	ExampleCount int     `json:"example_count"`
	FailureCount int     `json:"failure_count"`
	PendingCount int     `json:"pending_count"`
}

// Results is one RSpec run: the examples and an optional summary.
type Results struct {
	Version     string    `json:"version,omitempty"`
	Examples    []Example `json:"examples"`
	Summary     *Summary  `json:"summary,omitempty"`
	SummaryLine string    `json:"summary_line,omitempty"`
}

// HostResult is the outcome of running the suite against one host.
type HostResult struct {
	Hostname string  `json:"hostname"`
	Results  Results `json:"results"`
}

// Report is the ordered collection of host results for one run.
type Report []HostResult

// Missing returns the placeholder used when a host has no example for a test.
func Missing() Example {
	return Example{Status: StatusMissing}
}
