package serverspec

import (
	"encoding/json"
	"io"
)

// ReportBuilder assembles per-host RSpec runs into one report document.
// Used by `specmatrix merge` and importable as a library.
type ReportBuilder struct {
	report Report
}

// NewReportBuilder creates an empty report builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{report: Report{}}
}

// AddHost appends an already decoded host result.
func (b *ReportBuilder) AddHost(h HostResult) *ReportBuilder {
	b.report = append(b.report, h)
	return b
}

// AddRSpec decodes raw RSpec JSON output for hostname and appends it.
func (b *ReportBuilder) AddRSpec(hostname string, data []byte) error {
	h, err := ParseRSpec(hostname, data)
	if err != nil {
		return err
	}
	b.AddHost(h)
	return nil
}

// Report returns the assembled report.
func (b *ReportBuilder) Report() Report {
	return b.report
}

// WriteTo writes the report as indented JSON to w.
func (b *ReportBuilder) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(b.report, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}
