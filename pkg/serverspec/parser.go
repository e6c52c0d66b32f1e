package serverspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Parse decodes a report document: a JSON array of host records, each
// carrying the host name and that host's RSpec JSON output.
func Parse(data []byte) (Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	if report == nil {
		report = Report{}
	}
	return report, nil
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) (Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return Parse(data)
}

// ParseRSpec decodes the raw `rspec --format json` output of a single host.
func ParseRSpec(hostname string, data []byte) (HostResult, error) {
	var results Results
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&results); err != nil {
		return HostResult{}, fmt.Errorf("decoding rspec output for %s: %w", hostname, err)
	}
	return HostResult{Hostname: hostname, Results: results}, nil
}
