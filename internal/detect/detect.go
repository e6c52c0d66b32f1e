// Package detect sniffs input to determine whether it is a multi-host report
// or a single host's raw rspec output.
package detect

import (
	"bytes"
	"encoding/json"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown Format = iota
	Report         // JSON array of {"hostname", "results"} records
	RSpec          // one `rspec --format json` document
)

func (f Format) String() string {
	switch f {
	case Report:
		return "report"
	case RSpec:
		return "rspec"
	default:
		return "unknown"
	}
}

// Sniff examines the input to determine format.
func Sniff(data []byte) Format {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	switch data[0] {
	case '[':
		if isReport(data) {
			return Report
		}
	case '{':
		if isRSpec(data) {
			return RSpec
		}
	}
	return Unknown
}

func isReport(data []byte) bool {
	var probe []struct {
		Hostname *string         `json:"hostname"`
		Results  json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	// An empty array is an empty report.
	for _, h := range probe {
		if h.Hostname == nil {
			return false
		}
	}
	return true
}

func isRSpec(data []byte) bool {
	var probe struct {
		Examples []json.RawMessage `json:"examples"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Examples != nil
}
