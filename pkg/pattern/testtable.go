package pattern

// TestTable lists individual test results, e.g. the failures of one host.
type TestTable struct {
	Label   string          `json:"label"`
	Source  string          `json:"source,omitempty"` // hostname the results belong to
	Results []TestTableItem `json:"results"`
}

// TestTableItem is a single test result.
type TestTableItem struct {
	Name     string `json:"name"`               // role/spec:line
	Status   string `json:"status"`             // "pass", "fail", "skip", "missing"
	Duration string `json:"duration,omitempty"` // formatted run time
	Details  string `json:"details,omitempty"`  // description, exception, source snippet
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
