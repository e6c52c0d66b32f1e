package pattern

import "github.com/dkoosis/specmatrix/pkg/serverspec"

// HostMatrix is one role set's table of hosts × tests.
// Field names follow the JSON output contract.
type HostMatrix struct {
	Label      string          `json:"label"`   // e.g. "(all, web)"
	RoleSet    []string        `json:"roleSet"` // sorted role names
	Roles      []MatrixRole    `json:"roles"`
	Specs      []MatrixSpec    `json:"specs"`
	Rows       []MatrixHostRow `json:"rows"`
	TotalTests int             `json:"totalTests"`
}

// MatrixRole is a column group: one role, its test count and its specs.
type MatrixRole struct {
	Name      string            `json:"name"`
	TestCount int               `json:"testCount"`
	Specs     []MatrixSpecCount `json:"specs"`
}

// MatrixSpecCount is one spec nested under its role.
type MatrixSpecCount struct {
	Name      string `json:"name"`
	TestCount int    `json:"testCount"`
}

// MatrixSpec is a column sub-group: one spec within a role.
type MatrixSpec struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	TestCount int    `json:"testCount"`
}

// MatrixHostRow is one host's line across every column.
type MatrixHostRow struct {
	Hostname     string       `json:"hostname"`
	SuccessCount int          `json:"successCount"`
	FailureCount int          `json:"failureCount"`
	Color        string       `json:"color"` // "#rrggbb"
	Cells        []MatrixCell `json:"cells"`
}

// MatrixCell is one host/test result. Test is the host's own example, or a
// bare {"status": "missing"} placeholder.
type MatrixCell struct {
	Role   string             `json:"role"`
	Spec   string             `json:"spec"`
	Line   int                `json:"line"`
	Status string             `json:"display"` // derived from Test.Status: "pass", "fail", "skip", "missing"
	Test   serverspec.Example `json:"test"`
}

func (m *HostMatrix) Type() PatternType { return PatternTypeHostMatrix }
