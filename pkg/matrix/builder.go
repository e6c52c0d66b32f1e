package matrix

import (
	"slices"

	"github.com/dkoosis/specmatrix/pkg/serverspec"
)

// Section is the matrix for one role set.
type Section struct {
	RoleSet    RoleSet       `json:"roleSet"`
	Roles      []RoleSummary `json:"roles"`
	Specs      []SpecRef     `json:"specs"`
	Columns    []Identity    `json:"columns"`
	Rows       []Row         `json:"rows"`
	TotalTests int           `json:"totalTests"`
}

// RoleSummary counts the columns of one role, split by spec.
type RoleSummary struct {
	Name      string        `json:"name"`
	TestCount int           `json:"testCount"`
	Specs     []SpecSummary `json:"specs"`
}

// SpecSummary counts the columns of one spec within a role.
type SpecSummary struct {
	Name      string `json:"name"`
	TestCount int    `json:"testCount"`
}

// SpecRef is a spec paired with its owning role, in column order.
type SpecRef struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	TestCount int    `json:"testCount"`
}

// Row is one host's results laid out along a section's columns.
type Row struct {
	Hostname     string `json:"hostname"`
	SuccessCount int    `json:"successCount"`
	FailureCount int    `json:"failureCount"`
	Color        string `json:"color"`
	Cells        []Cell `json:"cells"`
}

// Cell is the result of one host for one column.
type Cell struct {
	Role string             `json:"role"`
	Spec string             `json:"spec"`
	Line int                `json:"line"`
	Test serverspec.Example `json:"test"`
}

// Missing reports whether the host had no example for this column.
func (c Cell) Missing() bool {
	return c.Test.Status == serverspec.StatusMissing
}

// Identity returns the column identity of the cell.
func (c Cell) Identity() Identity {
	return Identity{Role: c.Role, Spec: c.Spec, Line: c.Line}
}

// Build aggregates a report into one section per distinct role set, ordered
// as DistinctRoleSets orders them.
func Build(report serverspec.Report) []Section {
	hostSets := hostRoleSets(report)
	sets := distinct(hostSets)

	sections := make([]Section, 0, len(sets))
	for _, rs := range sets {
		sections = append(sections, buildSection(report, hostSets, rs))
	}
	return sections
}

func buildSection(report serverspec.Report, hostSets []RoleSet, rs RoleSet) Section {
	columns := catalog(report, rs)
	roles, specs := summarize(columns)

	var rows []Row
	for i, h := range report {
		if hostSets[i].Equal(rs) {
			rows = append(rows, buildRow(h, columns))
		}
	}
	if rows == nil {
		rows = []Row{}
	}

	return Section{
		RoleSet:    rs,
		Roles:      roles,
		Specs:      specs,
		Columns:    columns,
		Rows:       rows,
		TotalTests: len(columns),
	}
}

// catalog collects the identities of every example in the report, from any
// host, whose role belongs to rs. The result is sorted and duplicate-free.
func catalog(report serverspec.Report, rs RoleSet) []Identity {
	seen := make(map[Identity]bool)
	columns := []Identity{}
	for _, h := range report {
		for _, e := range h.Results.Examples {
			id, ok := Resolve(e)
			if !ok || !rs.Contains(id.Role) || seen[id] {
				continue
			}
			seen[id] = true
			columns = append(columns, id)
		}
	}
	slices.SortFunc(columns, Identity.Compare)
	return columns
}

// summarize groups sorted columns by role, then by spec.
func summarize(columns []Identity) ([]RoleSummary, []SpecRef) {
	roles := []RoleSummary{}
	for _, id := range columns {
		if n := len(roles); n == 0 || roles[n-1].Name != id.Role {
			roles = append(roles, RoleSummary{Name: id.Role})
		}
		role := &roles[len(roles)-1]
		role.TestCount++
		if n := len(role.Specs); n == 0 || role.Specs[n-1].Name != id.Spec {
			role.Specs = append(role.Specs, SpecSummary{Name: id.Spec})
		}
		role.Specs[len(role.Specs)-1].TestCount++
	}

	specs := []SpecRef{}
	for _, role := range roles {
		for _, s := range role.Specs {
			specs = append(specs, SpecRef{Role: role.Name, Name: s.Name, TestCount: s.TestCount})
		}
	}
	return roles, specs
}

func buildRow(h serverspec.HostResult, columns []Identity) Row {
	// First example wins when a host reports the same identity twice.
	byIdentity := make(map[Identity]serverspec.Example, len(h.Results.Examples))
	for _, e := range h.Results.Examples {
		id, ok := Resolve(e)
		if !ok {
			continue
		}
		if _, dup := byIdentity[id]; !dup {
			byIdentity[id] = e
		}
	}

	row := Row{Hostname: h.Hostname, Cells: make([]Cell, 0, len(columns))}
	for _, id := range columns {
		test, ok := byIdentity[id]
		if ok {
			test = cloneExample(test)
		} else {
			test = serverspec.Missing()
		}
		switch test.Status {
		case serverspec.StatusPassed:
			row.SuccessCount++
		case serverspec.StatusFailed:
			row.FailureCount++
		}
		row.Cells = append(row.Cells, Cell{Role: id.Role, Spec: id.Spec, Line: id.Line, Test: test})
	}
	row.Color = Color(row.SuccessCount, row.FailureCount)
	return row
}

// cloneExample detaches an example from the input report.
func cloneExample(e serverspec.Example) serverspec.Example {
	if e.Exception != nil {
		ex := *e.Exception
		ex.Backtrace = slices.Clone(ex.Backtrace)
		e.Exception = &ex
	}
	return e
}
