package mapper

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dkoosis/specmatrix/pkg/matrix"
	"github.com/dkoosis/specmatrix/pkg/pattern"
	"github.com/dkoosis/specmatrix/pkg/serverspec"
	"github.com/dkoosis/specmatrix/pkg/snippet"
)

const (
	statusPass    = "pass"
	statusFail    = "fail"
	statusSkip    = "skip"
	statusMissing = "missing"

	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// Options tunes FromSections.
type Options struct {
	// Source resolves spec files for failure snippets. Nil disables snippets.
	Source snippet.Source
	// DetailLines caps the snippet lines shown per failure; 0 means no cap.
	DetailLines int
	// TopFailures caps the failing-tests leaderboard; 0 means 10.
	TopFailures int
}

// FromSections converts built matrices into visualization patterns.
// Returns: Summary + HostMatrix per section + Leaderboard of the most widely
// failing tests + a TestTable per host with failures.
func FromSections(sections []matrix.Section, opts Options) []pattern.Pattern {
	patterns := []pattern.Pattern{matrixSummary(sections)}

	for _, s := range sections {
		patterns = append(patterns, hostMatrix(s))
	}

	if lb := failureLeaderboard(sections, opts.TopFailures); lb != nil {
		patterns = append(patterns, lb)
	}

	for _, s := range sections {
		for _, row := range s.Rows {
			if row.FailureCount > 0 {
				patterns = append(patterns, failureTable(s, row, opts))
			}
		}
	}
	return patterns
}

type matrixStats struct {
	hosts       int
	failedHosts int
	tests       int
	passed      int
	failed      int
	pending     int
	missing     int
}

func computeStats(sections []matrix.Section) matrixStats {
	var st matrixStats
	for _, s := range sections {
		st.tests += s.TotalTests
		for _, row := range s.Rows {
			st.hosts++
			if row.FailureCount > 0 {
				st.failedHosts++
			}
			for _, c := range row.Cells {
				switch c.Test.Status {
				case serverspec.StatusPassed:
					st.passed++
				case serverspec.StatusFailed:
					st.failed++
				case serverspec.StatusPending:
					st.pending++
				case serverspec.StatusMissing:
					st.missing++
				}
			}
		}
	}
	return st
}

func matrixSummary(sections []matrix.Section) *pattern.Summary {
	st := computeStats(sections)

	metrics := []pattern.SummaryItem{
		{Label: "Hosts", Value: fmt.Sprintf("%d", st.hosts), Kind: kindInfo},
		{Label: "Role sets", Value: fmt.Sprintf("%d", len(sections)), Kind: kindInfo},
	}
	if st.failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Failed", Value: fmt.Sprintf("%d on %d hosts", st.failed, st.failedHosts), Kind: kindError,
		})
	}
	if st.passed > 0 {
		kind := kindSuccess
		if st.failed > 0 {
			kind = kindInfo
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Passed", Value: fmt.Sprintf("%d", st.passed), Kind: kind,
		})
	}
	if st.pending > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Pending", Value: fmt.Sprintf("%d", st.pending), Kind: kindWarning,
		})
	}
	if st.missing > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Missing", Value: fmt.Sprintf("%d", st.missing), Kind: kindWarning,
		})
	}

	label := fmt.Sprintf("PASS %d hosts, %d tests", st.hosts, st.tests)
	if st.failed > 0 {
		label = fmt.Sprintf("FAIL %d/%d hosts, %d failures", st.failedHosts, st.hosts, st.failed)
	}
	return &pattern.Summary{Label: label, Kind: pattern.SummaryKindMatrix, Metrics: metrics}
}

func hostMatrix(s matrix.Section) *pattern.HostMatrix {
	m := &pattern.HostMatrix{
		Label:      s.RoleSet.String(),
		RoleSet:    s.RoleSet.Roles(),
		Roles:      make([]pattern.MatrixRole, 0, len(s.Roles)),
		Specs:      make([]pattern.MatrixSpec, 0, len(s.Specs)),
		Rows:       make([]pattern.MatrixHostRow, 0, len(s.Rows)),
		TotalTests: s.TotalTests,
	}
	if m.RoleSet == nil {
		m.RoleSet = []string{}
	}
	for _, r := range s.Roles {
		role := pattern.MatrixRole{
			Name:      r.Name,
			TestCount: r.TestCount,
			Specs:     make([]pattern.MatrixSpecCount, 0, len(r.Specs)),
		}
		for _, sp := range r.Specs {
			role.Specs = append(role.Specs, pattern.MatrixSpecCount{Name: sp.Name, TestCount: sp.TestCount})
		}
		m.Roles = append(m.Roles, role)
	}
	for _, sp := range s.Specs {
		m.Specs = append(m.Specs, pattern.MatrixSpec{Role: sp.Role, Name: sp.Name, TestCount: sp.TestCount})
	}
	for _, row := range s.Rows {
		hr := pattern.MatrixHostRow{
			Hostname:     row.Hostname,
			SuccessCount: row.SuccessCount,
			FailureCount: row.FailureCount,
			Color:        row.Color,
			Cells:        make([]pattern.MatrixCell, 0, len(row.Cells)),
		}
		for _, c := range row.Cells {
			hr.Cells = append(hr.Cells, pattern.MatrixCell{
				Role:   c.Role,
				Spec:   c.Spec,
				Line:   c.Line,
				Status: displayStatus(c.Test.Status),
				Test:   cloneExample(c.Test),
			})
		}
		m.Rows = append(m.Rows, hr)
	}
	return m
}

// failureLeaderboard ranks tests by the number of hosts they fail on.
func failureLeaderboard(sections []matrix.Section, top int) *pattern.Leaderboard {
	if top <= 0 {
		top = 10
	}
	type entry struct {
		id          matrix.Identity
		hosts       []string
		description string
	}
	byID := make(map[matrix.Identity]*entry)
	var order []matrix.Identity
	for _, s := range sections {
		for _, row := range s.Rows {
			for _, c := range row.Cells {
				if c.Test.Status != serverspec.StatusFailed {
					continue
				}
				id := c.Identity()
				e, ok := byID[id]
				if !ok {
					e = &entry{id: id, description: c.Test.FullDescription}
					byID[id] = e
					order = append(order, id)
				}
				e.hosts = append(e.hosts, row.Hostname)
			}
		}
	}
	if len(order) == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		hi, hj := len(byID[order[i]].hosts), len(byID[order[j]].hosts)
		if hi != hj {
			return hi > hj
		}
		return order[i].Compare(order[j]) < 0
	})

	lb := &pattern.Leaderboard{
		Label:      "Most failing tests",
		MetricName: "Failing hosts",
		TotalCount: len(order),
		ShowRank:   true,
	}
	for i, id := range order {
		if i == top {
			break
		}
		e := byID[id]
		lb.Items = append(lb.Items, pattern.LeaderboardItem{
			Name:    id.String(),
			Metric:  plural(len(e.hosts), "host"),
			Value:   float64(len(e.hosts)),
			Rank:    i + 1,
			Context: e.description,
		})
	}
	return lb
}

func failureTable(s matrix.Section, row matrix.Row, opts Options) *pattern.TestTable {
	items := make([]pattern.TestTableItem, 0, row.FailureCount)
	for _, c := range row.Cells {
		if c.Test.Status != serverspec.StatusFailed {
			continue
		}
		items = append(items, pattern.TestTableItem{
			Name:     c.Identity().String(),
			Status:   statusFail,
			Duration: formatRunTime(c.Test.RunTime),
			Details:  failureDetails(c, opts),
		})
	}
	return &pattern.TestTable{
		Label:   fmt.Sprintf("FAIL %s %s (%d/%d failed)", row.Hostname, s.RoleSet, row.FailureCount, s.TotalTests),
		Source:  row.Hostname,
		Results: items,
	}
}

// failureDetails joins the description, the exception and, when a source is
// available, the enclosing block of the spec file.
func failureDetails(c matrix.Cell, opts Options) string {
	var lines []string
	if c.Test.FullDescription != "" {
		lines = append(lines, c.Test.FullDescription)
	}
	if ex := c.Test.Exception; ex != nil {
		msg := strings.TrimSpace(ex.Message)
		if ex.Class != "" {
			msg = ex.Class + ": " + msg
		}
		lines = append(lines, strings.Split(msg, "\n")...)
	}
	if opts.Source == nil || c.Test.FilePath == "" {
		return strings.Join(lines, "\n")
	}

	block, err := snippet.Lookup(opts.Source, c.Test.FilePath, c.Test.LineNumber)
	switch {
	case errors.Is(err, snippet.ErrUnknownFile):
		lines = append(lines, "(source not found: "+c.Test.FilePath+")")
	case err != nil:
		lines = append(lines, "(source unavailable: "+err.Error()+")")
	default:
		lines = append(lines, block.Numbered(c.Test.LineNumber, opts.DetailLines)...)
	}
	return strings.Join(lines, "\n")
}

func displayStatus(status string) string {
	switch status {
	case serverspec.StatusPassed:
		return statusPass
	case serverspec.StatusFailed:
		return statusFail
	case serverspec.StatusPending:
		return statusSkip
	case serverspec.StatusMissing:
		return statusMissing
	default:
		return status
	}
}

// cloneExample copies e deeply enough that the pattern shares no memory with
// the parsed report.
func cloneExample(e serverspec.Example) serverspec.Example {
	if e.Exception != nil {
		exc := *e.Exception
		exc.Backtrace = slices.Clone(exc.Backtrace)
		e.Exception = &exc
	}
	return e
}
