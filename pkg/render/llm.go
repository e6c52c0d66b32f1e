package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/specmatrix/pkg/pattern"
)

const (
	statusFail = "fail"

	// llmDetailLines caps the detail lines kept per failure.
	llmDetailLines = 8
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, deterministic order, SCOPE line, truncated details.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var (
		summaries []*pattern.Summary
		matrices  []*pattern.HostMatrix
		boards    []*pattern.Leaderboard
		tables    []*pattern.TestTable
		errs      []*pattern.Error
	)
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			summaries = append(summaries, v)
		case *pattern.HostMatrix:
			matrices = append(matrices, v)
		case *pattern.Leaderboard:
			boards = append(boards, v)
		case *pattern.TestTable:
			tables = append(tables, v)
		case *pattern.Error:
			errs = append(errs, v)
		}
	}

	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString("ERROR " + e.Source + ": " + e.Message + "\n")
	}
	for _, s := range summaries {
		if s.Kind == pattern.SummaryKindMatrix {
			l.renderScope(&sb, s)
		}
	}
	if len(matrices) > 0 {
		sb.WriteString("LEGEND: P pass, F fail, S pending, - missing\n")
	}
	for _, m := range matrices {
		l.renderMatrix(&sb, m)
	}
	for _, b := range boards {
		l.renderLeaderboard(&sb, b)
	}
	for _, t := range tables {
		l.renderTable(&sb, t)
	}
	return sb.String()
}

func (l *LLM) renderScope(sb *strings.Builder, s *pattern.Summary) {
	sb.WriteString("SCOPE: " + s.Label + "\n")
	parts := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		parts = append(parts, strings.ToLower(m.Label)+" "+m.Value)
	}
	if len(parts) > 0 {
		sb.WriteString(strings.Join(parts, ", ") + "\n")
	}
}

// renderMatrix writes one line per host with a status letter per test,
// grouped by role/spec in column order.
func (l *LLM) renderMatrix(sb *strings.Builder, m *pattern.HostMatrix) {
	sb.WriteString(fmt.Sprintf("\n## %s %d tests\n", m.Label, m.TotalTests))
	for _, r := range m.Rows {
		sb.WriteString(fmt.Sprintf("  %s %d/%d", r.Hostname, r.SuccessCount, r.FailureCount))
		cell := 0
		for _, spec := range m.Specs {
			var letters strings.Builder
			for j := 0; j < spec.TestCount && cell < len(r.Cells); j++ {
				letters.WriteByte(statusLetter(r.Cells[cell].Status))
				cell++
			}
			sb.WriteString(" " + spec.Role + "/" + spec.Name + "=" + letters.String())
		}
		sb.WriteString("\n")
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, b *pattern.Leaderboard) {
	if len(b.Items) == 0 {
		return
	}
	header := strings.ToUpper(b.Label)
	if b.TotalCount > len(b.Items) {
		header += fmt.Sprintf(" (top %d of %d)", len(b.Items), b.TotalCount)
	}
	sb.WriteString("\n" + header + "\n")
	for _, item := range b.Items {
		line := fmt.Sprintf("  %d. %s %s", item.Rank, item.Name, item.Metric)
		if item.Context != "" {
			line += " | " + item.Context
		}
		sb.WriteString(line + "\n")
	}
}

func (l *LLM) renderTable(sb *strings.Builder, t *pattern.TestTable) {
	sb.WriteString("\n" + t.Label + "\n")
	for _, item := range t.Results {
		prefix := "  PASS"
		switch item.Status {
		case statusFail:
			prefix = "  FAIL"
		case "skip":
			prefix = "  SKIP"
		case "missing":
			prefix = "  MISS"
		}

		dur := ""
		if item.Duration != "" {
			dur = " (" + item.Duration + ")"
		}
		sb.WriteString(fmt.Sprintf("%s %s%s\n", prefix, item.Name, dur))

		if item.Details != "" {
			lines := strings.Split(item.Details, "\n")
			n := min(len(lines), llmDetailLines)
			for _, line := range lines[:n] {
				sb.WriteString("    " + line + "\n")
			}
			if len(lines) > n {
				sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-n))
			}
		}
	}
}

func statusLetter(status string) byte {
	switch status {
	case "pass":
		return 'P'
	case statusFail:
		return 'F'
	case "skip":
		return 'S'
	case "missing":
		return '-'
	default:
		return '?'
	}
}
