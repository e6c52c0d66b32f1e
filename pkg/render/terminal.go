package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/specmatrix/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.HostMatrix:
		return t.renderHostMatrix(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	case *pattern.Error:
		return t.theme.Error.Render(t.theme.Icons.Fail+" "+v.Source+": "+v.Message) + "\n"
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderHostMatrix draws one role set as a grid: a role header line, a spec
// header line, then one glyph per test for every host.
func (t *Terminal) renderHostMatrix(m *pattern.HostMatrix) string {
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(m.Label))
	sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("  %d tests, %d hosts", m.TotalTests, len(m.Rows))))
	sb.WriteString("\n")

	hostWidth := 0
	for _, r := range m.Rows {
		hostWidth = max(hostWidth, runewidth.StringWidth(r.Hostname))
	}
	tallyWidth := 0
	for _, r := range m.Rows {
		tallyWidth = max(tallyWidth, runewidth.StringWidth(t.tally(r)))
	}
	gutter := hostWidth + tallyWidth + 4

	if m.TotalTests == 0 {
		for _, r := range m.Rows {
			sb.WriteString("  " + t.paintHost(r, hostWidth) + "  ")
			sb.WriteString(t.theme.Muted.Render("no recognized tests"))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	widths := specWidths(m)
	caser := cases.Title(language.English)

	// Role header: each role spans its specs.
	sb.WriteString(strings.Repeat(" ", gutter))
	si := 0
	for ri, role := range m.Roles {
		span := 0
		n := 0
		for si+n < len(m.Specs) && m.Specs[si+n].Role == role.Name {
			span += widths[si+n]
			n++
		}
		span += 2 * (n - 1)
		si += n
		if ri > 0 {
			sb.WriteString(t.theme.Muted.Render(" │ "))
		}
		sb.WriteString(t.theme.Primary.Render(padRight(caser.String(role.Name), span)))
	}
	sb.WriteString("\n")

	// Spec header.
	sb.WriteString(strings.Repeat(" ", gutter))
	for i, spec := range m.Specs {
		sb.WriteString(t.specSeparator(m, i))
		sb.WriteString(t.theme.Muted.Render(padRight(spec.Name, widths[i])))
	}
	sb.WriteString("\n")

	for _, r := range m.Rows {
		sb.WriteString("  ")
		sb.WriteString(t.paintHost(r, hostWidth))
		sb.WriteString("  ")
		sb.WriteString(padRight(t.tally(r), tallyWidth))
		cell := 0
		for i, spec := range m.Specs {
			sb.WriteString(t.specSeparator(m, i))
			glyphs := make([]string, 0, spec.TestCount)
			for j := 0; j < spec.TestCount && cell < len(r.Cells); j++ {
				icon, style := t.statusIconStyle(r.Cells[cell].Status)
				glyphs = append(glyphs, style.Render(icon))
				cell++
			}
			sb.WriteString(strings.Join(glyphs, " "))
			if pad := widths[i] - (2*len(glyphs) - 1); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// specWidths sizes each spec column to fit its name and its glyphs, widening
// the last spec of a role when the role name is longer than its specs.
func specWidths(m *pattern.HostMatrix) []int {
	widths := make([]int, len(m.Specs))
	for i, s := range m.Specs {
		widths[i] = max(runewidth.StringWidth(s.Name), 2*s.TestCount-1)
	}
	si := 0
	for _, role := range m.Roles {
		span, n := 0, 0
		for si+n < len(m.Specs) && m.Specs[si+n].Role == role.Name {
			span += widths[si+n]
			n++
		}
		if n == 0 {
			continue
		}
		span += 2 * (n - 1)
		if need := runewidth.StringWidth(role.Name); need > span {
			widths[si+n-1] += need - span
		}
		si += n
	}
	return widths
}

func (t *Terminal) specSeparator(m *pattern.HostMatrix, i int) string {
	switch {
	case i == 0:
		return ""
	case m.Specs[i].Role != m.Specs[i-1].Role:
		return t.theme.Muted.Render(" │ ")
	default:
		return "  "
	}
}

func (t *Terminal) tally(r pattern.MatrixHostRow) string {
	return fmt.Sprintf("%s%d %s%d", t.theme.Icons.Pass, r.SuccessCount, t.theme.Icons.Fail, r.FailureCount)
}

func (t *Terminal) paintHost(r pattern.MatrixHostRow, width int) string {
	name := padRight(r.Hostname, width)
	if !t.theme.HostColors || r.Color == "" {
		return t.theme.Bold.Render(name)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Color)).Render(name)
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, runewidth.StringWidth(item.Metric))
	}
	if maxName > 50 {
		maxName = 50
	}

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		name := runewidth.Truncate(item.Name, maxName, "...")
		sb.WriteString(t.theme.Primary.Render(padRight(name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(item.Metric, maxMetric)))
		if item.Context != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(item.Context))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName, maxDur := 0, 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
		maxDur = max(maxDur, runewidth.StringWidth(r.Duration))
	}
	if maxName > 60 {
		maxName = 60
	}

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.statusIconStyle(r.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(runewidth.Truncate(r.Name, maxName, "..."), maxName))

		if r.Duration != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(padLeft(r.Duration, maxDur)))
		}

		if r.Details != "" {
			for _, line := range strings.Split(r.Details, "\n") {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Muted.Render(runewidth.Truncate(line, t.width-4, "…")))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func (t *Terminal) statusIconStyle(status string) (string, lipgloss.Style) {
	switch status {
	case "pass":
		return t.theme.Icons.Pass, t.theme.Success
	case "fail":
		return t.theme.Icons.Fail, t.theme.Error
	case "skip":
		return t.theme.Icons.Pending, t.theme.Warning
	case "missing":
		return t.theme.Icons.Missing, t.theme.Muted
	default:
		return t.theme.Icons.Info, t.theme.Muted
	}
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func padLeft(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}
