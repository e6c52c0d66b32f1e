// Package browse is an interactive terminal browser over the role-set
// matrices: a host/cell grid on the left and the selected test's details,
// including its spec source, on the right.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/specmatrix/pkg/matrix"
	"github.com/dkoosis/specmatrix/pkg/serverspec"
	"github.com/dkoosis/specmatrix/pkg/snippet"
)

// Options configures the browser.
type Options struct {
	Source snippet.Source // resolves spec files for the detail pane; may be nil
	Theme  *Theme         // nil means DefaultTheme
}

// Run launches the browser over report and blocks until the user quits.
func Run(ctx context.Context, report serverspec.Report, opts Options) error {
	program := tea.NewProgram(newModel(report, opts), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type model struct {
	report   serverspec.Report
	source   snippet.Source
	theme    *compiledTheme
	sections []matrix.Section
	loaded   bool

	section int // index into sections
	row     int // index into the section's rows
	col     int // index into the section's columns

	viewport    viewport.Model
	ready       bool
	width       int
	height      int
	listWidth   int
	detailWidth int
}

// builtMsg delivers the aggregated sections from the background build.
type builtMsg struct {
	sections []matrix.Section
}

func newModel(report serverspec.Report, opts Options) model {
	theme := opts.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	vp := viewport.New(0, 0)
	vp.SetContent("Building matrix...")
	return model{report: report, source: opts.Source, theme: theme.compile(), viewport: vp}
}

func (m model) Init() tea.Cmd {
	return buildCmd(m.report)
}

// buildCmd aggregates off the UI goroutine. The report is never mutated, so
// sharing it with the command is safe.
func buildCmd(report serverspec.Report) tea.Cmd {
	return func() tea.Msg {
		return builtMsg{sections: matrix.Build(report)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case builtMsg:
		m.sections = msg.sections
		m.loaded = true
		m.section, m.row, m.col = 0, 0, 0
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveRow(-1)
		case "down", "j":
			m.moveRow(1)
		case "left", "h":
			m.moveCol(-1)
		case "right", "l":
			m.moveCol(1)
		case "tab":
			m.moveSection(1)
		case "shift+tab":
			m.moveSection(-1)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = max(min(m.calculateListWidth(), m.width/2), 24)
		m.detailWidth = max(m.width-m.listWidth-1, 20)
		m.viewport.Width = m.detailWidth - 4   // box border + padding
		m.viewport.Height = max(m.height-7, 3) // title, header, status bar, borders
		m.ready = true
		m.refreshViewport()
	}
	return m, nil
}

func (m *model) current() (matrix.Section, bool) {
	if m.section < 0 || m.section >= len(m.sections) {
		return matrix.Section{}, false
	}
	return m.sections[m.section], true
}

func (m *model) moveRow(delta int) {
	s, ok := m.current()
	if !ok {
		return
	}
	if next := m.row + delta; next >= 0 && next < len(s.Rows) {
		m.row = next
		m.refreshViewport()
	}
}

func (m *model) moveCol(delta int) {
	s, ok := m.current()
	if !ok {
		return
	}
	if next := m.col + delta; next >= 0 && next < len(s.Columns) {
		m.col = next
		m.refreshViewport()
	}
}

func (m *model) moveSection(delta int) {
	if len(m.sections) == 0 {
		return
	}
	m.section = (m.section + delta + len(m.sections)) % len(m.sections)
	m.row, m.col = 0, 0
	m.refreshViewport()
}

// calculateListWidth fits the longest hostname plus the cell glyphs.
func (m *model) calculateListWidth() int {
	width := 0
	for _, s := range m.sections {
		width = max(width, runewidth.StringWidth(s.RoleSet.String()))
		for _, r := range s.Rows {
			width = max(width, runewidth.StringWidth(r.Hostname)+2+len(r.Cells))
		}
	}
	return width + 6 // select marker + box chrome
}

func (m *model) refreshViewport() {
	s, ok := m.current()
	switch {
	case !m.loaded:
		m.viewport.SetContent("Building matrix...")
	case !ok:
		m.viewport.SetContent("No hosts in report.")
	case len(s.Rows) == 0 || len(s.Columns) == 0:
		m.viewport.SetContent(fmt.Sprintf("No recognized tests for role set %s.", s.RoleSet))
	default:
		row := s.Rows[m.row]
		m.viewport.SetContent(detailContent(s, row, row.Cells[m.col], m.source))
	}
	m.viewport.GotoTop()
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	contentHeight := max(m.height-5, 3)

	title := m.theme.TitleStyle.Render(m.theme.Title)
	if s, ok := m.current(); ok {
		title += " " + m.theme.SectionStyle.Render(fmt.Sprintf("%s  %d/%d", s.RoleSet, m.section+1, len(m.sections)))
	}

	listPanel := m.theme.ListStyle.Width(m.listWidth).Render(fitHeight(m.renderList(), contentHeight))

	header := "Details"
	if s, ok := m.current(); ok && len(s.Columns) > 0 && len(s.Rows) > 0 {
		header = s.Columns[m.col].String()
	}
	detail := m.theme.DetailHeaderStyle.Render(header) + "\n\n" + m.viewport.View()
	detailPanel := m.theme.DetailBoxStyle.Width(m.detailWidth).Render(fitHeight(detail, contentHeight))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := m.theme.StatusBarStyle.Render("↑/↓ host • ←/→ test • tab role set • pgup/pgdn scroll • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}

// renderList draws the hosts of the current section, one glyph per column,
// with the cursor cell highlighted on the selected row.
func (m model) renderList() string {
	s, ok := m.current()
	if !ok {
		return ""
	}
	hostWidth := 0
	for _, r := range s.Rows {
		hostWidth = max(hostWidth, runewidth.StringWidth(r.Hostname))
	}
	cells := max(m.listWidth-hostWidth-6, 1)
	from := 0
	if m.col >= cells {
		from = m.col - cells + 1
	}

	lines := make([]string, 0, len(s.Rows))
	for i, r := range s.Rows {
		marker := " "
		if i == m.row {
			marker = m.theme.Icons.Select
		}
		var sb strings.Builder
		sb.WriteString(marker + " ")
		sb.WriteString(m.theme.HostStyle.Render(runewidth.FillRight(r.Hostname, hostWidth)))
		sb.WriteString(" ")
		to := min(from+cells, len(r.Cells))
		for j := from; j < to; j++ {
			glyph, style := m.glyph(r.Cells[j].Test.Status)
			if i == m.row && j == m.col {
				style = m.theme.SelectedStyle
			}
			sb.WriteString(style.Render(glyph))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func (m model) glyph(status string) (string, lipgloss.Style) {
	switch status {
	case serverspec.StatusPassed:
		return m.theme.Icons.Pass, m.theme.PassStyle
	case serverspec.StatusFailed:
		return m.theme.Icons.Fail, m.theme.FailStyle
	case serverspec.StatusPending:
		return m.theme.Icons.Pending, m.theme.PendingStyle
	default:
		return m.theme.Icons.Missing, m.theme.MissingStyle
	}
}

// fitHeight pads or truncates content to exactly height lines.
func fitHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
