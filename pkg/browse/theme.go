package browse

import "github.com/charmbracelet/lipgloss"

// Colors defines the palette for the browser.
type Colors struct {
	Primary   string // title, section header, selection
	Success   string
	Error     string
	Warning   string // pending
	Muted     string // missing cells, secondary text
	Text      string
	Border    string
	Highlight string // selected cell background
}

// Icons defines the glyphs used for cells and markers.
type Icons struct {
	Pass    string
	Fail    string
	Pending string
	Missing string
	Select  string
}

// Theme holds all visual styling for the browser.
type Theme struct {
	Colors Colors
	Icons  Icons
	Title  string
}

// DefaultTheme returns the default browser theme.
func DefaultTheme() *Theme {
	return &Theme{
		Colors: Colors{
			Primary:   "#7D56F4", // Purple
			Success:   "#32CD32", // matrix good anchor
			Error:     "#FF6347", // matrix bad anchor
			Warning:   "#FFBD2E",
			Muted:     "#626262",
			Text:      "#CCCCCC",
			Border:    "#444444",
			Highlight: "#7D56F4",
		},
		Icons: Icons{
			Pass:    "\u2713", // ✓
			Fail:    "\u2717", // ✗
			Pending: "\u25cb", // ○
			Missing: "\u00b7", // ·
			Select:  "\u25b6", // ▶
		},
		Title: "specmatrix",
	}
}

// MonoTheme returns a theme without colors and with ASCII glyphs.
func MonoTheme() *Theme {
	return &Theme{
		Icons: Icons{Pass: "+", Fail: "x", Pending: "?", Missing: ".", Select: ">"},
		Title: "specmatrix",
	}
}

// compiledTheme holds pre-built lipgloss styles from a Theme.
type compiledTheme struct {
	TitleStyle        lipgloss.Style
	SectionStyle      lipgloss.Style
	ListStyle         lipgloss.Style
	HostStyle         lipgloss.Style
	SelectedStyle     lipgloss.Style
	DetailBoxStyle    lipgloss.Style
	DetailHeaderStyle lipgloss.Style
	StatusBarStyle    lipgloss.Style
	PassStyle         lipgloss.Style
	FailStyle         lipgloss.Style
	PendingStyle      lipgloss.Style
	MissingStyle      lipgloss.Style

	Icons Icons
	Title string
}

// compile builds lipgloss styles from the theme configuration. Empty colors
// leave the terminal default.
func (t *Theme) compile() *compiledTheme {
	fg := func(c string) lipgloss.Style {
		s := lipgloss.NewStyle()
		if c != "" {
			s = s.Foreground(lipgloss.Color(c))
		}
		return s
	}
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if t.Colors.Border != "" {
		border = border.BorderForeground(lipgloss.Color(t.Colors.Border))
	}

	ct := &compiledTheme{Icons: t.Icons, Title: t.Title}

	ct.TitleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if t.Colors.Primary != "" {
		ct.TitleStyle = ct.TitleStyle.Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color(t.Colors.Primary))
	}
	ct.SectionStyle = fg(t.Colors.Primary).Bold(true)
	ct.ListStyle = border.Padding(0, 1)
	ct.HostStyle = fg(t.Colors.Text)
	ct.SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(t.Colors.Highlight == "")
	if t.Colors.Highlight != "" {
		ct.SelectedStyle = ct.SelectedStyle.Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color(t.Colors.Highlight))
	}
	ct.DetailBoxStyle = border.Padding(0, 1)
	ct.DetailHeaderStyle = fg(t.Colors.Primary).Bold(true)
	ct.StatusBarStyle = fg(t.Colors.Muted).Italic(true)
	ct.PassStyle = fg(t.Colors.Success)
	ct.FailStyle = fg(t.Colors.Error).Bold(true)
	ct.PendingStyle = fg(t.Colors.Warning)
	ct.MissingStyle = fg(t.Colors.Muted)
	return ct
}
