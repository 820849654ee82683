// Package styles provides the colour theme and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// Theme is the colour palette of the TUI.
type Theme struct {
	Accent  lipgloss.Color // titles
	Heading lipgloss.Color // column headers and subtitles
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Good    lipgloss.Color
	Caution lipgloss.Color
	Bad     lipgloss.Color
	Frame   lipgloss.Color
	Bar     lipgloss.Color // status bar background

	// Provenance colours. Initial cells use the plain text colour.
	Manual lipgloss.Color
	AIChat lipgloss.Color
}

// DefaultTheme returns a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#7C3AED"),
		Heading: lipgloss.Color("#06B6D4"),
		Text:    lipgloss.Color("#CDD6F4"),
		Dim:     lipgloss.Color("#6C7086"),
		Good:    lipgloss.Color("#A6E3A1"),
		Caution: lipgloss.Color("#FAB387"),
		Bad:     lipgloss.Color("#F38BA8"),
		Frame:   lipgloss.Color("#45475A"),
		Bar:     lipgloss.Color("#181825"),
		Manual:  lipgloss.Color("#F9E2AF"),
		AIChat:  lipgloss.Color("#89DCEB"),
	}
}

// Styles are the lipgloss styles shared by all views.
type Styles struct {
	theme *Theme
	cells map[domain.Source]lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Table cells by provenance, and the cursor overlay.
	CellInitial  lipgloss.Style
	CellManual   lipgloss.Style
	CellAIChat   lipgloss.Style
	CellSelected lipgloss.Style
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// NewStyles builds styles from theme, falling back to DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	s := &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Heading).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Dim),
		Selected: fg(theme.Text).Background(theme.Accent).Bold(true),
		Error:    fg(theme.Bad),
		Success:  fg(theme.Good),
		Warning:  fg(theme.Caution),
		Help:     fg(theme.Dim),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		StatusBar: fg(theme.Dim).Background(theme.Bar).Padding(0, 1),

		CellInitial:  fg(theme.Text),
		CellManual:   fg(theme.Manual),
		CellAIChat:   fg(theme.AIChat),
		CellSelected: lipgloss.NewStyle().Bold(true).Reverse(true),
	}
	s.cells = map[domain.Source]lipgloss.Style{
		domain.SourceInitial: s.CellInitial,
		domain.SourceManual:  s.CellManual,
		domain.SourceAIChat:  s.CellAIChat,
	}
	return s
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// ForSource returns the cell style for a provenance. Unknown sources render
// like initial cells.
func (s *Styles) ForSource(src domain.Source) lipgloss.Style {
	if st, ok := s.cells[src]; ok {
		return st
	}
	return s.CellInitial
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
