// Package status renders the one-line bar under the TUI views: the current
// state, an optional provenance legend and the key hints of the view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// State is what the bar reports on its left side.
type State string

// Bar states.
const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateEditing State = "editing"
	StateError   State = "error"
)

// legendSources is the order provenance kinds appear in the legend.
var legendSources = []domain.Source{domain.SourceInitial, domain.SourceManual, domain.SourceAIChat}

// Bar displays the view state, the provenance legend and key hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	bindings []key.Binding
	state    State
	message  string
	width    int

	legend bool
	cell   *domain.Source
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		bindings: km.ShortHelp(),
		state:    StateReady,
		width:    80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the owning view drives the bar through its setters.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	if mid := s.renderLegend(); mid != "" {
		left += "  " + mid
	}
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateWorking:
		msg := s.message
		if msg == "" {
			msg = "Working..."
		}
		return s.styles.Muted.Render(msg)
	case StateEditing:
		return s.styles.Warning.Render("Editing")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
	}
	return s.styles.Muted.Render("Ready")
}

// renderLegend shows the provenance colours, with the kind of the selected
// cell in brackets.
func (s *Bar) renderLegend() string {
	if !s.legend {
		return ""
	}
	parts := make([]string, 0, len(legendSources))
	for _, src := range legendSources {
		name := src.String()
		if s.cell != nil && *s.cell == src {
			name = "[" + name + "]"
		}
		parts = append(parts, s.styles.ForSource(src).Render(name))
	}
	return strings.Join(parts, " ")
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetBindings replaces the keybinding hints.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// ShowLegend toggles the provenance legend.
func (s *Bar) ShowLegend(on bool) {
	s.legend = on
}

// SetCellSource highlights src in the legend. Nil clears the highlight.
func (s *Bar) SetCellSource(src *domain.Source) {
	s.cell = src
}

// Clear resets the status bar to default state. The legend setting is kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.cell = nil
	s.bindings = s.keymap.ShortHelp()
}
