// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/styles"
)

// TextInput wraps a bubbles textinput with a label.
type TextInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewTextInput creates a focused input with the given label and placeholder.
func NewTextInput(s *styles.Styles, label, placeholder string) *TextInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 50

	return &TextInput{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the input.
func (t *TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (t *TextInput) Update(msg tea.Msg) (*TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.textinput, cmd = t.textinput.Update(msg)
	return t, cmd
}

// View renders the input.
func (t *TextInput) View() string {
	label := t.styles.Title.Render(t.label + ": ")
	field := t.styles.InputField.Render(t.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (t *TextInput) Value() string {
	return t.textinput.Value()
}

// SetValue sets the input value and moves the cursor to the end.
func (t *TextInput) SetValue(value string) {
	t.textinput.SetValue(value)
	t.textinput.CursorEnd()
}

// SetLabel changes the label.
func (t *TextInput) SetLabel(label string) {
	t.label = label
}

// Focus sets focus on the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.textinput.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.textinput.Blur()
}

// Focused returns whether the input is focused.
func (t *TextInput) Focused() bool {
	return t.textinput.Focused()
}

// SetWidth sets the width of the input.
func (t *TextInput) SetWidth(width int) {
	t.width = width
	// Account for label and padding
	inputWidth := width - len(t.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	t.textinput.Width = inputWidth
}

// Width returns the current width.
func (t *TextInput) Width() int {
	return t.width
}

// Reset clears the input.
func (t *TextInput) Reset() {
	t.textinput.Reset()
}
