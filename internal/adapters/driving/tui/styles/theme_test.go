package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Accent))
	assert.NotEmpty(t, string(theme.Text))
	assert.NotEmpty(t, string(theme.Bad))
	assert.NotEmpty(t, string(theme.Manual))
	assert.NotEmpty(t, string(theme.AIChat))
}

func TestDefaultTheme_ProvenanceColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	colours := []lipgloss.Color{theme.Text, theme.Manual, theme.AIChat}
	seen := make(map[string]bool)
	for _, c := range colours {
		assert.False(t, seen[string(c)], "duplicate colour: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestForSource(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	assert.Equal(t, lipgloss.TerminalColor(theme.Text), s.ForSource(domain.SourceInitial).GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(theme.Manual), s.ForSource(domain.SourceManual).GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(theme.AIChat), s.ForSource(domain.SourceAIChat).GetForeground())
}

func TestForSource_UnknownFallsBackToInitial(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.CellInitial.GetForeground(), s.ForSource(domain.Source(99)).GetForeground())
}
