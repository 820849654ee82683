package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView_Items(t *testing.T) {
	view := NewView(nil)

	require.Len(t, view.items, 6)
	assert.Equal(t, messages.ViewTable, view.items[0].View)
	assert.Equal(t, messages.ViewChat, view.items[1].View)
	assert.Equal(t, messages.ViewSessions, view.items[2].View)
	assert.True(t, view.items[5].Quit)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil)

	view.Update(runes("k"))
	assert.Equal(t, 0, view.Selected())

	for i := 0; i < 10; i++ {
		view.Update(runes("j"))
	}
	assert.Equal(t, 5, view.Selected())

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 4, view.Selected())
}

func TestView_EnterChangesView(t *testing.T) {
	view := NewView(nil)
	view.selected = 2

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSessions, changed.View)
}

func TestView_QuitItem(t *testing.T) {
	view := NewView(nil)
	view.selected = 5

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestView_ShowsActiveSession(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)

	assert.Contains(t, view.View(), "No active session")

	view.Update(messages.SessionLoaded{Session: &domain.Session{ID: "s1", Title: "Session HR"}})
	assert.Equal(t, "Session HR", view.Active())
	assert.Contains(t, view.View(), "Session: Session HR")

	view.Update(messages.SessionLoaded{Err: domain.ErrNoActiveSession})
	assert.Equal(t, "", view.Active())
}

func TestView_NotReady(t *testing.T) {
	assert.Equal(t, "Initialising...", NewView(nil).View())
}

func TestView_SessionItemsBlockedWithoutSession(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, view.Notice(), "Table needs an active session")
	assert.Contains(t, view.View(), "needs an active session")

	view.Update(runes("j"))
	assert.Empty(t, view.Notice(), "notice clears on the next key")
}

func TestView_SessionItemsOpenWithSession(t *testing.T) {
	view := NewView(nil)
	view.Update(messages.SessionLoaded{Session: &domain.Session{ID: "s1", Title: "HR"}})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewTable, changed.View)
}

func TestView_SessionSummaryCountsProvenance(t *testing.T) {
	r := domain.NewRecord("a.pdf")
	require.NoError(t, r.WriteManual(domain.FieldUnitKerja, "HR"))
	require.NoError(t, r.WriteManual(domain.FieldDepartemen, "Talent"))
	require.NoError(t, r.WriteFromPatch(domain.FieldMasaRetensi, "5 tahun"))

	view := NewView(nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SessionLoaded{Session: &domain.Session{ID: "s1", Title: "HR", Records: []*domain.Record{r}}})

	out := view.View()
	assert.Contains(t, out, "1 document(s)")
	assert.Contains(t, out, "2 manual")
	assert.Contains(t, out, "1 chat")
}

func TestView_EmptySessionSummary(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(80, 24)
	view.Update(messages.SessionLoaded{Session: &domain.Session{ID: "s1", Title: "New Analysis 1"}})

	assert.Contains(t, view.View(), "no documents analysed yet")
}
