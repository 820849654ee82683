package sessions

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

type mockSessionService struct {
	summaries []domain.SessionSummary
	switched  string
	deleted   string
	created   int
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	m.created++
	return &domain.Session{ID: "new", Title: "New"}, nil
}

func (m *mockSessionService) SwitchTo(_ context.Context, id string) error {
	m.switched = id
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return nil
}

func (m *mockSessionService) ActiveID() string { return "" }

func (m *mockSessionService) Active(_ context.Context) (*domain.Session, error) {
	return nil, domain.ErrNoActiveSession
}

func (m *mockSessionService) Get(_ context.Context, _ string) (*domain.Session, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	return m.summaries, nil
}

func (m *mockSessionService) EditCell(_ context.Context, _, _ string, _ domain.FieldKey, _ string) error {
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(t *testing.T, svc *mockSessionService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func sampleSessions() []domain.SessionSummary {
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return []domain.SessionSummary{
		{ID: "s1", Title: "HR policies", DocumentCount: 3, TurnCount: 2, UpdatedAt: at, Active: true},
		{ID: "s2", Title: "Finance", UpdatedAt: at},
	}
}

func TestView_LoadsSessions(t *testing.T) {
	v := loadedView(t, &mockSessionService{summaries: sampleSessions()})

	require.Len(t, v.Sessions(), 2)
	out := v.View()
	assert.Contains(t, out, "HR policies")
	assert.Contains(t, out, " 3 docs")
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &mockSessionService{})

	assert.Contains(t, v.View(), "No sessions yet")
}

func TestView_EnterSwitches(t *testing.T) {
	svc := &mockSessionService{summaries: sampleSessions()}
	v := loadedView(t, svc)

	v.Update(runes("j"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.SessionSwitched)
	require.True(t, ok)
	assert.Equal(t, "s2", msg.ID)
	assert.Equal(t, "s2", svc.switched)
}

func TestView_NewSession(t *testing.T) {
	svc := &mockSessionService{}
	v := loadedView(t, svc)

	_, cmd := v.Update(runes("n"))
	require.NotNil(t, cmd)
	_, ok := cmd().(messages.SessionCreated)
	assert.True(t, ok)
	assert.Equal(t, 1, svc.created)
}

func TestView_DeleteNeedsConfirmation(t *testing.T) {
	svc := &mockSessionService{summaries: sampleSessions()}
	v := loadedView(t, svc)

	_, cmd := v.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "Press d again")

	_, cmd = v.Update(runes("d"))
	require.NotNil(t, cmd)
	deleted, ok := cmd().(messages.SessionDeleted)
	require.True(t, ok)
	assert.Equal(t, "s1", deleted.ID)

	_, reload := v.Update(deleted)
	assert.NotNil(t, reload)
}

func TestView_OtherKeyCancelsDelete(t *testing.T) {
	v := loadedView(t, &mockSessionService{summaries: sampleSessions()})

	v.Update(runes("d"))
	v.Update(runes("j"))
	_, cmd := v.Update(runes("d"))
	assert.Nil(t, cmd)
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := loadedView(t, &mockSessionService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Error(t *testing.T) {
	v := NewView(nil, &mockSessionService{})
	v.Update(messages.SessionsLoaded{Err: assert.AnError})

	assert.Equal(t, assert.AnError, v.Err())
	assert.Contains(t, v.View(), "Error:")
}
