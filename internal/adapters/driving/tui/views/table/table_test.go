package table

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

type edit struct {
	sessionID, fileName string
	field               domain.FieldKey
	value               string
}

type mockSessionService struct {
	session *domain.Session
	err     error
	edits   []edit
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (m *mockSessionService) SwitchTo(_ context.Context, _ string) error { return nil }
func (m *mockSessionService) Delete(_ context.Context, _ string) error { return nil }
func (m *mockSessionService) ActiveID() string { return "" }

func (m *mockSessionService) Active(_ context.Context) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) Get(_ context.Context, _ string) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	return nil, nil
}

func (m *mockSessionService) EditCell(_ context.Context, sessionID, fileName string, field domain.FieldKey, value string) error {
	m.edits = append(m.edits, edit{sessionID, fileName, field, value})
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSession(t *testing.T) *domain.Session {
	t.Helper()
	a := domain.NewRecord("a.pdf")
	require.NoError(t, a.SetInitial(domain.Fields[0], domain.ValueCell("001", domain.SourceInitial)))
	require.NoError(t, a.WriteManual(domain.Fields[1], "Rekrutmen"))
	a.Suggestion = "Lengkapi masa retensi"
	b := domain.NewRecord("b.docx")
	require.NoError(t, b.WriteFromPatch(domain.Fields[0], "002"))
	return &domain.Session{ID: "s1", Title: "Audit", Records: []*domain.Record{a, b}}
}

func loadedView(t *testing.T, svc *mockSessionService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(120, 40)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_LoadsActiveSession(t *testing.T) {
	v := loadedView(t, &mockSessionService{session: testSession(t)})

	require.NotNil(t, v.Session())
	assert.Equal(t, "s1", v.Session().ID)
	out := v.View()
	assert.Contains(t, out, "Audit")
	assert.Contains(t, out, "a.pdf")
	assert.Contains(t, out, "b.docx")
	assert.Contains(t, out, domain.Placeholder)
	assert.Contains(t, out, "Saran AI: Lengkapi masa retensi")
}

func TestView_NoActiveSession(t *testing.T) {
	v := loadedView(t, &mockSessionService{err: domain.ErrNoActiveSession})

	assert.Nil(t, v.Session())
	assert.NoError(t, v.Err())
	assert.Contains(t, v.View(), "No active session")
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockSessionService{err: errors.New("disk gone")})

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "disk gone")
}

func TestView_CursorMovementIsClamped(t *testing.T) {
	v := loadedView(t, &mockSessionService{session: testSession(t)})

	v, _ = v.Update(runes("k"))
	v, _ = v.Update(runes("h"))
	row, field := v.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, domain.Fields[0], field)

	v, _ = v.Update(runes("j"))
	v, _ = v.Update(runes("j"))
	v, _ = v.Update(runes("l"))
	row, field = v.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, domain.Fields[1], field)

	v, _ = v.Update(runes("$"))
	_, field = v.Cursor()
	assert.Equal(t, domain.Fields[len(domain.Fields)-1], field)
	assert.Contains(t, v.View(), "of 25")
}

func TestView_EditSubmitsManualValue(t *testing.T) {
	svc := &mockSessionService{session: testSession(t)}
	v := loadedView(t, svc)

	v, _ = v.Update(runes("l"))
	v, _ = v.Update(runes("e"))
	require.True(t, v.Editing())
	assert.Equal(t, "Rekrutmen", v.input.Value())

	v.input.SetValue("Penggajian")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Editing())

	msg := cmd()
	edited, ok := msg.(messages.CellEdited)
	require.True(t, ok)
	assert.NoError(t, edited.Err)
	require.Len(t, svc.edits, 1)
	assert.Equal(t, edit{"s1", "a.pdf", domain.Fields[1], "Penggajian"}, svc.edits[0])

	_, reload := v.Update(edited)
	assert.NotNil(t, reload)
}

func TestView_EditCancel(t *testing.T) {
	svc := &mockSessionService{session: testSession(t)}
	v := loadedView(t, svc)

	v, _ = v.Update(runes("e"))
	require.True(t, v.Editing())
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.Editing())
	assert.Empty(t, svc.edits)
}

func TestView_EditFailureShowsError(t *testing.T) {
	v := loadedView(t, &mockSessionService{session: testSession(t)})

	v, cmd := v.Update(messages.CellEdited{FileName: "a.pdf", Field: domain.Fields[0], Err: errors.New("session inactive")})
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "session inactive")
}

func TestView_NavigationKeys(t *testing.T) {
	v := loadedView(t, &mockSessionService{session: testSession(t)})

	_, cmd := v.Update(runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, "abcd…", fit("abcdefgh", 5))
	assert.Equal(t, "a b  ", fit("a\nb", 5))
}

func TestView_StatusBarShowsCellProvenance(t *testing.T) {
	v := loadedView(t, &mockSessionService{session: testSession(t)})
	v.SetDimensions(220, 40)

	assert.Contains(t, v.View(), "[initial]")

	v.Update(runes("l"))
	assert.Contains(t, v.View(), "[manual]")

	v.Update(runes("j"))
	v.Update(runes("h"))
	assert.Contains(t, v.View(), "[ai]")
}
