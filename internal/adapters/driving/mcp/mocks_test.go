package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

type editCall struct {
	sessionID string
	fileName  string
	field     domain.FieldKey
	value     string
}

type mockSessionService struct {
	activeID  string
	sessions  map[string]*domain.Session
	summaries []domain.SessionSummary
	listErr   error
	editErr   error
	edits     []editCall
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	return &domain.Session{ID: "new"}, nil
}

func (m *mockSessionService) SwitchTo(_ context.Context, id string) error {
	m.activeID = id
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error { return nil }

func (m *mockSessionService) ActiveID() string { return m.activeID }

func (m *mockSessionService) Active(ctx context.Context) (*domain.Session, error) {
	return m.Get(ctx, m.activeID)
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	return m.summaries, m.listErr
}

func (m *mockSessionService) EditCell(
	_ context.Context, sessionID, fileName string, field domain.FieldKey, value string,
) error {
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, editCall{sessionID, fileName, field, value})
	return nil
}

type mockExportService struct {
	tables map[string]domain.Table
}

func (m *mockExportService) Table(_ context.Context, sessionID string) (domain.Table, error) {
	t, ok := m.tables[sessionID]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockExportService) Export(_ context.Context, _ string, _ domain.ExportFormat, _ io.Writer) error {
	return nil
}

func (m *mockExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportXLSX, domain.ExportCSV}
}

type mockChatService struct {
	result    *driving.ChatResult
	err       error
	questions []string
}

func (m *mockChatService) Ask(_ context.Context, _ string, question string) (*driving.ChatResult, error) {
	m.questions = append(m.questions, question)
	return m.result, m.err
}
