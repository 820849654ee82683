package httpapi

import (
	"context"
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

type mockSessionService struct {
	activeID string
	sessions map[string]*domain.Session
	listed   []domain.SessionSummary
	editErr  error
	edited   map[string]string
	deleted  []string
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	s := &domain.Session{ID: "created", Title: "Session 1"}
	if m.sessions == nil {
		m.sessions = map[string]*domain.Session{}
	}
	m.sessions[s.ID] = s
	m.activeID = s.ID
	return s, nil
}

func (m *mockSessionService) SwitchTo(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	m.activeID = id
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionService) ActiveID() string { return m.activeID }

func (m *mockSessionService) Active(ctx context.Context) (*domain.Session, error) {
	if m.activeID == "" {
		return nil, domain.ErrNoActiveSession
	}
	return m.Get(ctx, m.activeID)
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	return m.listed, nil
}

func (m *mockSessionService) EditCell(
	_ context.Context, _ string, fileName string, field domain.FieldKey, value string,
) error {
	if m.editErr != nil {
		return m.editErr
	}
	if m.edited == nil {
		m.edited = map[string]string{}
	}
	m.edited[fileName+"/"+field.String()] = value
	return nil
}

type mockAnalysisService struct {
	result  *driving.BatchResult
	err     error
	uploads []domain.Upload
}

func (m *mockAnalysisService) Analyze(
	_ context.Context, _ string, uploads []domain.Upload,
) (*driving.BatchResult, error) {
	m.uploads = uploads
	return m.result, m.err
}

type mockChatService struct {
	result *driving.ChatResult
	err    error
}

func (m *mockChatService) Ask(_ context.Context, _, _ string) (*driving.ChatResult, error) {
	return m.result, m.err
}

type mockExportService struct {
	table domain.Table
	err   error
}

func (m *mockExportService) Table(_ context.Context, _ string) (domain.Table, error) {
	return m.table, m.err
}

func (m *mockExportService) Export(_ context.Context, _ string, format domain.ExportFormat, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "exported "+string(format))
	return err
}

func (m *mockExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportXLSX, domain.ExportCSV}
}
