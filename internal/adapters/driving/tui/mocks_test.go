package tui

import (
	"context"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

type mockSessionService struct {
	active   *domain.Session
	switched string
}

func (m *mockSessionService) Create(_ context.Context) (*domain.Session, error) {
	m.active = &domain.Session{ID: "new", Title: "New session"}
	return m.active, nil
}

func (m *mockSessionService) SwitchTo(_ context.Context, id string) error {
	m.switched = id
	return nil
}

func (m *mockSessionService) Delete(_ context.Context, _ string) error { return nil }

func (m *mockSessionService) ActiveID() string {
	if m.active == nil {
		return ""
	}
	return m.active.ID
}

func (m *mockSessionService) Active(_ context.Context) (*domain.Session, error) {
	if m.active == nil {
		return nil, domain.ErrNoActiveSession
	}
	return m.active, nil
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	if m.active != nil && m.active.ID == id {
		return m.active, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.SessionSummary, error) {
	if m.active == nil {
		return nil, nil
	}
	return []domain.SessionSummary{m.active.Summary()}, nil
}

func (m *mockSessionService) EditCell(_ context.Context, _, _ string, _ domain.FieldKey, _ string) error {
	return nil
}

type mockChatService struct{}

func (m *mockChatService) Ask(_ context.Context, _, _ string) (*driving.ChatResult, error) {
	return &driving.ChatResult{Turn: domain.ChatTurn{Sender: domain.SenderAI, Text: "ok"}}, nil
}

type mockSettingsService struct{}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error { return nil }

func (m *mockSettingsService) Validate() error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
