package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Sessions are cloned on the way in and out so callers never share records.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	active   string
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
	}
}

// Save stores or replaces a session.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session.Clone(), nil
}

// List returns summaries of every session, most recently updated first.
func (s *SessionStore) List(_ context.Context) ([]domain.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	if s.active == id {
		s.active = ""
	}
	return nil
}

// SaveActive records which session is active.
func (s *SessionStore) SaveActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return nil
}

// LoadActive returns the recorded active session ID.
func (s *SessionStore) LoadActive(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}
