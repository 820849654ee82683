package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// Session title formats.
const (
	newSessionTitle      = "New Analysis %d"
	analysedSessionTitle = "Analysis: %s"
)

// SessionService owns the session store and the active-session pointer.
// Writes to one session are serialised by a per-session lock; the active
// pointer is guarded separately so switching never waits on a write.
type SessionService struct {
	store driven.SessionStore

	mu     sync.RWMutex
	active string
	locks  map[string]*sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewSessionService creates a session service backed by store.
func NewSessionService(store driven.SessionStore) *SessionService {
	return &SessionService{
		store: store,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Restore reloads the active pointer persisted by a previous run.
// A pointer to a session that no longer exists is cleared.
func (s *SessionService) Restore(ctx context.Context) error {
	id, err := s.store.LoadActive(ctx)
	if err != nil {
		return fmt.Errorf("load active session: %w", err)
	}
	if id == "" {
		return nil
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("active session %s no longer exists", id)
			return s.setActive(ctx, "")
		}
		return fmt.Errorf("load active session: %w", err)
	}
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	return nil
}

// Create stores a new empty session and makes it active.
func (s *SessionService) Create(ctx context.Context) (*domain.Session, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:        s.newID(),
		Title:     fmt.Sprintf(newSessionTitle, len(existing)+1),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := s.setActive(ctx, session.ID); err != nil {
		return nil, err
	}

	logger.Info("created session %s (%s)", session.ID, session.Title)
	return session, nil
}

// SwitchTo makes the named session active.
func (s *SessionService) SwitchTo(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return fmt.Errorf("get session %s: %w", id, err)
	}
	return s.setActive(ctx, id)
}

// Delete removes a session and clears the active pointer if it named it.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	s.mu.Lock()
	delete(s.locks, id)
	wasActive := s.active == id
	s.mu.Unlock()

	if wasActive {
		return s.setActive(ctx, "")
	}
	return nil
}

// ActiveID returns the active session ID, or empty.
func (s *SessionService) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Active returns a copy of the active session.
func (s *SessionService) Active(ctx context.Context) (*domain.Session, error) {
	id := s.ActiveID()
	if id == "" {
		return nil, domain.ErrNoActiveSession
	}
	return s.Get(ctx, id)
}

// Get returns a copy of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return session, nil
}

// List returns session summaries with the active one flagged.
func (s *SessionService) List(ctx context.Context) ([]domain.SessionSummary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	active := s.ActiveID()
	for i := range summaries {
		summaries[i].Active = summaries[i].ID == active
	}
	return summaries, nil
}

// EditCell writes a manual value into one cell of a session's record.
func (s *SessionService) EditCell(
	ctx context.Context,
	sessionID, fileName string,
	field domain.FieldKey,
	value string,
) error {
	if !field.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	id, err := s.resolve(sessionID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, id, false, func(session *domain.Session) error {
		record, ok := session.Record(fileName)
		if !ok {
			return fmt.Errorf("document %q: %w", fileName, domain.ErrNotFound)
		}
		return record.WriteManual(field, value)
	})
}

// resolve maps an empty session ID to the active session.
func (s *SessionService) resolve(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if active := s.ActiveID(); active != "" {
		return active, nil
	}
	return "", domain.ErrNoActiveSession
}

// mutate loads a session under its write lock, applies fn and saves the
// result. With requireActive, the write is discarded with ErrSessionInactive
// unless id is still the active session.
func (s *SessionService) mutate(
	ctx context.Context,
	id string,
	requireActive bool,
	fn func(*domain.Session) error,
) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if requireActive && s.ActiveID() != id {
		return fmt.Errorf("session %s: %w", id, domain.ErrSessionInactive)
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get session %s: %w", id, err)
	}
	if err := fn(session); err != nil {
		return err
	}
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

func (s *SessionService) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *SessionService) setActive(ctx context.Context, id string) error {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	if err := s.store.SaveActive(ctx, id); err != nil {
		return fmt.Errorf("save active session: %w", err)
	}
	return nil
}
