package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// stubLLM replies per attached file name for extraction calls and with
// chatReply for calls without attachments.
type stubLLM struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error

	chatReply string
	chatErr   error

	// during runs inside Generate before the reply is returned.
	during func()

	prompts []string
	calls   int
}

var _ driven.LLMService = (*stubLLM)(nil)

func newStubLLM() *stubLLM {
	return &stubLLM{
		replies: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (s *stubLLM) Generate(
	_ context.Context,
	prompt string,
	attachments []driven.Attachment,
	_ driven.GenerateOptions,
) (string, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	during := s.during
	s.mu.Unlock()

	if during != nil {
		during()
	}

	if len(attachments) == 0 {
		return s.chatReply, s.chatErr
	}
	name := attachments[0].FileName
	if err := s.errs[name]; err != nil {
		return "", err
	}
	return s.replies[name], nil
}

func (s *stubLLM) ModelName() string            { return "stub" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// fixedDetector reports one MIME type for every input.
type fixedDetector string

func (d fixedDetector) Detect(_ []byte) string { return string(d) }

// newTestSessions returns a session service over a memory store with a
// deterministic clock and ID sequence.
func newTestSessions(t *testing.T) (*SessionService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	svc := NewSessionService(store)

	var mu sync.Mutex
	clock := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	svc.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return "session-" + string(rune('0'+seq))
	}
	return svc, store
}

// seedSession creates an active session holding empty records for files.
func seedSession(t *testing.T, svc *SessionService, files ...string) *domain.Session {
	t.Helper()
	ctx := context.Background()
	session, err := svc.Create(ctx)
	require.NoError(t, err)
	err = svc.mutate(ctx, session.ID, false, func(s *domain.Session) error {
		for _, f := range files {
			s.Records = append(s.Records, domain.NewRecord(f))
		}
		return nil
	})
	require.NoError(t, err)
	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	return got
}

func pdf(name string) domain.Upload {
	return domain.Upload{FileName: name, MIMEType: domain.MIMETypePDF, Data: []byte("%PDF-1.4 " + name)}
}
