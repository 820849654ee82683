package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// mockInboxService delivers its batches synchronously then returns.
type mockInboxService struct {
	dir     string
	batches []func(driving.BatchHandler)
	err     error
}

func (m *mockInboxService) Start(_ context.Context, dir string, handle driving.BatchHandler) error {
	m.dir = dir
	for _, b := range m.batches {
		b(handle)
	}
	return m.err
}

func (m *mockInboxService) Stop() error { return nil }

func TestWatchCmd_NotConfigured(t *testing.T) {
	_, err := runCLI(t, Services{}, "", "watch", "/tmp")
	assert.EqualError(t, err, "inbox service not configured")
}

func TestWatchCmd_NeedsDirectory(t *testing.T) {
	_, err := runCLI(t, Services{Inbox: &mockInboxService{}, Settings: newMockSettingsService()}, "", "watch")
	assert.ErrorContains(t, err, "watch.dir is not set")
}

func TestWatchCmd_UsesSettingsDir(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.WatchDir = "/srv/inbox"
	inbox := &mockInboxService{}

	out, err := runCLI(t, Services{Inbox: inbox, Settings: settings}, "", "watch")

	require.NoError(t, err)
	assert.Equal(t, "/srv/inbox", inbox.dir)
	assert.Contains(t, out, "Watching /srv/inbox")
}

func TestWatchCmd_PrintsBatches(t *testing.T) {
	inbox := &mockInboxService{batches: []func(driving.BatchHandler){
		func(h driving.BatchHandler) {
			h([]string{"a.pdf"}, &driving.BatchResult{
				SessionID: "s1",
				Records:   []*domain.Record{domain.NewRecord("a.pdf")},
			}, nil)
		},
		func(h driving.BatchHandler) {
			h([]string{"bad.pdf"}, nil, errors.New("unsupported file type"))
		},
	}}

	out, err := runCLI(t, Services{Inbox: inbox}, "", "watch", "/in")

	require.NoError(t, err)
	assert.Contains(t, out, "Batch of 1 file(s)")
	assert.Contains(t, out, "✓ a.pdf")
	assert.Contains(t, out, "batch failed: unsupported file type")
}

func TestWatchCmd_StartError(t *testing.T) {
	inbox := &mockInboxService{err: errors.New("no such directory")}

	_, err := runCLI(t, Services{Inbox: inbox}, "", "watch", "/missing")

	assert.ErrorContains(t, err, "watch failed")
}

func TestServeCmd_NotConfigured(t *testing.T) {
	_, err := runCLI(t, Services{}, "", "serve")
	assert.EqualError(t, err, "session service not configured")
}

func TestMCPServeCmd_RequiresSessions(t *testing.T) {
	_, err := runCLI(t, Services{}, "", "mcp", "serve")
	assert.ErrorIs(t, err, mcp.ErrMissingSessionService)
}
