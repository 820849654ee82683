package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		uri    string
		suffix string
		want   string
	}{
		{"ropa://sessions/abc/table", "/table", "abc"},
		{"ropa://sessions/abc/transcript", "/transcript", "abc"},
		{"ropa://sessions/abc/table", "/transcript", ""},
		{"ropa://sessions//table", "/table", ""},
		{"ropa://sessions/a/b/table", "/table", ""},
		{"other://sessions/abc/table", "/table", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSessionID(tt.uri, tt.suffix))
		})
	}
}

func TestServer_handleSessionsResource(t *testing.T) {
	sessions := &mockSessionService{summaries: []domain.SessionSummary{{ID: "s1", Title: "HR"}}}
	server := newTestServer(t, &Ports{Sessions: sessions})

	result, err := server.handleSessionsResource(context.Background(), readRequest("ropa://sessions"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got []SessionOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "HR", got[0].Title)
}

func TestServer_handleTableResource(t *testing.T) {
	export := &mockExportService{tables: map[string]domain.Table{
		"s1": {Header: []string{"File Name"}, Rows: [][]string{{"a.pdf"}}},
	}}
	server := newTestServer(t, &Ports{Sessions: &mockSessionService{}, Export: export})

	t.Run("returns table json", func(t *testing.T) {
		result, err := server.handleTableResource(context.Background(), readRequest("ropa://sessions/s1/table"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"a.pdf"`)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleTableResource(context.Background(), readRequest("ropa://sessions/table"))
		assert.Error(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := server.handleTableResource(context.Background(), readRequest("ropa://sessions/zz/table"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleTranscriptResource(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	sessions := &mockSessionService{sessions: map[string]*domain.Session{
		"s1": {ID: "s1", Transcript: []domain.ChatTurn{
			{Sender: domain.SenderUser, Text: "who owns this?", Timestamp: at},
			{Sender: domain.SenderAI, Text: "HR", Timestamp: at},
		}},
	}}
	server := newTestServer(t, &Ports{Sessions: sessions})

	result, err := server.handleTranscriptResource(context.Background(), readRequest("ropa://sessions/s1/transcript"))
	require.NoError(t, err)
	assert.Equal(t, "[09:30] user: who owns this?\n[09:30] ai: HR\n", result.Contents[0].Text)
}
