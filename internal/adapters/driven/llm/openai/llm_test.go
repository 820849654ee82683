package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestGenerate_PlainPrompt(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	reply, err := svc.Generate(context.Background(), "hi", nil, driven.GenerateOptions{JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	messages := raw["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "hi", messages[0].(map[string]any)["content"])
	assert.Equal(t, map[string]any{"type": "json_object"}, raw["response_format"])
}

func TestGenerate_AttachmentParts(t *testing.T) {
	var raw struct {
		Messages []struct {
			Content []contentPart `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "extract", []driven.Attachment{
		{FileName: "scan.png", MIMEType: "image/png", Data: []byte{0x89}},
		{FileName: "policy.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")},
	}, driven.GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, raw.Messages, 1)
	parts := raw.Messages[0].Content
	require.Len(t, parts, 3)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, "data:image/png;base64,iQ==", parts[1].ImageURL.URL)
	assert.Equal(t, "file", parts[2].Type)
	assert.Equal(t, "policy.pdf", parts[2].File.FileName)
	assert.Equal(t, "data:application/pdf;base64,JVBERg==", parts[2].File.FileData)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
	}{
		{"rate limited", http.StatusTooManyRequests, ``, domain.ErrRateLimited},
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"auth"}}`, nil},
		{"no choices", http.StatusOK, `{"choices":[]}`, nil},
		{"not json", http.StatusBadGateway, `<html>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Generate(context.Background(), "p", nil, driven.GenerateOptions{})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	good, err := NewLLMService(LLMConfig{APIKey: "good", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, good.Ping(context.Background()))

	bad, err := NewLLMService(LLMConfig{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)
	assert.Error(t, bad.Ping(context.Background()))
}

func TestGenerate_TruncatedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"unit_kerja\":"},"finish_reason":"length"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", nil, driven.GenerateOptions{JSON: true})
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	reply, err := svc.Generate(context.Background(), "p", nil, driven.GenerateOptions{})
	require.NoError(t, err, "plain text replies may end at the limit")
	assert.Equal(t, `{"unit_kerja":`, reply)
}
