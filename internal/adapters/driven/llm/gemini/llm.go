// Package gemini provides an LLM service adapter using the Google Generative Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultLLMModel   = "gemini-2.5-flash"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Gemini LLM service.
type LLMConfig struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Gemini generateContent API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate sends prompt with the attachments inlined as base64 parts.
func (s *LLMService) Generate(
	ctx context.Context,
	prompt string,
	attachments []driven.Attachment,
	opts driven.GenerateOptions,
) (string, error) {
	parts := make([]part, 0, len(attachments)+1)
	parts = append(parts, part{Text: prompt})
	for _, a := range attachments {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: a.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(a.Data),
		}})
	}

	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	}
	if opts.JSON || opts.MaxTokens > 0 || opts.Temperature > 0 {
		cfg := &generationConfig{
			MaxOutputTokens: opts.MaxTokens,
			Temperature:     opts.Temperature,
		}
		if opts.JSON {
			cfg.ResponseMIMEType = "application/json"
		}
		reqBody.GenerationConfig = cfg
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, url.PathEscape(s.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.withKey(endpoint), bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("gemini: %w", domain.ErrRateLimited)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("gemini error: %s", genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(genResp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	var text strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	finish := genResp.Candidates[0].FinishReason
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini: empty candidate (finish reason %q)", finish)
	}
	if opts.JSON && finish == "MAX_TOKENS" {
		return "", fmt.Errorf("gemini: %w: reply truncated at the token limit", domain.ErrMalformedResponse)
	}
	return text.String(), nil
}

func (s *LLMService) withKey(endpoint string) string {
	return endpoint + "?key=" + url.QueryEscape(s.apiKey)
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the model metadata endpoint, which validates the key without
// running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s", s.baseURL, url.PathEscape(s.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.withKey(endpoint), http.NoBody)
	if err != nil {
		return fmt.Errorf("gemini: failed to create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if err != nil {
			return fmt.Errorf("gemini: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("gemini: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
