// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/llm"
	geminillm "github.com/custodia-labs/ropa-cli/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/ropa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the AI services for one run.
type InitResult struct {
	// Extraction reads uploaded documents. It is throttled by the
	// extraction settings.
	Extraction driven.LLMService

	// Chat answers questions about a session.
	Chat driven.LLMService
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Extraction != nil {
		r.Extraction.Close()
	}
	if r.Chat != nil {
		r.Chat.Close()
	}
}

// CreateServices builds the extraction and chat services from settings.
// It returns ErrLLMUnavailable when no provider key is configured.
func CreateServices(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil || !settings.LLM.IsConfigured() {
		return nil, fmt.Errorf("%w: set %s or run 'ropa settings set-key'",
			domain.ErrLLMUnavailable, apiKeyEnv(settings))
	}

	extraction, err := CreateLLMService(&settings.LLM, settings.LLM.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	chat, err := CreateLLMService(&settings.LLM, settings.LLM.EffectiveChatModel())
	if err != nil {
		extraction.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	return &InitResult{
		Extraction: llm.NewRateLimited(extraction, llm.RateLimitConfig{
			RequestsPerSecond: settings.Extraction.RequestsPerSecond,
			BurstSize:         settings.Extraction.Concurrency,
		}),
		Chat: chat,
	}, nil
}

func apiKeyEnv(settings *domain.AppSettings) string {
	if settings == nil || !settings.LLM.Provider.IsValid() {
		return domain.AIProviderGemini.APIKeyEnv()
	}
	return settings.LLM.Provider.APIKeyEnv()
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings, settings.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'ropa settings set-key' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'ropa settings set-key' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// CreateLLMService creates the provider's service for model.
func CreateLLMService(settings *domain.LLMSettings, model string) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(geminillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
