package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMChatModel      = "llm.chat_model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMAPIKey         = "llm.api_key"
	KeyConcurrency       = "extraction.concurrency"
	KeyRequestsPerSecond = "extraction.requests_per_second"
	KeyStorageBackend    = "storage.backend"
	KeyStorageDataDir    = "storage.data_dir"
	KeyAliasesFile       = "schema.aliases_file"
	KeyServerAddr        = "server.addr"
	KeyWatchDir          = "watch.dir"
)

// SettingKeys lists every key accepted by Set, in display order.
func SettingKeys() []string {
	return []string{
		KeyLLMProvider, KeyLLMModel, KeyLLMChatModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyConcurrency, KeyRequestsPerSecond,
		KeyStorageBackend, KeyStorageDataDir,
		KeyAliasesFile, KeyServerAddr, KeyWatchDir,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. A missing API key falls back
// to the provider's environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := domain.AIProvider(s.configStore.GetString(KeyLLMProvider))
	if !provider.IsValid() {
		provider = defaults.LLM.Provider
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:  provider,
			Model:     s.getString(KeyLLMModel, domain.DefaultLLMModels()[provider]),
			ChatModel: s.getString(KeyLLMChatModel, domain.DefaultChatModels()[provider]),
			BaseURL:   s.configStore.GetString(KeyLLMBaseURL),
			APIKey:    s.configStore.GetString(KeyLLMAPIKey),
		},
		Extraction: domain.ExtractionSettings{
			Concurrency:       s.getInt(KeyConcurrency, defaults.Extraction.Concurrency),
			RequestsPerSecond: s.getFloat(KeyRequestsPerSecond, defaults.Extraction.RequestsPerSecond),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
		AliasesFile: s.configStore.GetString(KeyAliasesFile),
		ServerAddr:  s.getString(KeyServerAddr, defaults.ServerAddr),
		WatchDir:    s.configStore.GetString(KeyWatchDir),
	}

	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.getenv(provider.APIKeyEnv())
	}
	return settings, nil
}

// Save persists application settings. An empty API key is not written, so
// keys supplied through the environment never land in the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMChatModel, settings.LLM.ChatModel},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyConcurrency, settings.Extraction.Concurrency},
		{KeyRequestsPerSecond, settings.Extraction.RequestsPerSecond},
		{KeyStorageBackend, string(settings.Storage.Backend)},
		{KeyStorageDataDir, settings.Storage.DataDir},
		{KeyAliasesFile, settings.AliasesFile},
		{KeyServerAddr, settings.ServerAddr},
		{KeyWatchDir, settings.WatchDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}
	return nil
}

// Set validates and stores one setting given as text.
func (s *SettingsService) Set(key, value string) error {
	var stored any = value

	switch key {
	case KeyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
	case KeyConcurrency:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case KeyRequestsPerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		stored = f
	case KeyLLMModel, KeyLLMChatModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyStorageDataDir, KeyAliasesFile, KeyServerAddr, KeyWatchDir:
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetLLMProvider configures the AI provider. An empty model selects the
// provider default; an empty key keeps the stored one.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.LLM.Provider != provider {
		settings.LLM.BaseURL = ""
		settings.LLM.ChatModel = domain.DefaultChatModels()[provider]
	}
	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the settings can drive analysis.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: no API key for %s (set %s or run 'ropa settings set-key')",
			domain.ErrLLMUnavailable, settings.LLM.Provider, settings.LLM.Provider.APIKeyEnv())
	}
	if settings.LLM.Model == "" {
		return fmt.Errorf("%w: no model configured", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	if b := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}
