package driving

import "github.com/custodia-labs/ropa-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, applying environment
	// fallbacks for the API key.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates one setting by its config key.
	Set(key, value string) error

	// SetLLMProvider configures the AI provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that the settings can drive analysis.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
