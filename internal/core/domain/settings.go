package domain

const unknownDescription = "Unknown"

// AIProvider identifies a generative AI service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI chat completions API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the environment variable consulted when no key is stored.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// LLMSettings holds AI provider configuration.
type LLMSettings struct {
	// Provider is the AI service provider.
	Provider AIProvider

	// Model is used for document extraction.
	Model string

	// ChatModel is used for chat turns. Empty means Model.
	ChatModel string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// EffectiveChatModel returns the model used for chat turns.
func (l LLMSettings) EffectiveChatModel() string {
	if l.ChatModel != "" {
		return l.ChatModel
	}
	return l.Model
}

// ExtractionSettings bounds the concurrent extraction calls.
type ExtractionSettings struct {
	// Concurrency is the maximum number of in-flight extraction calls.
	Concurrency int

	// RequestsPerSecond throttles calls to the AI provider.
	RequestsPerSecond float64
}

// StorageBackend names a session store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// StorageSettings holds session persistence configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir is the directory holding the database. Empty means ~/.ropa/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM        LLMSettings
	Extraction ExtractionSettings
	Storage    StorageSettings

	// AliasesFile is an optional YAML file with extra field spellings.
	AliasesFile string

	// ServerAddr is the listen address of the HTTP API.
	ServerAddr string

	// WatchDir is the default inbox directory for `ropa watch`.
	WatchDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider:  AIProviderGemini,
			Model:     DefaultLLMModels()[AIProviderGemini],
			ChatModel: DefaultChatModels()[AIProviderGemini],
		},
		Extraction: ExtractionSettings{
			Concurrency:       4,
			RequestsPerSecond: 2,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		ServerAddr: "127.0.0.1:8080",
	}
}

// AllLLMProviders returns providers that support extraction.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderGemini, AIProviderOpenAI}
}

// DefaultLLMModels returns default extraction models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-2.5-flash",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// DefaultChatModels returns default chat models for each provider.
func DefaultChatModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "gemini-1.5-flash",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}
