package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the AI provider, extraction limits and storage.

Settings live in ~/.ropa/config.toml. API keys may instead be supplied
through GEMINI_API_KEY or OPENAI_API_KEY (a .env file is honoured).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by key. Known keys:

  ` + strings.Join(settingKeys, "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Choose the AI provider and model",
	Long:  `Interactively select the AI provider, model and API key, then validate them.`,
	RunE:  runSettingsProvider,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key for the current provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSetKey,
}

var settingsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the AI provider with a live request",
	Args:  cobra.NoArgs,
	RunE:  runSettingsTest,
}

// settingKeys mirrors the keys accepted by the settings service.
var settingKeys = []string{
	"llm.provider", "llm.model", "llm.chat_model", "llm.base_url", "llm.api_key",
	"extraction.concurrency", "extraction.requests_per_second",
	"storage.backend", "storage.data_dir",
	"schema.aliases_file", "server.addr", "watch.dir",
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsTestCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Extraction model: %s\n", settings.LLM.Model)
	cmd.Printf("  Chat model: %s\n", settings.LLM.EffectiveChatModel())
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	} else {
		cmd.Printf("  API Key: (not set, export %s)\n", settings.LLM.Provider.APIKeyEnv())
	}
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Concurrency: %d\n", settings.Extraction.Concurrency)
	cmd.Printf("  Requests/second: %g\n", settings.Extraction.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Println()

	cmd.Println("[Other]")
	cmd.Printf("  Server address: %s\n", settings.ServerAddr)
	if settings.AliasesFile != "" {
		cmd.Printf("  Aliases file: %s\n", settings.AliasesFile)
	}
	if settings.WatchDir != "" {
		cmd.Printf("  Inbox dir: %s\n", settings.WatchDir)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	if args[0] == "llm.api_key" {
		cmd.Printf("Set %s = %s\n", args[0], maskAPIKey(args[1]))
	} else {
		cmd.Printf("Set %s = %s\n", args[0], args[1])
	}
	return nil
}

func runSettingsProvider(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select AI Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Printf("Enter API key (blank keeps current or uses %s): ", provider.APIKeyEnv())
	apiKey := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure provider: %w", err)
	}

	if err := validateLLM(cmd); err != nil {
		return err
	}
	cmd.Printf("AI provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword(cmd.InOrStdin(), bufio.NewReader(cmd.InOrStdin()))
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}
	if err := settingsService.Set("llm.api_key", apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("API key stored (%s).\n", maskAPIKey(apiKey))
	return nil
}

func runSettingsTest(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return err
	}
	return validateLLM(cmd)
}

// validateLLM pings the configured provider when a validator is installed.
func validateLLM(cmd *cobra.Command) error {
	if llmValidator == nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := llmValidator(&settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal and falls back to reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
