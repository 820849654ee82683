// Package cli implements the ropa command line.
//
// Commands reach the core through driving ports held in package variables.
// The composition root either sets them with SetServices or installs a
// Bootstrap that builds them once global flags are parsed.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose     bool
	configDir   string
	memoryStore bool
)

// Options are the global flags a Bootstrap receives.
type Options struct {
	// ConfigDir overrides ~/.ropa.
	ConfigDir string

	// Memory keeps sessions in memory only.
	Memory bool
}

// Bootstrap builds the services for one invocation. The returned func
// releases them and may be nil.
type Bootstrap func(opts Options) (Services, func(), error)

var (
	bootstrap Bootstrap
	release   func()
)

// SetBootstrap installs the service builder run before every command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

var (
	sessionService  driving.SessionService
	analysisService driving.AnalysisService
	chatService     driving.ChatService
	exportService   driving.ExportService
	settingsService driving.SettingsService
	inboxService    driving.InboxService

	// llmValidator pings the configured provider. Optional.
	llmValidator func(*domain.LLMSettings) error
)

// Services holds the driving ports used by the commands.
type Services struct {
	Sessions driving.SessionService
	Analysis driving.AnalysisService
	Chat     driving.ChatService
	Export   driving.ExportService
	Settings driving.SettingsService
	Inbox    driving.InboxService

	// ValidateLLM checks provider settings with a live request.
	ValidateLLM func(*domain.LLMSettings) error
}

// SetServices installs the ports used by the commands.
func SetServices(s Services) {
	sessionService = s.Sessions
	analysisService = s.Analysis
	chatService = s.Chat
	exportService = s.Export
	settingsService = s.Settings
	inboxService = s.Inbox
	llmValidator = s.ValidateLLM
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "ropa",
	Short: "Build a Record of Processing Activities from documents",
	Long: `ropa extracts Record of Processing Activities (RoPA) rows from policy
documents with an AI model, lets you refine the table by hand or through
chat, and exports it to Excel or CSV.

Each upload batch lives in a session. Cells remember who wrote them:
the initial extraction, a manual edit or an AI chat patch.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
			return nil
		}
		svc, closeFn, err := bootstrap(Options{ConfigDir: configDir, Memory: memoryStore})
		if err != nil {
			return err
		}
		SetServices(svc)
		release = closeFn
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default: ~/.ropa)")
	rootCmd.PersistentFlags().BoolVar(&memoryStore, "memory", false, "keep sessions in memory only")
}

// Execute runs the root command and releases the bootstrapped services.
// SIGINT and SIGTERM cancel the command context so long-running commands
// (serve, watch, mcp serve) shut down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if release != nil {
		release()
		release = nil
	}
	return err
}
