// Command ropa builds Records of Processing Activities from documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/export/csv"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/mime"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driven/watcher"
	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/services"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// configDirEnv overrides the default configuration directory.
const configDirEnv = "ROPA_CONFIG_DIR"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("reading .env: %v", err)
	}

	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the adapters into the core services.
func buildServices(opts cli.Options) (cli.Services, func(), error) {
	dir := opts.ConfigDir
	if dir == "" {
		dir = os.Getenv(configDirEnv)
	}
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("locating config directory: %w", err)
		}
		dir = d
	}

	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("reading settings: %w", err)
	}

	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store driven.SessionStore
	if opts.Memory || settings.Storage.Backend == domain.StorageMemory {
		store = memory.NewSessionStore()
	} else {
		dataDir := settings.Storage.DataDir
		if dataDir == "" {
			dataDir = filepath.Join(dir, "data")
		}
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("opening session store: %w", err)
		}
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("closing session store: %v", err)
			}
		})
		store = db.SessionStore()
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"), services.DefaultPrompts())
	if err != nil {
		release()
		return cli.Services{}, nil, fmt.Errorf("loading prompts: %w", err)
	}

	schema, err := loadSchema(settings.AliasesFile)
	if err != nil {
		release()
		return cli.Services{}, nil, err
	}

	// Without a provider the commands that need one report ErrLLMUnavailable.
	var extractionLLM, chatLLM driven.LLMService
	if llms, err := ai.CreateServices(settings); err != nil {
		logger.Debug("AI provider unavailable: %v", err)
	} else {
		extractionLLM, chatLLM = llms.Extraction, llms.Chat
		closers = append(closers, llms.Close)
	}

	sessionService := services.NewSessionService(store)
	if err := sessionService.Restore(context.Background()); err != nil {
		logger.Warn("restoring active session: %v", err)
	}

	analysisService := services.NewAnalysisService(
		sessionService, extractionLLM, prompts, mime.NewDetector(),
		services.NewNormalizer(schema), settings.Extraction.Concurrency,
	)
	chatService := services.NewChatService(sessionService, chatLLM, prompts, services.NewReconciler(schema))
	exportService := services.NewExportService(sessionService, xlsx.NewCodec(), csv.NewCodec())
	inboxService := services.NewInboxService(watcher.NewFSNotifyWatcher(), analysisService)

	return cli.Services{
		Sessions:    sessionService,
		Analysis:    analysisService,
		Chat:        chatService,
		Export:      exportService,
		Settings:    settingsService,
		Inbox:       inboxService,
		ValidateLLM: ai.ValidateLLMConfig,
	}, release, nil
}

// loadSchema extends the built-in field spellings with the alias file.
func loadSchema(path string) (*domain.Schema, error) {
	schema := domain.DefaultSchema()
	if path == "" {
		return schema, nil
	}
	aliases, err := file.NewAliasFile(path).Aliases()
	if err != nil {
		return nil, err
	}
	if len(aliases) == 0 {
		return schema, nil
	}
	extended, err := schema.WithAliases(aliases)
	if err != nil {
		return nil, fmt.Errorf("aliases %s: %w", path, err)
	}
	return extended, nil
}
