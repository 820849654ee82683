package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func clearKeys(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv(configDirEnv, "")
}

func TestBuildServices_Memory(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()

	svc, release, err := buildServices(cli.Options{ConfigDir: dir, Memory: true})
	require.NoError(t, err)
	t.Cleanup(release)

	require.NotNil(t, svc.Sessions)
	require.NotNil(t, svc.Analysis)
	require.NotNil(t, svc.Chat)
	require.NotNil(t, svc.Export)
	require.NotNil(t, svc.Settings)
	require.NotNil(t, svc.Inbox)
	assert.NotNil(t, svc.ValidateLLM)
	assert.NoFileExists(t, filepath.Join(dir, "data", "sessions.db"))

	ctx := context.Background()
	s, err := svc.Sessions.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, svc.Sessions.ActiveID())

	// No provider key: analysis reports the missing collaborator.
	_, err = svc.Analysis.Analyze(ctx, "", []domain.Upload{
		{FileName: "a.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.4")},
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestBuildServices_SQLiteUnderConfigDir(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()

	svc, release, err := buildServices(cli.Options{ConfigDir: dir})
	require.NoError(t, err)

	_, err = svc.Sessions.Create(context.Background())
	require.NoError(t, err)
	release()

	assert.FileExists(t, filepath.Join(dir, "data", "sessions.db"))

	// The active session survives a restart.
	svc, release, err = buildServices(cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	t.Cleanup(release)
	assert.NotEmpty(t, svc.Sessions.ActiveID())
}

func TestLoadSchema_Aliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  masa_retensi:\n    - lama_simpan\n"), 0o600))

	schema, err := loadSchema(path)
	require.NoError(t, err)

	k, ok := schema.Resolve("Lama Simpan")
	require.True(t, ok)
	assert.Equal(t, domain.FieldMasaRetensi, k)
}

func TestLoadSchema_MissingFileUsesDefaults(t *testing.T) {
	schema, err := loadSchema(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.NotNil(t, schema)
}

func TestLoadSchema_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  ghost:\n    - hantu\n"), 0o600))

	_, err := loadSchema(path)
	assert.Error(t, err)
}
