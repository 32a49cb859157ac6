package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/sllm/assets"
	"github.com/doeshing/sllm/internal/domain"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultModelName, cfg.GetDefaultModel())
	assert.Equal(t, domain.HistoryBackendJSON, cfg.GetHistoryBackend())
	assert.Equal(t, domain.MaxHistoryStore, cfg.GetMaxHistory())
	assert.True(t, filepath.IsAbs(cfg.Storage.Dir), "storage dir %q not expanded", cfg.Storage.Dir)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, assets.DefaultConfigYAML, written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestLoadReadsCustomModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `preferences:
  default_model: gpt4
  timeout: 30
storage:
  dir: ` + dir + `
  history_backend: sqlite
models:
  - name: local-llama
    api: davinci
    max_tokens: 2048
aliases:
  llama: local-llama
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gpt4", cfg.GetDefaultModel())
	assert.Equal(t, 30, cfg.Preferences.TimeoutSeconds)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, domain.HistoryBackendSQL, cfg.GetHistoryBackend())
	require.Len(t, cfg.Models, 1)
	assert.Equal(t, domain.APICompletion, cfg.Models[0].API)
	assert.Equal(t, "local-llama", cfg.Aliases["llama"])
	assert.Equal(t, "1", cfg.ConfigFormatVersion)
}

func TestLoadInvalidFileIsConfigurationError(t *testing.T) {
	tests := map[string]string{
		"broken yaml":   "preferences: [",
		"bad backend":   "storage:\n  history_backend: redis\n",
		"bad model api": "models:\n  - name: x\n    api: bard\n    max_tokens: 10\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := NewFileLoader(path).Load(context.Background())
			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Contains(t, cfgErr.Msg, path)
		})
	}
}

func TestPathResolution(t *testing.T) {
	t.Setenv(domain.ConfigPathEnv, "/etc/sllm/custom.yaml")
	assert.Equal(t, "/etc/sllm/custom.yaml", NewFileLoader("").Path())
	assert.Equal(t, "/tmp/override.yaml", NewFileLoader("/tmp/override.yaml").Path())

	t.Setenv(domain.ConfigPathEnv, "")
	assert.Equal(t, filepath.Join(".config", domain.ConfigDirName, domain.ConfigFileName),
		trimHome(NewFileLoader("").Path()))
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)
	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	cfg.Preferences.DefaultModel = "gpt-4"
	cfg.Models = append(cfg.Models, domain.ModelDescriptor{Model: "gpt-4o", API: domain.APIChat, MaxTokens: 128000})
	cfg.Aliases = map[string]string{"gpt4o": "gpt-4o"}
	require.NoError(t, loader.Save(cfg))

	reloaded, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	loader := NewFileLoader(filepath.Join(t.TempDir(), "config.yaml"))
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Preferences.TimeoutSeconds = -1

	assert.Error(t, loader.Save(cfg))
}

func trimHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil {
		return path
	}
	return rel
}
