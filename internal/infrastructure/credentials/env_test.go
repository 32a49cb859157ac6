package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/sllm/internal/domain"
)

// unsetEnv clears name for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("SLLM_TEST_KEY", "  sk-env  ")
	src := NewEnvSource("SLLM_TEST_KEY", "")

	key, err := src.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)
}

func TestAPIKeyFromEnvFile(t *testing.T) {
	unsetEnv(t, "SLLM_TEST_KEY")
	envFile := filepath.Join(t.TempDir(), "sllm.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLLM_TEST_KEY=sk-file\n"), 0o600))

	key, err := NewEnvSource("SLLM_TEST_KEY", envFile).APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-file", key)
}

func TestEnvironmentWinsOverEnvFile(t *testing.T) {
	t.Setenv("SLLM_TEST_KEY", "sk-env")
	envFile := filepath.Join(t.TempDir(), "sllm.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLLM_TEST_KEY=sk-file\n"), 0o600))

	key, err := NewEnvSource("SLLM_TEST_KEY", envFile).APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", key)
}

func TestMissingKeyExplainsHowToSetIt(t *testing.T) {
	unsetEnv(t, "SLLM_TEST_KEY")
	src := NewEnvSource("SLLM_TEST_KEY", filepath.Join(t.TempDir(), "absent.env"))

	_, err := src.APIKey()
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "SLLM_TEST_KEY unset", cfgErr.Msg)
	remedy := strings.Join(cfgErr.Remedy, "\n")
	assert.Contains(t, remedy, "export SLLM_TEST_KEY=<your_key>")
	assert.Contains(t, remedy, domain.APIKeysURL)
}

func TestDefaultVariable(t *testing.T) {
	assert.Equal(t, domain.DefaultAPIKeyEnv, NewEnvSource("", "").Var)
}
