package credentials

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// EnvSource reads the API key from the environment, after loading an
// optional dotenv file that never overrides variables already set.
type EnvSource struct {
	Var     string
	EnvFile string
}

// NewEnvSource builds a source for variable, falling back to envFile.
func NewEnvSource(variable, envFile string) *EnvSource {
	if variable == "" {
		variable = domain.DefaultAPIKeyEnv
	}
	return &EnvSource{Var: variable, EnvFile: envFile}
}

// APIKey implements ports.CredentialSource.
func (s *EnvSource) APIKey() (string, error) {
	if s.EnvFile != "" {
		if err := godotenv.Load(s.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", &domain.ConfigurationError{
				Msg: "cannot read env file " + s.EnvFile,
				Err: err,
			}
		}
	}
	key := strings.TrimSpace(os.Getenv(s.Var))
	if key == "" {
		return "", s.missing()
	}
	return key, nil
}

func (s *EnvSource) missing() *domain.ConfigurationError {
	remedy := []string{
		"To set, use the command:",
		"export " + s.Var + "=<your_key>",
	}
	if s.EnvFile != "" {
		remedy = append(remedy, "or add "+s.Var+"=<your_key> to "+s.EnvFile)
	}
	remedy = append(remedy, domain.APIKeysURL)
	return &domain.ConfigurationError{
		Msg:    s.Var + " unset",
		Remedy: remedy,
	}
}

var _ ports.CredentialSource = (*EnvSource)(nil)
