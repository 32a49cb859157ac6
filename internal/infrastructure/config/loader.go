package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/sllm/assets"
	configapp "github.com/doeshing/sllm/internal/application/config"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/pkg/filesystem"
	"github.com/doeshing/sllm/internal/ports"
)

// FileLoader loads YAML configuration from ~/.config/sllm/config.yaml (overridable via SLLM_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, &domain.IOError{Op: "create", Path: filepath.Dir(path), Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, &domain.IOError{Op: "write", Path: path, Err: err}
			}
			return DefaultConfig()
		}
		return domain.Config{}, &domain.IOError{Op: "read", Path: path, Err: err}
	}

	cfg, err := parse(data)
	if err != nil {
		return domain.Config{}, &domain.ConfigurationError{
			Msg:    fmt.Sprintf("invalid config file %s", path),
			Remedy: []string{"Fix the file or delete it to restore the defaults."},
			Err:    err,
		}
	}
	return cfg, nil
}

// Save validates and writes cfg to the config path.
func (l *FileLoader) Save(cfg domain.Config) error {
	if err := configapp.Validate(cfg); err != nil {
		return err
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(domain.ConfigPathEnv); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.ConfigDir(domain.ConfigDirName), domain.ConfigFileName)
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	return parse(assets.DefaultConfigYAML)
}

func parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	cfg = hydrateDefaults(cfg)
	if err := configapp.Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultModel == "" {
		cfg.Preferences.DefaultModel = domain.DefaultModelName
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filesystem.ConfigDir(domain.ConfigDirName)
	}
	cfg.Storage.Dir = filesystem.ExpandPath(cfg.Storage.Dir)
	if cfg.Storage.MaxHistory == 0 {
		cfg.Storage.MaxHistory = domain.MaxHistoryStore
	}
	if cfg.Storage.HistoryBackend == "" {
		cfg.Storage.HistoryBackend = domain.HistoryBackendJSON
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
