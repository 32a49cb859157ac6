package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/doeshing/sllm/internal/application/doctor"
	"github.com/doeshing/sllm/internal/application/prompt"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/ai"
	"github.com/doeshing/sllm/internal/infrastructure/config"
	"github.com/doeshing/sllm/internal/infrastructure/credentials"
	"github.com/doeshing/sllm/internal/infrastructure/history"
	"github.com/doeshing/sllm/internal/infrastructure/models"
	"github.com/doeshing/sllm/internal/infrastructure/settings"
	"github.com/doeshing/sllm/internal/infrastructure/tokenizer"
	"github.com/doeshing/sllm/internal/pkg/logger"
	"github.com/doeshing/sllm/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	Logger        *logger.StdLogger
	Settings      *settings.FileStore
	History       ports.HistoryRepository
	Models        *models.Registry
	Credentials   ports.CredentialSource
	PromptService *prompt.Service
	DoctorService *doctor.Service
	RequestID     string

	closers []func() error
}

// Options tunes BuildContainer.
type Options struct {
	Verbose bool
	// ConfigPath overrides the config file location.
	ConfigPath string
	// Fs backs the settings and history stores; nil means the OS filesystem.
	Fs afero.Fs
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	log := logger.NewStd(opts.Verbose).With(map[string]interface{}{"request_id": requestID})

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	dir := cfg.Storage.Dir

	settingsStore := settings.NewFileStore(fsys, dir)
	if err := settingsStore.Ensure(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Logger:       log,
		Settings:     settingsStore,
		RequestID:    requestID,
	}

	historyStore, err := c.buildHistory(fsys, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := historyStore.Ensure(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.History = historyStore

	registry, err := models.FromConfig(cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Models = registry

	c.Credentials = credentials.NewEnvSource(cfg.GetAuthEnvVar(), filepath.Join(dir, domain.EnvFileName))

	counter := tokenizer.NewTiktoken(cfg.GetTokenizerEncoding(), log)
	c.PromptService = &prompt.Service{
		Pipeline: &prompt.Pipeline{
			Settings:     settingsStore,
			History:      historyStore,
			Models:       registry,
			Tokenizer:    counter,
			Files:        fsys,
			DefaultModel: cfg.GetDefaultModel(),
		},
		ProviderFactory: ai.NewFactory(cfg.GetBaseURL(), c.Credentials, cfg.GetOrgEnvVar()),
		Logger:          log,
	}
	c.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Credentials:    c.Credentials,
		Settings:       settingsStore,
		History:        historyStore,
		Models:         registry,
		Tokenizer:      counter,
	}
	return c, nil
}

func (c *Container) buildHistory(fsys afero.Fs, cfg domain.Config, log ports.Logger) (ports.HistoryRepository, error) {
	if cfg.GetHistoryBackend() == domain.HistoryBackendSQL {
		store, err := history.NewSQLiteStore(cfg.Storage.Dir, cfg.GetMaxHistory(), log)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, store.Close)
		return store, nil
	}
	return history.NewFileStore(fsys, cfg.Storage.Dir, cfg.GetMaxHistory(), log), nil
}

// RequestContext bounds ctx with the configured request timeout, if any.
func (c *Container) RequestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Config.Preferences.TimeoutSeconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(c.Config.Preferences.TimeoutSeconds)*time.Second)
}

// Close releases resources held by the adapters.
func (c *Container) Close() error {
	var first error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
