// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The prompt pipeline only talks to these interfaces,
// so settings and history can be backed by files, an in-memory filesystem or
// SQLite, and the vendor API can be replaced by a stub in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/sllm/internal/domain"
)

// ConfigProvider loads the latest application configuration.
// Implementations typically read from ~/.config/sllm/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SettingsRepository persists the default option record.
// Save replaces the whole record; it never merges with what was stored.
type SettingsRepository interface {
	Ensure() error
	Load() (domain.Options, error)
	Save(domain.Options) error
	Purge() error
	Path() string
}

// HistoryRepository is the bounded, chronological exchange log.
type HistoryRepository interface {
	Ensure() error
	Append(domain.HistoryEntry) error
	// Window returns the count most recent exchanges, newest first when
	// newestFirst is set and chronological otherwise.
	Window(count int, newestFirst bool) ([]domain.HistoryEntry, error)
	Undo(n int) error
	Last() (domain.HistoryEntry, bool, error)
	Purge() error
	Path() string
}

// ModelRegistry maps model names and aliases to descriptors.
type ModelRegistry interface {
	Resolve(name string) string
	Describe(name string) (domain.ModelDescriptor, error)
	List() []domain.ListedModel
}

// Tokenizer counts vendor tokens in a text.
type Tokenizer interface {
	Count(text string) int
}

// ProviderFactory builds a provider for a model's API family.
type ProviderFactory interface {
	ForModel(domain.ModelDescriptor) (Provider, error)
}

// Provider sends one assembled prompt to the vendor.
type Provider interface {
	Name() string
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest contains all data needed for one vendor call.
type ProviderRequest struct {
	Prompt      string
	Model       domain.ModelDescriptor
	MaxTokens   int
	Temperature float64
	Debug       bool
}

// ProviderResponse carries the generated text.
type ProviderResponse struct {
	Text string
	// Payload is the request body that was sent, kept for verbose output.
	Payload []byte
}

// CredentialSource resolves the vendor API key.
type CredentialSource interface {
	APIKey() (string, error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

// ProgressReporter is told about the stages of a prompt run. The CLI uses it
// for the verbose report and the spinner; it is optional.
type ProgressReporter interface {
	Assembled(domain.Assembly)
	// Dispatching is called right before the vendor request; the returned
	// func is called once the request finished.
	Dispatching(domain.ModelDescriptor) (done func())
	Dispatched(ProviderResponse)
}
