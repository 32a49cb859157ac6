package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// TokenizerProbe reports whether the BPE encoding could be loaded.
type TokenizerProbe interface {
	Ready() error
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Credentials    ports.CredentialSource
	Settings       ports.SettingsRepository
	History        ports.HistoryRepository
	Models         ports.ModelRegistry
	Tokenizer      TokenizerProbe
}

// Run executes checks and returns a report. Only a config that cannot be
// loaded aborts the run; every other problem becomes a failed check.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.credentialCheck())

	if s.Settings != nil {
		if _, err := s.Settings.Load(); err != nil {
			checks = append(checks, fail("Settings", err.Error()))
		} else {
			checks = append(checks, ok("Settings", s.Settings.Path()))
		}
	}

	if s.History != nil {
		if window, err := s.History.Window(cfg.GetMaxHistory(), false); err != nil {
			checks = append(checks, fail("History", err.Error()))
		} else {
			checks = append(checks, ok("History", fmt.Sprintf("%d/%d exchanges in %s", len(window), cfg.GetMaxHistory(), s.History.Path())))
		}
	}

	if s.Models != nil {
		if model, err := s.Models.Describe(cfg.GetDefaultModel()); err != nil {
			checks = append(checks, fail("Default model", err.Error()))
		} else {
			checks = append(checks, ok("Default model", fmt.Sprintf("%s (%s, %d tokens)", model.Model, model.API, model.MaxTokens)))
		}
	}

	if s.Tokenizer != nil {
		if err := s.Tokenizer.Ready(); err != nil {
			checks = append(checks, warn("Tokenizer", "using character estimate: "+err.Error()))
		} else {
			checks = append(checks, ok("Tokenizer", cfg.GetTokenizerEncoding()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) credentialCheck() domain.HealthCheck {
	if s.Credentials == nil {
		return warn("API key", "credential source not initialized")
	}
	if _, err := s.Credentials.APIKey(); err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fail("API key", cfgErr.Msg)
		}
		return fail("API key", err.Error())
	}
	return ok("API key", "found")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
