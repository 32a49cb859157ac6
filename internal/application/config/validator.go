package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/sllm/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validatePreferences(cfg.Preferences); err != nil {
		return err
	}
	if err := validateStorage(cfg.Storage); err != nil {
		return err
	}
	if err := validateModels(cfg.Models); err != nil {
		return err
	}
	return validateAliases(cfg.Aliases)
}

func validatePreferences(prefs domain.Preferences) error {
	if prefs.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout must be >= 0")
	}
	switch strings.ToLower(prefs.Color) {
	case "", domain.ColorAuto, domain.ColorAlways, domain.ColorNever:
	default:
		return fmt.Errorf("preferences.color must be auto|always|never, got %s", prefs.Color)
	}
	return nil
}

func validateStorage(storage domain.StorageSettings) error {
	switch storage.HistoryBackend {
	case "", domain.HistoryBackendJSON, domain.HistoryBackendSQL:
	default:
		return fmt.Errorf("storage.history_backend must be json|sqlite, got %s", storage.HistoryBackend)
	}
	if storage.MaxHistory < 0 {
		return fmt.Errorf("storage.max_history must be >= 0")
	}
	return nil
}

func validateModels(models []domain.ModelDescriptor) error {
	seen := make(map[string]bool, len(models))
	for i, model := range models {
		if strings.TrimSpace(model.Model) == "" {
			return fmt.Errorf("models[%d].name must be set", i)
		}
		if seen[model.Model] {
			return fmt.Errorf("model %s declared twice", model.Model)
		}
		seen[model.Model] = true
		if !model.API.Valid() {
			return fmt.Errorf("models[%d].api must be gpt|davinci, got %q", i, model.API)
		}
		if model.MaxTokens <= 0 {
			return fmt.Errorf("models[%d].max_tokens must be > 0", i)
		}
	}
	return nil
}

func validateAliases(aliases map[string]string) error {
	for alias, target := range aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
			return fmt.Errorf("aliases must map a non-empty name to a non-empty model")
		}
	}
	return nil
}
