package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// Service orchestrates a prompt end to end: assemble, check the budget,
// dispatch, clean up and record.
type Service struct {
	Pipeline        *Pipeline
	ProviderFactory ports.ProviderFactory
	Reporter        ports.ProgressReporter
	Logger          ports.Logger
}

// verboseToggler is implemented by loggers whose debug output can be
// switched on once the persisted settings are known.
type verboseToggler interface {
	SetVerbose(bool)
}

// Run processes one prompt. A *domain.BudgetError is returned before anything
// is sent or recorded.
func (s *Service) Run(ctx context.Context, words []string, explicit domain.Options) (domain.PromptResult, error) {
	if s.Pipeline == nil || s.ProviderFactory == nil || s.Logger == nil {
		return domain.PromptResult{}, errors.New("prompt.Service dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	assembly, err := s.Pipeline.Assemble(ctx, words, explicit)
	if err != nil {
		return domain.PromptResult{}, err
	}
	if assembly.Options.Verbose {
		if v, ok := s.Logger.(verboseToggler); ok {
			v.SetVerbose(true)
		}
		if s.Reporter != nil {
			s.Reporter.Assembled(assembly)
		}
	}

	if err := CheckBudget(assembly); err != nil {
		return domain.PromptResult{Assembly: assembly}, err
	}

	result := domain.PromptResult{Assembly: assembly, Output: domain.MockReply}
	if !assembly.Options.Mock {
		reply, err := s.dispatch(ctx, assembly)
		if err != nil {
			return result, err
		}
		result.Output = Cleanup(reply, assembly.HistoryUsed())
		result.Sent = true
	}

	entry := domain.HistoryEntry{User: assembly.OriginalPrompt, LLM: result.Output}
	if err := s.Pipeline.History.Append(entry); err != nil {
		return result, fmt.Errorf("record history: %w", err)
	}
	return result, nil
}

func (s *Service) dispatch(ctx context.Context, assembly domain.Assembly) (string, error) {
	provider, err := s.ProviderFactory.ForModel(assembly.Model)
	if err != nil {
		return "", fmt.Errorf("provider init: %w", err)
	}

	s.Logger.Info("calling provider", map[string]interface{}{
		"provider":   provider.Name(),
		"model":      assembly.Model.Model,
		"max_tokens": assembly.Options.MaxTokens,
	})

	done := func() {}
	if s.Reporter != nil {
		done = s.Reporter.Dispatching(assembly.Model)
	}
	resp, err := provider.Generate(ctx, ports.ProviderRequest{
		Prompt:      assembly.FinalPrompt,
		Model:       assembly.Model,
		MaxTokens:   assembly.Options.MaxTokens,
		Temperature: assembly.Options.Temperature,
		Debug:       assembly.Options.Verbose,
	})
	done()
	if err != nil {
		if assembly.Options.Verbose {
			s.Logger.Error("provider generate failed", err, map[string]interface{}{"model": assembly.Model.Model})
		}
		return "", err
	}
	if assembly.Options.Verbose && s.Reporter != nil {
		s.Reporter.Dispatched(resp)
	}
	return resp.Text, nil
}

// Count estimates the tokens of a prompt and/or file for a model without
// sending anything.
func (s *Service) Count(_ context.Context, req domain.CountRequest) (domain.CountResult, error) {
	if s.Pipeline == nil {
		return domain.CountResult{}, errors.New("prompt.Service dependencies not satisfied")
	}
	name := strings.TrimSpace(req.Model)
	if name == "" {
		name = s.Pipeline.DefaultModel
	}
	if name == "" {
		name = domain.DefaultModelName
	}
	model, err := s.Pipeline.Models.Describe(name)
	if err != nil {
		return domain.CountResult{}, err
	}

	tokens := 0
	if text := strings.Join(req.Prompt, " "); text != "" {
		tokens += s.Pipeline.Tokenizer.Count(text)
	}
	if req.File != "" {
		contents, err := s.Pipeline.readFile(req.File, req.Trim)
		if err != nil {
			return domain.CountResult{}, err
		}
		if contents != "" {
			tokens += s.Pipeline.Tokenizer.Count(contents)
		}
	}
	if tokens == 0 {
		return domain.CountResult{}, domain.ErrNothingToCount
	}
	return domain.CountResult{Tokens: tokens, ModelMax: model.MaxTokens, Model: model}, nil
}
