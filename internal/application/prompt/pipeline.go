package prompt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// Prompt transforms. Each one wraps the whole prompt built so far.
const (
	likeImFivePrefix = "Answer this as if I'm five years old: "
	contextPrefix    = "In the context of %s, "
	domainPrefix     = "In the domain of %s, "
	expertPrefix     = "Act as an expert on %s. The question I need you to answer is: "
	codeSuffix       = " Respond ONLY with valid %s code that could be executed verbatim. Do not include an explanation outside of inline comments."
)

// Pipeline turns words and options into a dispatchable Assembly.
type Pipeline struct {
	Settings     ports.SettingsRepository
	History      ports.HistoryRepository
	Models       ports.ModelRegistry
	Tokenizer    ports.Tokenizer
	Files        afero.Fs
	DefaultModel string
}

// Assemble runs the pipeline steps in their fixed order. It performs no
// network I/O; unknown models fail here.
func (p *Pipeline) Assemble(_ context.Context, words []string, explicit domain.Options) (domain.Assembly, error) {
	text := strings.Join(words, " ")

	persisted, err := p.Settings.Load()
	if err != nil {
		return domain.Assembly{}, err
	}
	opts := domain.Merge(persisted, explicit).Normalize(p.DefaultModel)

	if opts.File != "" {
		contents, err := p.readFile(opts.File, opts.Trim)
		if err != nil {
			return domain.Assembly{}, err
		}
		text = fence(contents) + text
	}

	model, err := p.Models.Describe(opts.Model)
	if err != nil {
		return domain.Assembly{}, err
	}
	opts.Model = model.Model

	text = applyTransforms(text, opts)
	original := text

	if opts.History > 0 {
		window, err := p.History.Window(opts.History, false)
		if err != nil {
			return domain.Assembly{}, fmt.Errorf("read history: %w", err)
		}
		text = domain.FormatWindow(window) + text
	}

	estimate := p.Tokenizer.Count(text)
	if opts.Unlimited {
		opts.MaxTokens = model.MaxTokens - estimate - domain.ReplyMargin
	}

	return domain.Assembly{
		FinalPrompt:        text,
		OriginalPrompt:     original,
		TokenEstimate:      estimate,
		TotalTokenEstimate: opts.MaxTokens + estimate,
		Options:            opts,
		Model:              model,
	}, nil
}

// CheckBudget enforces the model window. Hitting the limit exactly passes.
func CheckBudget(a domain.Assembly) error {
	limit := a.Model.MaxTokens
	budget := &domain.BudgetError{
		Requested:   a.Options.MaxTokens,
		Total:       a.TotalTokenEstimate,
		ModelLimit:  limit,
		HistoryUsed: a.HistoryUsed(),
	}
	switch {
	case a.Options.MaxTokens > limit:
		budget.Reason = domain.BudgetRequestTooLarge
	case a.Options.MaxTokens < 1:
		budget.Reason = domain.BudgetNoReplyRoom
	case a.TotalTokenEstimate > a.Model.Budget():
		budget.Reason = domain.BudgetTotalExceeded
	default:
		return nil
	}
	return budget
}

// Cleanup strips echoed dialogue tags when history was prepended and never
// returns an empty reply.
func Cleanup(raw string, historyUsed bool) string {
	out := raw
	if historyUsed {
		out = strings.ReplaceAll(out, domain.TagUser, "")
		out = strings.ReplaceAll(out, domain.TagAssistant, "")
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return domain.EmptyReplyWarning
	}
	return out
}

func applyTransforms(text string, opts domain.NormalizedOptions) string {
	if opts.LikeImFive {
		text = likeImFivePrefix + text
	}
	if len(opts.Context) > 0 {
		text = fmt.Sprintf(contextPrefix, strings.Join(opts.Context, " ")) + text
	}
	if len(opts.Domain) > 0 {
		text = fmt.Sprintf(domainPrefix, strings.Join(opts.Domain, " ")) + text
	}
	if len(opts.Expert) > 0 {
		text = fmt.Sprintf(expertPrefix, strings.Join(opts.Expert, " ")) + text
	}
	if opts.Code != "" {
		text += fmt.Sprintf(codeSuffix, opts.Code)
	}
	return text
}

func (p *Pipeline) readFile(path string, trim bool) (string, error) {
	data, err := afero.ReadFile(p.files(), path)
	if err != nil {
		op := "read"
		if errors.Is(err, fs.ErrNotExist) {
			op = "open"
		}
		return "", &domain.IOError{Op: op, Path: path, Err: err}
	}
	contents := string(data)
	if trim {
		contents = collapseWhitespace(contents)
	}
	return contents, nil
}

func (p *Pipeline) files() afero.Fs {
	if p.Files == nil {
		return afero.NewOsFs()
	}
	return p.Files
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fence(contents string) string {
	if !strings.HasSuffix(contents, "\n") {
		contents += "\n"
	}
	return "```\n" + contents + "```\n"
}
