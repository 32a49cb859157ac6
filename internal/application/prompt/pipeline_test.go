package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/models"
)

func newTestPipeline(settings domain.Options, history domain.HistoryLog, tokens int) *Pipeline {
	return &Pipeline{
		Settings:  &stubSettings{opts: settings},
		History:   &stubHistory{log: history},
		Models:    models.Default(),
		Tokenizer: fixedTokenizer{count: tokens},
		Files:     afero.NewMemMapFs(),
	}
}

func TestAssembleTransformsInFixedOrder(t *testing.T) {
	p := newTestPipeline(domain.Options{}, nil, 10)

	got, err := p.Assemble(context.Background(), []string{"what", "is", "a", "monad"}, domain.Options{
		LikeImFive: domain.Ptr(true),
		Context:    []string{"functional", "programming"},
		Domain:     []string{"math"},
		Expert:     []string{"haskell"},
		Code:       domain.Ptr("haskell"),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := "Act as an expert on haskell. The question I need you to answer is: " +
		"In the domain of math, " +
		"In the context of functional programming, " +
		"Answer this as if I'm five years old: " +
		"what is a monad" +
		" Respond ONLY with valid haskell code that could be executed verbatim. Do not include an explanation outside of inline comments."
	if got.FinalPrompt != want {
		t.Fatalf("FinalPrompt =\n%q\nwant\n%q", got.FinalPrompt, want)
	}
	if got.OriginalPrompt != got.FinalPrompt {
		t.Fatal("without history the original and final prompt must match")
	}
	if strings.Contains(got.FinalPrompt, domain.TagUser) {
		t.Fatal("history off must not add dialogue tags")
	}
}

func TestAssemblePrependsChronologicalHistory(t *testing.T) {
	history := domain.HistoryLog{
		{User: "one", LLM: "1"},
		{User: "two", LLM: "2"},
		{User: "three", LLM: "3"},
	}
	p := newTestPipeline(domain.Options{}, history, 10)

	got, err := p.Assemble(context.Background(), []string{"four?"}, domain.Options{History: domain.Ptr(2)})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := "_user_: two\n_assistant_: 2\n_user_: three\n_assistant_: 3\nfour?"
	if got.FinalPrompt != want {
		t.Fatalf("FinalPrompt = %q, want %q", got.FinalPrompt, want)
	}
	if got.OriginalPrompt != "four?" {
		t.Fatalf("OriginalPrompt = %q, history must not be recorded", got.OriginalPrompt)
	}
	if !got.HistoryUsed() {
		t.Fatal("HistoryUsed() = false")
	}
}

func TestAssembleFencesFile(t *testing.T) {
	p := newTestPipeline(domain.Options{}, nil, 10)
	if err := afero.WriteFile(p.Files, "/notes.txt", []byte("line one\n\n   line   two"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		trim bool
		want string
	}{
		{name: "raw", trim: false, want: "```\nline one\n\n   line   two\n```\nsummarize"},
		{name: "trimmed", trim: true, want: "```\nline one line two\n```\nsummarize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Assemble(context.Background(), []string{"summarize"}, domain.Options{
				File: domain.Ptr("/notes.txt"),
				Trim: domain.Ptr(tt.trim),
			})
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if got.FinalPrompt != tt.want {
				t.Fatalf("FinalPrompt = %q, want %q", got.FinalPrompt, tt.want)
			}
		})
	}
}

func TestAssembleMissingFileIsIOError(t *testing.T) {
	p := newTestPipeline(domain.Options{}, nil, 10)

	_, err := p.Assemble(context.Background(), []string{"x"}, domain.Options{File: domain.Ptr("/missing.txt")})

	var ioErr *domain.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *domain.IOError, got %v", err)
	}
}

func TestAssembleUnknownModel(t *testing.T) {
	p := newTestPipeline(domain.Options{}, nil, 10)

	_, err := p.Assemble(context.Background(), []string{"x"}, domain.Options{Model: domain.Ptr("not-a-model")})

	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *domain.ConfigurationError, got %v", err)
	}
}

func TestAssembleResolvesAliasAndPersistedSettings(t *testing.T) {
	p := newTestPipeline(domain.Options{Model: domain.Ptr("gpt3t"), MaxTokens: domain.Ptr(100)}, nil, 10)

	got, err := p.Assemble(context.Background(), []string{"hi"}, domain.Options{})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Model.Model != "gpt-3.5-turbo" || got.Model.API != domain.APIChat || got.Model.MaxTokens != 4096 {
		t.Fatalf("unexpected model %+v", got.Model)
	}
	if got.Options.MaxTokens != 100 {
		t.Fatalf("MaxTokens = %d, want persisted 100", got.Options.MaxTokens)
	}
	if got.TotalTokenEstimate != 110 {
		t.Fatalf("TotalTokenEstimate = %d, want 110", got.TotalTokenEstimate)
	}
}

func TestAssembleUnlimited(t *testing.T) {
	p := newTestPipeline(domain.Options{}, nil, 4000)

	got, err := p.Assemble(context.Background(), []string{"long"}, domain.Options{
		Unlimited: domain.Ptr(true),
		Model:     domain.Ptr("text-davinci-003"),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Options.MaxTokens != 1 {
		t.Fatalf("MaxTokens = %d, want 1", got.Options.MaxTokens)
	}
	if got.TotalTokenEstimate != 4001 {
		t.Fatalf("TotalTokenEstimate = %d, want 4001", got.TotalTokenEstimate)
	}
	if err := CheckBudget(got); err != nil {
		t.Fatalf("boundary total should pass, got %v", err)
	}
}

func TestCheckBudget(t *testing.T) {
	chat := domain.ModelDescriptor{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096}

	tests := []struct {
		name      string
		maxTokens int
		estimate  int
		history   int
		want      domain.BudgetReason
	}{
		{name: "fits", maxTokens: 256, estimate: 100},
		{name: "exact boundary", maxTokens: 256, estimate: 3744},
		{name: "total exceeded", maxTokens: 256, estimate: 3800, history: 2, want: domain.BudgetTotalExceeded},
		{name: "request larger than model", maxTokens: 5000, estimate: 1, want: domain.BudgetRequestTooLarge},
		{name: "no reply room", maxTokens: -20, estimate: 4020, want: domain.BudgetNoReplyRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Assembly{
				TokenEstimate:      tt.estimate,
				TotalTokenEstimate: tt.maxTokens + tt.estimate,
				Options:            domain.NormalizedOptions{MaxTokens: tt.maxTokens, History: tt.history},
				Model:              chat,
			}
			err := CheckBudget(a)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("CheckBudget() error = %v", err)
				}
				return
			}
			var budget *domain.BudgetError
			if !errors.As(err, &budget) {
				t.Fatalf("expected *domain.BudgetError, got %v", err)
			}
			if budget.Reason != tt.want {
				t.Fatalf("Reason = %s, want %s", budget.Reason, tt.want)
			}
			if budget.HistoryUsed != (tt.history > 0) {
				t.Fatalf("HistoryUsed = %v", budget.HistoryUsed)
			}
		})
	}
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		historyUsed bool
		want        string
	}{
		{name: "trims", raw: "  hello \n", want: "hello"},
		{name: "keeps tags without history", raw: "_assistant_: hi", want: "_assistant_: hi"},
		{name: "strips tags with history", raw: "_assistant_: hi _user_: there", historyUsed: true, want: "hi  there"},
		{name: "empty becomes warning", raw: " \n ", want: domain.EmptyReplyWarning},
		{name: "only tags becomes warning", raw: "_assistant_:", historyUsed: true, want: domain.EmptyReplyWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cleanup(tt.raw, tt.historyUsed); got != tt.want {
				t.Fatalf("Cleanup() = %q, want %q", got, tt.want)
			}
		})
	}
}
