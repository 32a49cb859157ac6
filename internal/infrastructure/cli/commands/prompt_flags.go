package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/domain"
)

// PromptFlags are the option flags shared by the prompt and .settings
// commands.
type PromptFlags struct {
	verbose     bool
	maxTokens   int
	unlimited   bool
	temperature float64
	context     []string
	domain      []string
	expert      []string
	likeImFive  bool
	code        string
	history     int
	file        string
	trim        bool
	model       string
	mock        bool
}

// Register adds the option flags to cmd.
func (f *PromptFlags) Register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	flags.IntVarP(&f.maxTokens, "max-tokens", "x", domain.DefaultMaxTokens, "maximum tokens to use in the response")
	flags.BoolVarP(&f.unlimited, "unlimited", "X", false, "do not limit tokens used in the response")
	flags.Float64VarP(&f.temperature, "temperature", "t", domain.DefaultTemperature, "temperature to use")
	flags.StringArrayVarP(&f.context, "context", "c", nil, "context to prepend")
	flags.StringArrayVarP(&f.domain, "domain", "d", nil, "subject domain to prepend")
	flags.StringArrayVarP(&f.expert, "expert", "e", nil, "act as an expert on this domain")
	flags.BoolVarP(&f.likeImFive, "like-im-five", "5", false, "explain it like I'm 5 years old")
	flags.StringVarP(&f.code, "code", "C", "", "respond only with code in this language")
	flags.IntVarP(&f.history, "history", "H", 0, "prepend this many prior exchanges")
	flags.StringVarP(&f.file, "file", "f", "", "prepend the given file contents")
	flags.BoolVarP(&f.trim, "trim", "T", false, "collapse whitespace in the file contents")
	flags.StringVarP(&f.model, "model", "m", "", "model name or alias")
	flags.BoolVar(&f.mock, "mock", false, "do not actually send the prompt")
}

// Explicit returns only the options the user passed on the command line,
// so flag defaults never shadow persisted settings.
func (f *PromptFlags) Explicit(cmd *cobra.Command) domain.Options {
	changed := cmd.Flags().Changed
	var opts domain.Options
	if changed("verbose") {
		opts.Verbose = domain.Ptr(f.verbose)
	}
	if changed("max-tokens") {
		opts.MaxTokens = domain.Ptr(f.maxTokens)
	}
	if changed("unlimited") {
		opts.Unlimited = domain.Ptr(f.unlimited)
	}
	if changed("temperature") {
		opts.Temperature = domain.Ptr(f.temperature)
	}
	if changed("context") {
		opts.Context = f.context
	}
	if changed("domain") {
		opts.Domain = f.domain
	}
	if changed("expert") {
		opts.Expert = f.expert
	}
	if changed("like-im-five") {
		opts.LikeImFive = domain.Ptr(f.likeImFive)
	}
	if changed("code") {
		opts.Code = domain.Ptr(f.code)
	}
	if changed("history") {
		opts.History = domain.Ptr(f.history)
	}
	if changed("file") {
		opts.File = domain.Ptr(f.file)
	}
	if changed("trim") {
		opts.Trim = domain.Ptr(f.trim)
	}
	if changed("model") {
		opts.Model = domain.Ptr(f.model)
	}
	if changed("mock") {
		opts.Mock = domain.Ptr(f.mock)
	}
	return opts
}
