package domain

// Assembly is the outcome of the prompt pipeline before dispatch.
type Assembly struct {
	// FinalPrompt is the text sent to the vendor, history included.
	FinalPrompt string
	// OriginalPrompt is the prompt before history was prepended; it is what
	// gets recorded so history never nests inside history.
	OriginalPrompt string
	// TokenEstimate counts FinalPrompt only.
	TokenEstimate int
	// TotalTokenEstimate is MaxTokens + TokenEstimate.
	TotalTokenEstimate int
	Options            NormalizedOptions
	Model              ModelDescriptor
}

// HistoryUsed reports whether prior exchanges were prepended.
func (a Assembly) HistoryUsed() bool {
	return a.Options.History > 0
}

// PromptResult is what a prompt command reports back to the CLI.
type PromptResult struct {
	Assembly Assembly
	Output   string
	Sent     bool
}

// CountRequest asks for a token estimate without sending anything.
type CountRequest struct {
	Prompt []string
	File   string
	Trim   bool
	Model  string
}

// CountResult is the token estimate for a prompt and/or file.
type CountResult struct {
	Tokens   int
	ModelMax int
	Model    ModelDescriptor
}

// MaxReply is what would remain of the model's window for a reply.
func (c CountResult) MaxReply() int {
	return c.ModelMax - c.Tokens
}
