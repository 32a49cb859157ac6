// Package domain defines core entities and value objects for sllm.
//
// The domain layer is independent of infrastructure concerns: it holds the
// option bag and its normalization, the history log and its window
// arithmetic, model descriptors, the application config shape and the typed
// errors that decide whether a command aborts the process.
package domain

// APIFamily selects the request shape used for a model.
type APIFamily string

const (
	// APIChat models take a messages array (chat completions).
	APIChat APIFamily = "gpt"
	// APICompletion models take a single free-text prompt.
	APICompletion APIFamily = "davinci"
)

// Valid reports whether the family is one the dispatcher can serve.
func (f APIFamily) Valid() bool {
	return f == APIChat || f == APICompletion
}

// ModelDescriptor describes a model's API family and hard context limit.
type ModelDescriptor struct {
	Model     string    `yaml:"name" json:"model"`
	API       APIFamily `yaml:"api" json:"api"`
	MaxTokens int       `yaml:"max_tokens" json:"maxTokens"`
	Beta      bool      `yaml:"beta,omitempty" json:"beta"`
}

// Budget returns the number of tokens the prompt and reply may share once
// the reply margin is reserved.
func (m ModelDescriptor) Budget() int {
	return m.MaxTokens - ReplyMargin
}

// ListedModel is a registry row as shown by the models command.
type ListedModel struct {
	Descriptor ModelDescriptor
	Aliases    []string
}
