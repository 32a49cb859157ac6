package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// builtinModels is the table shipped with sllm; config.yaml can add to it.
var builtinModels = []domain.ModelDescriptor{
	{Model: "text-davinci-002", API: domain.APICompletion, MaxTokens: 4097},
	{Model: "text-davinci-003", API: domain.APICompletion, MaxTokens: 4097},
	{Model: "gpt-3.5-turbo", API: domain.APIChat, MaxTokens: 4096},
	{Model: "gpt-4", API: domain.APIChat, MaxTokens: 8192, Beta: true},
	{Model: "gpt-4-32k", API: domain.APIChat, MaxTokens: 32768, Beta: true},
	{Model: "code-davinci-002", API: domain.APICompletion, MaxTokens: 8001, Beta: true},
}

var builtinAliases = map[string]string{
	"gpt3":  "text-davinci-003",
	"gpt3t": "gpt-3.5-turbo",
	"gpt4":  "gpt-4",
	"gpt4b": "gpt-4-32k",
}

// Registry is a static lookup of model descriptors and aliases.
type Registry struct {
	descriptors map[string]domain.ModelDescriptor
	aliases     map[string]string
}

// NewRegistry builds a registry from descriptors and aliases. Every alias
// must name a descriptor, and every descriptor must use a known API family.
func NewRegistry(descriptors []domain.ModelDescriptor, aliases map[string]string) (*Registry, error) {
	r := &Registry{
		descriptors: make(map[string]domain.ModelDescriptor, len(descriptors)),
		aliases:     make(map[string]string, len(aliases)),
	}
	for _, d := range descriptors {
		name := strings.TrimSpace(d.Model)
		if name == "" {
			return nil, &domain.ConfigurationError{Msg: "model descriptor without a name"}
		}
		if !d.API.Valid() {
			return nil, &domain.ConfigurationError{
				Msg:    fmt.Sprintf("model %s has unknown api %q", name, d.API),
				Remedy: []string{"Use api: gpt (chat) or api: davinci (completion)."},
			}
		}
		if d.MaxTokens <= 0 {
			return nil, &domain.ConfigurationError{Msg: fmt.Sprintf("model %s needs a positive max_tokens", name)}
		}
		d.Model = name
		r.descriptors[name] = d
	}
	for alias, target := range aliases {
		if _, ok := r.descriptors[target]; !ok {
			return nil, &domain.ConfigurationError{
				Msg: fmt.Sprintf("alias %s points to unknown model %s", alias, target),
			}
		}
		r.aliases[alias] = target
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := NewRegistry(builtinModels, builtinAliases)
	if err != nil {
		panic(err)
	}
	return r
}

// FromConfig layers the descriptors and aliases of cfg over the built-in
// tables. A configured descriptor replaces a built-in one of the same name.
func FromConfig(cfg domain.Config) (*Registry, error) {
	byName := make(map[string]domain.ModelDescriptor, len(builtinModels)+len(cfg.Models))
	order := make([]string, 0, len(builtinModels)+len(cfg.Models))
	for _, d := range append(append([]domain.ModelDescriptor{}, builtinModels...), cfg.Models...) {
		d.Model = strings.TrimSpace(d.Model)
		if _, seen := byName[d.Model]; !seen {
			order = append(order, d.Model)
		}
		byName[d.Model] = d
	}
	descriptors := make([]domain.ModelDescriptor, 0, len(order))
	for _, name := range order {
		descriptors = append(descriptors, byName[name])
	}

	aliases := make(map[string]string, len(builtinAliases)+len(cfg.Aliases))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	for k, v := range cfg.Aliases {
		aliases[k] = v
	}
	return NewRegistry(descriptors, aliases)
}

// Resolve maps an alias to its canonical name; other names pass through.
func (r *Registry) Resolve(name string) string {
	name = strings.TrimSpace(name)
	if target, ok := r.aliases[name]; ok {
		return target
	}
	return name
}

// Describe resolves name and returns its descriptor.
func (r *Registry) Describe(name string) (domain.ModelDescriptor, error) {
	d, ok := r.descriptors[r.Resolve(name)]
	if !ok {
		return domain.ModelDescriptor{}, domain.NewUnknownModelError(name)
	}
	return d, nil
}

// List returns every model with its aliases, sorted by name.
func (r *Registry) List() []domain.ListedModel {
	byTarget := make(map[string][]string)
	for alias, target := range r.aliases {
		byTarget[target] = append(byTarget[target], alias)
	}
	out := make([]domain.ListedModel, 0, len(r.descriptors))
	for name, d := range r.descriptors {
		aliases := byTarget[name]
		sort.Strings(aliases)
		out = append(out, domain.ListedModel{Descriptor: d, Aliases: aliases})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor.Model < out[j].Descriptor.Model
	})
	return out
}

var _ ports.ModelRegistry = (*Registry)(nil)
