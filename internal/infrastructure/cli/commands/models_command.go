package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
)

// NewModelsCommand creates .models.
func NewModelsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdModels,
		Short: "List the available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listModels(cmd.OutOrStdout(), container)
			return nil
		},
	}
}

// listModels prints every model with its aliases and beta note
func listModels(out io.Writer, container *app.Container) {
	defaultModel := container.Models.Resolve(container.Config.GetDefaultModel())
	fmt.Fprintln(out, "Available Models:")
	for _, listed := range container.Models.List() {
		fmt.Fprintln(out, "-------")
		name := listed.Descriptor.Model
		if name == defaultModel {
			name += " (default)"
		}
		fmt.Fprintln(out, name)
		fmt.Fprintf(out, "api: %s, max tokens: %d\n", listed.Descriptor.API, listed.Descriptor.MaxTokens)
		if len(listed.Aliases) > 0 {
			fmt.Fprintf(out, "alias: %s\n", strings.Join(listed.Aliases, ", "))
		}
		if listed.Descriptor.Beta {
			fmt.Fprintln(out, "beta: might require special access!")
		}
	}
	fmt.Fprintln(out, "///////")
	fmt.Fprintln(out, "You can specify a model with the -m option")
	fmt.Fprintf(out, "More info: %s\n", domain.ModelsDocURL)
}
