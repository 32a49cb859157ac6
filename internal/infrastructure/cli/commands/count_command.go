package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/cli/helpers"
)

// NewCountCommand creates .count, which estimates tokens without sending.
func NewCountCommand(container *app.Container, printer *helpers.Printer) *cobra.Command {
	var req domain.CountRequest
	cmd := &cobra.Command{
		Use:   CmdCount,
		Short: "Estimate the tokens used by a prompt or file",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Prompt = append(req.Prompt, args...)
			result, err := container.PromptService.Count(cmd.Context(), req)
			if errors.Is(err, domain.ErrNothingToCount) {
				printer.Error(MsgNothingToCount)
				printer.Println(MsgCountHint)
				return nil
			}
			if err != nil {
				return err
			}
			printer.Println(fmt.Sprintf("Estimated Tokens: %d/%d", result.Tokens, result.ModelMax))
			printer.Println(fmt.Sprintf("Max Reply: %d", result.MaxReply()))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&req.Prompt, "prompt", "p", nil, "the prompt text to check")
	cmd.Flags().StringVarP(&req.File, "file", "f", "", "the file to check")
	cmd.Flags().BoolVarP(&req.Trim, "trim", "T", false, "collapse whitespace in the file contents")
	cmd.Flags().StringVarP(&req.Model, "model", "m", "", "model name or alias")
	return cmd
}
