package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/cli/helpers"
)

// NewPromptCommand creates the .prompt command. The root command runs the
// same code when called with bare prompt words.
func NewPromptCommand(container *app.Container, printer *helpers.Printer) *cobra.Command {
	flags := &PromptFlags{}
	cmd := &cobra.Command{
		Use:   CmdPrompt + " <prompt...>",
		Short: "Send a prompt (default command)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunPrompt(cmd, container, printer, flags, args)
		},
	}
	flags.Register(cmd)
	return cmd
}

// RunPrompt sends args as a prompt and prints the reply. Budget violations
// are reported and swallowed; every other error is returned.
func RunPrompt(cmd *cobra.Command, container *app.Container, printer *helpers.Printer, flags *PromptFlags, args []string) error {
	if len(args) == 0 {
		return errors.New(ErrPromptRequired)
	}

	ctx, cancel := container.RequestContext(cmd.Context())
	defer cancel()

	service := container.PromptService
	service.Reporter = helpers.NewReporter(printer, helpers.IsTerminal(printer.Err))

	result, err := service.Run(ctx, args, flags.Explicit(cmd))
	if err != nil {
		var budget *domain.BudgetError
		if errors.As(err, &budget) {
			renderBudgetError(printer, budget)
			return nil
		}
		var transport *domain.TransportError
		if errors.As(err, &transport) {
			printer.Note(transport.Hint())
		}
		return err
	}

	printer.Reply(result.Output, result.Assembly.Options.Code)
	return nil
}

func renderBudgetError(printer *helpers.Printer, err *domain.BudgetError) {
	printer.Error(err.Error())
	if err.Reason == domain.BudgetRequestTooLarge {
		return
	}
	printer.Println(MsgLimitPrompt)
	if err.HistoryUsed {
		printer.Println(MsgHistoryOff)
	}
	if err.Reason == domain.BudgetNoReplyRoom {
		printer.Println(fmt.Sprintf("The model window is %d tokens.", err.ModelLimit))
	}
}
