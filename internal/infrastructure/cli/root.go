package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/infrastructure/cli/commands"
	"github.com/doeshing/sllm/internal/infrastructure/cli/helpers"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
	Out        io.Writer
	Err        io.Writer
}

// NewRootCmd wires the cobra root command. The returned func releases the
// adapters and must be called once the command finished.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error, error) {
	container, err := app.BuildContainer(ctx, app.Options{Verbose: opts.Verbose, ConfigPath: opts.ConfigPath})
	if err != nil {
		return nil, nil, err
	}
	root := NewRootCmdWithContainer(container, opts)
	return root, container.Close, nil
}

// NewRootCmdWithContainer builds the command tree over an existing container.
func NewRootCmdWithContainer(container *app.Container, opts Options) *cobra.Command {
	out, errOut := opts.Out, opts.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	printer := helpers.NewPrinter(out, errOut, helpers.ColorEnabled(container.Config.GetColorMode(), out))

	flags := &commands.PromptFlags{}
	root := &cobra.Command{
		Use:   "sllm [prompt...]",
		Short: "sllm - CLI for OpenAI large language models",
		Long: "sllm sends prompts to OpenAI language models, decorating them with context,\n" +
			"file contents or prior exchanges, and keeps a local history and default settings.",
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsCredentials(cmd, args) {
				return nil
			}
			_, err := container.Credentials.APIKey()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return commands.RunPrompt(cmd, container, printer, flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(root)
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		commands.NewPromptCommand(container, printer),
		commands.NewSettingsCommand(container),
		commands.NewSettingsViewCommand(container),
		commands.NewSettingsDiffCommand(container),
		commands.NewSettingsPurgeCommand(container),
		commands.NewHistoryViewCommand(container),
		commands.NewHistoryUndoCommand(container, printer),
		commands.NewHistoryPurgeCommand(container),
		commands.NewPurgeCommand(container),
		commands.NewCountCommand(container, printer),
		commands.NewModelsCommand(container),
		commands.NewRepeatCommand(container, printer),
		commands.NewConfigCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

// needsCredentials is false for the commands that must work before a key
// is configured: help, completion, .version, .doctor and .config.
func needsCredentials(cmd *cobra.Command, args []string) bool {
	switch cmd.Name() {
	case commands.CmdVersion, commands.CmdDoctor, commands.CmdConfig, "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	if cmd.Parent() != nil {
		switch cmd.Parent().Name() {
		case "completion", commands.CmdConfig:
			return false
		}
	}
	if !cmd.HasParent() && len(args) == 0 {
		return false
	}
	return true
}
