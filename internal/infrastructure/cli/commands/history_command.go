package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/cli/helpers"
)

// NewHistoryViewCommand creates .history-view.
func NewHistoryViewCommand(container *app.Container) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   CmdHistoryView,
		Short: "View the conversation history, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewHistory(cmd.OutOrStdout(), container, count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", domain.DefaultHistoryViewCount, "number of exchanges to show")
	return cmd
}

// NewHistoryUndoCommand creates .history-undo.
func NewHistoryUndoCommand(container *app.Container, printer *helpers.Printer) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   CmdHistoryUndo,
		Short: "Remove the most recent exchanges from the history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return undoHistory(printer, container, count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", domain.DefaultUndoCount, "number of exchanges to remove")
	return cmd
}

// NewHistoryPurgeCommand creates .history-purge.
func NewHistoryPurgeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdHistoryPurge,
		Short: "Delete the conversation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.History.Purge(); err != nil {
				return fmt.Errorf("failed to purge history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryPurged)
			return nil
		},
	}
}

// NewRepeatCommand creates .repeat.
func NewRepeatCommand(container *app.Container, printer *helpers.Printer) *cobra.Command {
	return &cobra.Command{
		Use:   CmdRepeat,
		Short: "Repeat the last response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			last, ok, err := container.History.Last()
			if err != nil {
				return err
			}
			if !ok {
				printer.Warning(MsgNoHistoryRecorded)
				return nil
			}
			printer.Println(last.LLM)
			return nil
		},
	}
}

// NewPurgeCommand creates .purge, which deletes settings and history.
func NewPurgeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdPurge,
		Short: "Delete all history and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Settings == nil {
				return errors.New(ErrSettingsStoreUnavailable)
			}
			if container.History == nil {
				return errors.New(ErrHistoryStoreUnavailable)
			}
			if err := container.Settings.Purge(); err != nil {
				return fmt.Errorf("failed to purge settings: %w", err)
			}
			if err := container.History.Purge(); err != nil {
				return fmt.Errorf("failed to purge history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgPurged)
			return nil
		},
	}
}

// viewHistory prints the window in chronological order
func viewHistory(out io.Writer, container *app.Container, count int) error {
	if container.History == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}
	window, err := container.History.Window(count, false)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(window) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	fmt.Fprint(out, domain.FormatWindow(window))
	return nil
}

func undoHistory(printer *helpers.Printer, container *app.Container, count int) error {
	if container.History == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}
	if _, ok, err := container.History.Last(); err != nil {
		return err
	} else if !ok {
		printer.Warning(MsgNoHistoryToUndo)
		return nil
	}
	if err := container.History.Undo(count); err != nil {
		return fmt.Errorf("failed to undo history: %w", err)
	}
	printer.Println(MsgHistoryUndone)
	return nil
}
