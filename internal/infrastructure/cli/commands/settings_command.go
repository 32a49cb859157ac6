package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/infrastructure/settings"
)

// NewSettingsCommand creates .settings, which replaces the persisted
// settings with the flags given.
func NewSettingsCommand(container *app.Container) *cobra.Command {
	flags := &PromptFlags{}
	cmd := &cobra.Command{
		Use:   CmdSettings,
		Short: "Persist default options for every prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveSettings(cmd.OutOrStdout(), container, flags.Explicit(cmd))
		},
	}
	flags.Register(cmd)
	return cmd
}

// NewSettingsViewCommand creates .settings-view.
func NewSettingsViewCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdSettingsView,
		Short: "View the persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewSettings(cmd.OutOrStdout(), container)
		},
	}
}

// NewSettingsDiffCommand creates .settings-diff.
func NewSettingsDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdSettingsDiff,
		Short: "Show how the persisted settings differ from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return diffSettings(cmd.OutOrStdout(), container)
		},
	}
}

// NewSettingsPurgeCommand creates .settings-purge.
func NewSettingsPurgeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   CmdSettingsPurge,
		Short: "Delete the persisted settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Settings == nil {
				return errors.New(ErrSettingsStoreUnavailable)
			}
			if err := container.Settings.Purge(); err != nil {
				return fmt.Errorf("failed to purge settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgSettingsPurged)
			return nil
		},
	}
}

// saveSettings overwrites the record and echoes what was stored
func saveSettings(out io.Writer, container *app.Container, opts domain.Options) error {
	if container.Settings == nil {
		return errors.New(ErrSettingsStoreUnavailable)
	}
	if opts.Model != nil {
		if _, err := container.Models.Describe(*opts.Model); err != nil {
			return err
		}
	}
	if err := container.Settings.Save(opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	raw, err := settings.Encode(opts)
	if err != nil {
		return err
	}
	fmt.Fprint(out, string(raw))
	fmt.Fprintln(out, MsgSettingsSaved)
	return nil
}

func viewSettings(out io.Writer, container *app.Container) error {
	if container.Settings == nil {
		return errors.New(ErrSettingsStoreUnavailable)
	}
	raw, err := container.Settings.Raw()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	fmt.Fprintln(out, string(raw))
	fmt.Fprintln(out, MsgSettingsHint)
	return nil
}

// diffSettings compares the effective options against the built-in defaults
func diffSettings(out io.Writer, container *app.Container) error {
	if container.Settings == nil {
		return errors.New(ErrSettingsStoreUnavailable)
	}
	persisted, err := container.Settings.Load()
	if err != nil {
		return err
	}
	defaultModel := container.Config.GetDefaultModel()
	diff := cmp.Diff(domain.Options{}.Normalize(defaultModel), persisted.Normalize(defaultModel))
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, diff)
	return nil
}
