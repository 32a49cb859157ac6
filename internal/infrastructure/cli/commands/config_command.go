package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/sllm/internal/app"
	"github.com/doeshing/sllm/internal/domain"
	configinfra "github.com/doeshing/sllm/internal/infrastructure/config"
	"github.com/doeshing/sllm/internal/infrastructure/models"
)

// NewConfigCommand creates the .config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   CmdConfig,
		Short: "Inspect the sllm configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show full configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				if container.ConfigLoader == nil {
					return errors.New(ErrConfigLoaderUnavailable)
				}
				fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate configuration file",
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := loadConfiguration(cmd.Context(), container); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show diff versus default configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "use <model>",
			Short: "Set the default model",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setDefaultModel(cmd.Context(), cmd.OutOrStdout(), container, args[0])
			},
		},
		newConfigAddModelCommand(container),
	)

	return configCmd
}

// newConfigAddModelCommand creates the '.config add-model' subcommand
func newConfigAddModelCommand(container *app.Container) *cobra.Command {
	var (
		model domain.ModelDescriptor
		api   string
		alias string
	)

	cmd := &cobra.Command{
		Use:   "add-model",
		Short: "Add a model descriptor to the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(model.Model) == "" {
				return errors.New(ErrNameRequired)
			}
			model.API = domain.APIFamily(api)
			return addModel(cmd.Context(), cmd.OutOrStdout(), container, model, alias)
		},
	}

	cmd.Flags().StringVar(&model.Model, "name", "", "model name at the vendor")
	cmd.Flags().StringVar(&api, "api", string(domain.APIChat), "api family (gpt|davinci)")
	cmd.Flags().IntVar(&model.MaxTokens, "max-tokens", 4096, "context window of the model")
	cmd.Flags().BoolVar(&model.Beta, "beta", false, "mark the model as requiring special access")
	cmd.Flags().StringVar(&alias, "alias", "", "optional short alias")
	return cmd
}

func loadConfiguration(ctx context.Context, container *app.Container) (domain.Config, error) {
	if container.ConfigLoader == nil {
		return domain.Config{}, errors.New(ErrConfigLoaderUnavailable)
	}
	return container.ConfigLoader.Load(ctx)
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := loadConfiguration(ctx, container)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, container *app.Container) error {
	currentConfig, err := loadConfiguration(ctx, container)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}
	diff := cmp.Diff(defaultConfig, currentConfig)

	if diff == "" {
		fmt.Fprintln(out, MsgNoConfigDifferences)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// setDefaultModel sets preferences.default_model after checking it resolves
func setDefaultModel(ctx context.Context, out io.Writer, container *app.Container, name string) error {
	cfg, err := loadConfiguration(ctx, container)
	if err != nil {
		return err
	}
	registry, err := models.FromConfig(cfg)
	if err != nil {
		return err
	}
	if _, err := registry.Describe(name); err != nil {
		return err
	}
	cfg.Preferences.DefaultModel = name
	if err := container.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(out, "Default model set to %s\n", name)
	return nil
}

// addModel appends a descriptor, and optionally an alias, to the config
func addModel(ctx context.Context, out io.Writer, container *app.Container, model domain.ModelDescriptor, alias string) error {
	cfg, err := loadConfiguration(ctx, container)
	if err != nil {
		return err
	}
	for _, existing := range cfg.Models {
		if existing.Model == model.Model {
			return fmt.Errorf("model %s already configured", model.Model)
		}
	}
	cfg.Models = append(cfg.Models, model)
	if alias != "" {
		if cfg.Aliases == nil {
			cfg.Aliases = map[string]string{}
		}
		cfg.Aliases[alias] = model.Model
	}
	if _, err := models.FromConfig(cfg); err != nil {
		return err
	}
	if err := container.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(out, "Added model %s\n", model.Model)
	return nil
}
