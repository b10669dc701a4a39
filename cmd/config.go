package cmd

import (
	"errors"
	"fmt"

	tomlrepo "github.com/bnema/crosspost/internal/adapters/repo/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConfigCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Locate or create the config file",
	}

	cmd.AddCommand(
		newConfigPathCmd(global),
		newConfigInitCmd(global),
	)

	return cmd
}

func newConfigPathCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := tomlrepo.NewRepository(viper.New(), tomlrepo.Options{Path: global.configPath})
			if err == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), repo.Path())
				return err
			}
			if !errors.Is(err, tomlrepo.ErrConfigNotFound) || global.configPath != "" {
				return err
			}

			path, err := tomlrepo.DefaultPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (not created yet, run: crosspost config init)\n", path)
			return err
		},
	}
}

func newConfigInitCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := global.configPath
			if path == "" {
				defaultPath, err := tomlrepo.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			if err := tomlrepo.WriteExample(path); err != nil {
				return fmt.Errorf("create example config at %s: %w", path, err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created example config at %s\n", path)
			return err
		},
	}
}
