package cmd

import (
	"fmt"

	"github.com/bnema/crosspost/internal/adapters/render/report"
	"github.com/spf13/cobra"
)

func newAccountsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect configured accounts",
	}

	cmd.AddCommand(
		newAccountsListCmd(global),
	)

	return cmd
}

func newAccountsListCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured platforms and accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireOrCreateConfig(cmd, global)
			if err != nil || app == nil {
				return err
			}

			rendered, err := report.RenderAccounts(app.config, report.AccountsOptions{ConfigPath: app.configPath})
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
