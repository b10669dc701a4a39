package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/crosspost/internal/adapters/render/report"
	"github.com/bnema/crosspost/internal/application"
	"github.com/spf13/cobra"
)

func newSetupCmd(global *globalOptions) *cobra.Command {
	var (
		service string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the credential of every enabled account",
		Long:  "setup asks for the credential of each enabled account and saves it in the secret store. Accounts that already have one are kept unless you choose to replace them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireOrCreateConfig(cmd, global)
			if err != nil || app == nil {
				return err
			}

			cfg := app.config
			if service != "" {
				cfg.KeychainService = service
			}

			results := application.NewSetupService(app.secretStore, app.prompter, app.logger).Run(cmd.Context(), cfg)
			if asJSON {
				if results == nil {
					results = []application.SetupResult{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			rendered, err := report.RenderSetup(results)
			if err != nil {
				return fmt.Errorf("render setup: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Keychain service to store under (overrides keychain_service)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
