package cmd

import (
	"fmt"

	"github.com/bnema/crosspost/internal/application"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/spf13/cobra"
)

func newCredentialsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored credentials",
	}

	cmd.AddCommand(
		newCredentialsRemoveCmd(global),
	)

	return cmd
}

func newCredentialsRemoveCmd(global *globalOptions) *cobra.Command {
	var (
		platformName string
		accountName  string
		service      string
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the stored credential of one account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			platform, err := domain.ParsePlatform(platformName)
			if err != nil {
				return err
			}

			app, err := wireApp(cmd, global)
			if err != nil {
				return err
			}

			account, err := findAccount(app.config, platform, accountName)
			if err != nil {
				return err
			}

			if service == "" {
				service = app.config.KeychainService
			}
			setup := application.NewSetupService(app.secretStore, app.prompter, app.logger)
			if err := setup.Forget(cmd.Context(), account.CredentialRef(service)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed credential for %s (%s)\n", platform.DisplayName(), account.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Platform of the account (mastodon, bluesky, twitter)")
	cmd.Flags().StringVar(&accountName, "account", "", "Account name as written in the config file")
	cmd.Flags().StringVar(&service, "service", "", "Keychain service (overrides keychain_service)")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func findAccount(cfg domain.Config, platform domain.Platform, name string) (domain.Account, error) {
	pc, ok := cfg.Platform(platform)
	if ok {
		for _, account := range pc.Accounts {
			if account.Name == name {
				account.Platform = platform
				return account, nil
			}
		}
	}

	return domain.Account{}, fmt.Errorf("no %s account named %q in config", platform.DisplayName(), name)
}
