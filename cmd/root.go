package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI. Cancelling ctx stops posts that have not
// finished yet; they are reported as cancelled.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	post := &postOptions{}

	rootCmd := &cobra.Command{
		Use:   "crosspost [text]",
		Short: "Crosspost: publish one text to Mastodon, Bluesky and Twitter",
		Long: "crosspost publishes the same text to every enabled account in your config file. " +
			"Credentials live in the OS keychain (or pass, or a private file) and are asked for once when missing.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runPost(cmd, opts, post, args[0])
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: ./config.toml, then $XDG_CONFIG_HOME/crosspost/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn, env CROSSPOST_LOG_LEVEL)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	bindPostFlags(rootCmd, post)

	rootCmd.AddCommand(
		newVersionCmd(),
		newPostCmd(opts),
		newSetupCmd(opts),
		newCredentialsCmd(opts),
		newAccountsCmd(opts),
		newFacetsCmd(),
		newConfigCmd(opts),
	)

	return rootCmd
}
