package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/crosspost/internal/adapters/render/report"
	tomlrepo "github.com/bnema/crosspost/internal/adapters/repo/toml"
	"github.com/bnema/crosspost/internal/application"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/spf13/cobra"
)

var (
	errPostFailed = errors.New("one or more posts failed")
	errEmptyText  = errors.New("post text is empty")
)

type postOptions struct {
	asJSON      bool
	concurrency int
	service     string
	platforms   []string
}

func bindPostFlags(cmd *cobra.Command, opts *postOptions) {
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Render JSON output")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1, "Number of accounts posted at the same time")
	cmd.Flags().StringVar(&opts.service, "service", "", "Keychain service for this run (overrides keychain_service)")
	cmd.Flags().StringSliceVar(&opts.platforms, "platform", nil, "Only post to these platforms (mastodon, bluesky, twitter)")
}

func newPostCmd(global *globalOptions) *cobra.Command {
	opts := &postOptions{}

	cmd := &cobra.Command{
		Use:   "post <text>",
		Short: "Post text to every enabled account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPost(cmd, global, opts, args[0])
		},
	}
	bindPostFlags(cmd, opts)

	return cmd
}

func runPost(cmd *cobra.Command, global *globalOptions, opts *postOptions, text string) error {
	if strings.TrimSpace(text) == "" {
		return errEmptyText
	}

	platforms, err := parsePlatforms(opts.platforms)
	if err != nil {
		return err
	}

	app, err := wireOrCreateConfig(cmd, global)
	if err != nil || app == nil {
		return err
	}

	configs := app.config.OnlyPlatforms(platforms).Platforms
	credentials := application.NewCredentialStore(app.secretStore, app.prompter, app.logger)
	defer func() {
		app.logger.WithField("cached", credentials.Cache().Len()).Debug("dropping resolved credentials")
		credentials.Cache().Clear()
	}()

	orchestrator := application.NewOrchestrator(
		credentials,
		app.posters,
		application.WithKeychainService(app.config.KeychainService),
		application.WithKeychainService(opts.service),
		application.WithConcurrency(opts.concurrency),
		application.WithLogger(app.logger),
	)

	ctx := cmd.Context()
	// Every prompt happens here, before the progress view owns stderr.
	orchestrator.Prepare(ctx, configs)

	var results []domain.PostResult
	if opts.asJSON {
		results = orchestrator.Run(ctx, configs, text)
	} else {
		total := len(domain.EnabledAccounts(configs))
		err := report.ShowProgress(cmd.ErrOrStderr(), total, func(progress func(domain.PostResult)) {
			results = orchestrator.RunWithProgress(ctx, configs, text, progress)
		})
		if err != nil {
			return err
		}
	}

	if err := writeResults(cmd, results, opts.asJSON); err != nil {
		return err
	}
	if application.Failed(results) {
		return errPostFailed
	}

	return nil
}

func writeResults(cmd *cobra.Command, results []domain.PostResult, asJSON bool) error {
	if asJSON {
		if results == nil {
			results = []domain.PostResult{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	rendered, err := report.RenderResults(results)
	if err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func parsePlatforms(raw []string) ([]domain.Platform, error) {
	platforms := make([]domain.Platform, 0, len(raw))
	for _, value := range raw {
		platform, err := domain.ParsePlatform(value)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, platform)
	}

	return platforms, nil
}

// wireOrCreateConfig returns a nil app and no error when no config file was
// found and an example one has just been written.
func wireOrCreateConfig(cmd *cobra.Command, global *globalOptions) (*app, error) {
	app, err := wireApp(cmd, global)
	if errors.Is(err, tomlrepo.ErrConfigNotFound) && global.configPath == "" {
		return nil, createExampleConfig(cmd)
	}

	return app, err
}

func createExampleConfig(cmd *cobra.Command) error {
	path, err := tomlrepo.DefaultPath()
	if err != nil {
		return err
	}
	if err := tomlrepo.WriteExample(path); err != nil {
		return fmt.Errorf("create example config at %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Created example config at %s\n", path)
	_, _ = fmt.Fprintln(out, "Edit it with your account details, then run: crosspost setup")
	return nil
}
