package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	blueskyadapter "github.com/bnema/crosspost/internal/adapters/platform/bluesky"
	mastodonadapter "github.com/bnema/crosspost/internal/adapters/platform/mastodon"
	twitteradapter "github.com/bnema/crosspost/internal/adapters/platform/twitter"
	"github.com/bnema/crosspost/internal/adapters/prompt/terminal"
	tomlrepo "github.com/bnema/crosspost/internal/adapters/repo/toml"
	chainstore "github.com/bnema/crosspost/internal/adapters/secrets/chain"
	filestore "github.com/bnema/crosspost/internal/adapters/secrets/file"
	keyringstore "github.com/bnema/crosspost/internal/adapters/secrets/keyring"
	passstore "github.com/bnema/crosspost/internal/adapters/secrets/pass"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/logging"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/bnema/crosspost/internal/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dotEnvFiles are read from the working directory before anything else.
var dotEnvFiles = []string{"config.env", ".env"}

type globalOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
}

type app struct {
	config      domain.Config
	configPath  string
	secretStore ports.SecretStore
	prompter    ports.Prompter
	posters     []ports.Poster
	logger      *logrus.Logger
}

// wireApp loads the config file and builds every adapter the commands need.
// It returns tomlrepo.ErrConfigNotFound untouched so callers can offer to
// create the file.
func wireApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), opts)
	if err != nil {
		return nil, err
	}

	repo, err := tomlrepo.NewRepository(viper.New(), tomlrepo.Options{Path: opts.configPath})
	if err != nil {
		if errors.Is(err, tomlrepo.ErrConfigNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("wire config repository: %w", err)
	}

	return newApp(cmd, logger, repo)
}

func newApp(cmd *cobra.Command, logger *logrus.Logger, repo ports.ConfigRepository) (*app, error) {
	cfg, err := repo.Load(cmd.Context())
	if err != nil {
		return nil, err
	}

	secretStore, err := newSecretStore(cfg.SecretBackend)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"config":  repo.Path(),
		"backend": cfg.SecretBackend,
	}).Debug("config loaded")

	return &app{
		config:      cfg,
		configPath:  repo.Path(),
		secretStore: secretStore,
		prompter:    terminal.New(cmd.InOrStdin(), cmd.ErrOrStderr()),
		posters:     newPosters(http.DefaultClient),
		logger:      logger,
	}, nil
}

func newLogger(w io.Writer, opts *globalOptions) (*logrus.Logger, error) {
	level := opts.logLevel
	if level == "" {
		level = os.Getenv("CROSSPOST_LOG_LEVEL")
	}

	return logging.New(w, logging.Options{Level: level, JSON: opts.logJSON})
}

func newSecretStore(backend string) (ports.SecretStore, error) {
	dataDir, err := tomlrepo.DataDir()
	if err != nil {
		return nil, err
	}
	root := filepath.Join(dataDir, "secrets")

	switch backend {
	case "keyring":
		return keyringstore.NewStore(), nil
	case "pass":
		return passstore.NewStore(), nil
	case "file":
		return filestore.NewStore(root), nil
	default:
		return chainstore.NewKeyringFirstWithFileFallback(root)
	}
}

func newPosters(httpClient *http.Client) []ports.Poster {
	userAgent := "crosspost/" + version.Version
	clock := ports.SystemClock{}

	bluesky := blueskyadapter.NewPoster(httpClient, userAgent, clock)
	bluesky.ServiceURL = envOrDefault("CROSSPOST_BLUESKY_SERVICE_URL", blueskyadapter.DefaultServiceURL)

	twitter := twitteradapter.NewPoster(httpClient, userAgent, clock)
	twitter.APIURL = envOrDefault("CROSSPOST_TWITTER_API_URL", twitteradapter.DefaultAPIURL)

	return []ports.Poster{
		mastodonadapter.NewPoster(httpClient, userAgent),
		bluesky,
		twitter,
	}
}

// loadDotEnv exports the variables of the env files that exist. Variables
// already set in the environment win.
func loadDotEnv() error {
	var files []string
	for _, name := range dotEnvFiles {
		if _, err := os.Stat(name); err == nil {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		return nil
	}

	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
