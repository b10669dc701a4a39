package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName         = "config"
	configType         = "toml"
	configDirName      = "crosspost"
	envPrefix          = "CROSSPOST"
	keychainServiceKey = "keychain_service"
	secretBackendKey   = "secret_backend"
)

var ErrConfigNotFound = errors.New("config file not found")

// Repository reads the account definitions. The file is looked up in the
// working directory first and the XDG config directory second. It is read
// through viper so CROSSPOST_* variables override its top-level keys.
type Repository struct {
	cfg  *viper.Viper
	path string
}

var _ ports.ConfigRepository = (*Repository)(nil)

type Options struct {
	// Path, when set, is the only file considered.
	Path string
	// SearchDirs defaults to DefaultSearchDirs.
	SearchDirs []string
}

func NewRepository(cfg *viper.Viper, opts Options) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()

	path := opts.Path
	if path == "" {
		found, err := findConfig(opts.SearchDirs)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg.SetConfigFile(path)
	cfg.SetConfigType(configType)
	if err := cfg.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	path, err := filepath.Abs(cfg.ConfigFileUsed())
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	return &Repository{cfg: cfg, path: path}, nil
}

func (r *Repository) Path() string { return r.path }

func (r *Repository) Load(ctx context.Context) (domain.Config, error) {
	if err := ctx.Err(); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Config{}, fmt.Errorf("decode config file %s: %w", r.path, err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Config{}, err
	}

	file.KeychainService = r.cfg.GetString(keychainServiceKey)
	file.SecretBackend = r.cfg.GetString(secretBackendKey)
	file.applyDefaults()

	if err := file.validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", r.path, err)
	}

	return file.toDomain(), nil
}

// findConfig returns the first config.toml in dirs. Only the exact name is
// accepted so that an unrelated config.json in the working directory is never
// picked up.
func findConfig(dirs []string) (string, error) {
	if len(dirs) == 0 {
		defaults, err := DefaultSearchDirs()
		if err != nil {
			return "", err
		}
		dirs = defaults
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, configName+"."+configType)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("check config file %s: %w", candidate, err)
		}
	}

	return "", ErrConfigNotFound
}

// DefaultSearchDirs is the working directory followed by the XDG config
// directory.
func DefaultSearchDirs() ([]string, error) {
	configHome, err := configHome()
	if err != nil {
		return nil, err
	}

	return []string{".", filepath.Join(configHome, configDirName)}, nil
}

// DefaultPath is where a new config file is created.
func DefaultPath() (string, error) {
	configHome, err := configHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(configHome, configDirName, configName+"."+configType), nil
}

// DataDir holds the file secret backend.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, configDirName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", configDirName), nil
}

func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config"), nil
}
