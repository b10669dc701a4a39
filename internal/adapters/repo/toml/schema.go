package toml

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/crosspost/internal/domain"
)

const currentSchemaVersion = 1

var secretBackends = []string{"auto", "keyring", "pass", "file"}

type fileSchema struct {
	Version         int             `toml:"version"`
	KeychainService string          `toml:"keychain_service"`
	SecretBackend   string          `toml:"secret_backend"`
	Mastodon        *platformSchema `toml:"mastodon"`
	Bluesky         *platformSchema `toml:"bluesky"`
	Twitter         *platformSchema `toml:"twitter"`
}

type platformSchema struct {
	Enabled  bool            `toml:"enabled"`
	Accounts []accountSchema `toml:"accounts"`
}

type accountSchema struct {
	Name        string `toml:"name"`
	KeychainKey string `toml:"keychain_key"`
	Instance    string `toml:"instance"`
	Handle      string `toml:"handle"`
	ServiceURL  string `toml:"service_url"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if strings.TrimSpace(s.KeychainService) == "" {
		s.KeychainService = domain.DefaultKeychainService
	}
	if strings.TrimSpace(s.SecretBackend) == "" {
		s.SecretBackend = "auto"
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type platformGroup struct {
	platform domain.Platform
	schema   *platformSchema
}

// groups lists the platform tables in posting order.
func (s fileSchema) groups() []platformGroup {
	return []platformGroup{
		{domain.PlatformMastodon, s.Mastodon},
		{domain.PlatformBluesky, s.Bluesky},
		{domain.PlatformTwitter, s.Twitter},
	}
}

// validate reports every problem in the file at once.
func (s fileSchema) validate() error {
	var errs []error
	if !isOneOf(s.SecretBackend, secretBackends) {
		errs = append(errs, fmt.Errorf("secret_backend %q must be one of %s", s.SecretBackend, strings.Join(secretBackends, ", ")))
	}

	for _, group := range s.groups() {
		if group.schema == nil {
			continue
		}
		seen := map[string]struct{}{}
		for i, account := range group.schema.Accounts {
			where := fmt.Sprintf("%s.accounts[%d]", group.platform, i)
			if account.Name != "" {
				where = fmt.Sprintf("%s account %q", group.platform, account.Name)
				if _, dup := seen[account.Name]; dup {
					errs = append(errs, fmt.Errorf("%s is defined twice", where))
				}
				seen[account.Name] = struct{}{}
			} else {
				errs = append(errs, fmt.Errorf("%s: name is required", where))
			}
			if strings.TrimSpace(account.KeychainKey) == "" {
				errs = append(errs, fmt.Errorf("%s: keychain_key is required", where))
			}
			errs = append(errs, validateIdentifier(group.platform, where, account))
		}
	}

	return errors.Join(errs...)
}

func validateIdentifier(platform domain.Platform, where string, account accountSchema) error {
	switch platform {
	case domain.PlatformMastodon:
		if account.Instance == "" {
			return fmt.Errorf("%s: instance is required", where)
		}
		return validateHTTPURL(where, "instance", account.Instance)
	case domain.PlatformBluesky:
		if account.Handle == "" {
			return fmt.Errorf("%s: handle is required", where)
		}
		if account.ServiceURL != "" {
			return validateHTTPURL(where, "service_url", account.ServiceURL)
		}
	case domain.PlatformTwitter:
		if account.Handle == "" {
			return fmt.Errorf("%s: handle is required", where)
		}
	}

	return nil
}

func validateHTTPURL(where, field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s: %s %q must be an http(s) URL", where, field, raw)
	}

	return nil
}

func (s fileSchema) toDomain() domain.Config {
	cfg := domain.Config{
		KeychainService: s.KeychainService,
		SecretBackend:   s.SecretBackend,
	}

	for _, group := range s.groups() {
		if group.schema == nil {
			continue
		}
		pc := domain.PlatformConfig{Platform: group.platform, Enabled: group.schema.Enabled}
		for _, account := range group.schema.Accounts {
			pc.Accounts = append(pc.Accounts, fromSchema(group.platform, account))
		}
		cfg.Platforms = append(cfg.Platforms, pc)
	}

	return cfg
}

func fromSchema(platform domain.Platform, account accountSchema) domain.Account {
	identifier := account.Handle
	if platform == domain.PlatformMastodon {
		identifier = strings.TrimRight(account.Instance, "/")
	}

	return domain.Account{
		Platform:    platform,
		Name:        account.Name,
		Identifier:  identifier,
		KeychainKey: account.KeychainKey,
		ServiceURL:  account.ServiceURL,
	}
}

func isOneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
