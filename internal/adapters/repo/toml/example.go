package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirMode   = 0o700
	configFileMode  = 0o600
	tempFilePattern = ".config-*.toml.tmp"
)

var ErrConfigExists = errors.New("config file already exists")

// ExampleConfig is written when no config file exists yet.
const ExampleConfig = `# crosspost configuration
# This file holds no secrets. Credentials live in the OS keychain (or the
# backend chosen by secret_backend) and are asked for on first use.
#
# 1. Edit the accounts below.
# 2. Run: crosspost setup
# 3. Post: crosspost "Hello from everywhere"

version = 1

# Keychain service the credentials are stored under.
# keychain_service = "crosspost"

# Where credentials are kept: auto (keyring, then file), keyring, pass or file.
# secret_backend = "auto"

[mastodon]
enabled = true

[[mastodon.accounts]]
name = "primary"
instance = "https://mastodon.social"
keychain_key = "mastodon_primary"

[[mastodon.accounts]]
name = "fosstodon"
instance = "https://fosstodon.org"
keychain_key = "mastodon_fosstodon"

# Use an app password, not your account password:
# https://bsky.app/settings/app-passwords
[bluesky]
enabled = true

[[bluesky.accounts]]
name = "main"
handle = "yourhandle.bsky.social"
keychain_key = "bluesky_main"

# The credential is a JSON bundle of consumer_key, consumer_secret,
# access_token and access_token_secret; setup asks for each field.
[twitter]
enabled = false

[[twitter.accounts]]
name = "main"
handle = "yourhandle"
keychain_key = "twitter_main"
`

// WriteExample creates path with ExampleConfig. It never overwrites an
// existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check config file: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if _, err := tempFile.WriteString(ExampleConfig); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false
	return nil
}
