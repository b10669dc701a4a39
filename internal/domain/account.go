package domain

import "fmt"

// DefaultKeychainService is the secret-store service used when neither the
// config file nor the command line names one.
const DefaultKeychainService = "crosspost"

type Account struct {
	Platform Platform
	Name     string
	// Identifier is the Mastodon instance URL, the Bluesky handle or the
	// Twitter handle.
	Identifier  string
	KeychainKey string
	// ServiceURL optionally overrides the Bluesky PDS host.
	ServiceURL string
}

type PlatformConfig struct {
	Platform Platform
	Enabled  bool
	Accounts []Account
}

// EnabledAccounts flattens the enabled platform groups in declared order.
func EnabledAccounts(configs []PlatformConfig) []Account {
	var accounts []Account
	for _, pc := range configs {
		if !pc.Enabled {
			continue
		}
		for _, account := range pc.Accounts {
			account.Platform = pc.Platform
			accounts = append(accounts, account)
		}
	}

	return accounts
}

func (a Account) Label() string {
	return fmt.Sprintf("%s account '%s'", a.Platform.DisplayName(), a.Name)
}

// CredentialRef locates the account's secret under the given service.
func (a Account) CredentialRef(service string) CredentialRef {
	if service == "" {
		service = DefaultKeychainService
	}

	return CredentialRef{Service: service, Key: a.KeychainKey}
}
