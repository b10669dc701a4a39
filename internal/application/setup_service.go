package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/sirupsen/logrus"
)

type SetupAction string

const (
	SetupStored  SetupAction = "stored"
	SetupKept    SetupAction = "kept"
	SetupSkipped SetupAction = "skipped"
	SetupFailed  SetupAction = "failed"
)

type SetupResult struct {
	Platform    domain.Platform `json:"platform"`
	AccountName string          `json:"account"`
	Action      SetupAction     `json:"action"`
	Detail      string          `json:"detail,omitempty"`
}

// SetupService pre-populates the secret store with every account's
// credential.
type SetupService struct {
	secrets  ports.SecretStore
	prompter ports.Prompter
	logger   logrus.FieldLogger
}

func NewSetupService(secrets ports.SecretStore, prompter ports.Prompter, logger logrus.FieldLogger) *SetupService {
	if logger == nil {
		logger = discardLogger()
	}

	return &SetupService{secrets: secrets, prompter: prompter, logger: logger}
}

func (s *SetupService) Run(ctx context.Context, cfg domain.Config) []SetupResult {
	var results []SetupResult
	for _, pc := range cfg.Platforms {
		for _, account := range pc.Accounts {
			account.Platform = pc.Platform
			if !pc.Enabled {
				results = append(results, setupResult(account, SetupSkipped, "platform disabled"))
				continue
			}
			if ctx.Err() != nil {
				results = append(results, setupResult(account, SetupSkipped, ctx.Err().Error()))
				continue
			}
			results = append(results, s.setupAccount(ctx, account, account.CredentialRef(cfg.KeychainService)))
		}
	}

	return results
}

func (s *SetupService) setupAccount(ctx context.Context, account domain.Account, ref domain.CredentialRef) SetupResult {
	logger := s.logger.WithFields(logrus.Fields{"platform": account.Platform, "account": account.Name})

	_, err := s.secrets.Get(ctx, ref)
	switch {
	case err == nil:
		skip, err := s.prompter.Confirm(ctx, fmt.Sprintf("Credential already exists for '%s'. Skip?", account.Name), true)
		if err != nil {
			return setupResult(account, SetupKept, err.Error())
		}
		if skip {
			return setupResult(account, SetupKept, "")
		}
	case errors.Is(err, domain.ErrSecretNotFound):
	default:
		logger.WithError(err).Warn("could not check existing credential")
	}

	credential, err := promptCredential(ctx, s.prompter, domain.ShapeFor(account.Platform), account.Label())
	if err != nil {
		if errors.Is(err, domain.ErrUserCancelled) {
			return setupResult(account, SetupSkipped, domain.ErrUserCancelled.Error())
		}
		return setupResult(account, SetupFailed, err.Error())
	}

	encoded, err := credential.Encode()
	if err != nil {
		return setupResult(account, SetupFailed, err.Error())
	}
	if err := s.secrets.Put(ctx, ref, encoded); err != nil {
		return setupResult(account, SetupFailed, fmt.Sprintf("save credential: %v", err))
	}

	logger.Info("credential stored")
	return setupResult(account, SetupStored, ref.String())
}

// Forget removes the stored credential of one account.
func (s *SetupService) Forget(ctx context.Context, ref domain.CredentialRef) error {
	if err := s.secrets.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete credential %s: %w", ref, err)
	}

	return nil
}

func setupResult(account domain.Account, action SetupAction, detail string) SetupResult {
	return SetupResult{Platform: account.Platform, AccountName: account.Name, Action: action, Detail: detail}
}
