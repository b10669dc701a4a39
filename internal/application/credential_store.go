package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/sirupsen/logrus"
)

type CredentialRequest struct {
	Ref   domain.CredentialRef
	Shape domain.CredentialShape
	// Label names the account in prompts, e.g. "Bluesky account 'main'".
	Label string
}

// CredentialStore resolves credentials from the secret store, prompting for
// and persisting missing ones. One instance serves one run.
type CredentialStore struct {
	secrets  ports.SecretStore
	prompter ports.Prompter
	cache    *CredentialCache
	logger   logrus.FieldLogger
	promptMu sync.Mutex
}

func NewCredentialStore(secrets ports.SecretStore, prompter ports.Prompter, logger logrus.FieldLogger) *CredentialStore {
	if logger == nil {
		logger = discardLogger()
	}

	return &CredentialStore{
		secrets:  secrets,
		prompter: prompter,
		cache:    NewCredentialCache(),
		logger:   logger,
	}
}

func (s *CredentialStore) Cache() *CredentialCache { return s.cache }

func (s *CredentialStore) Resolve(ctx context.Context, req CredentialRequest) (domain.Credential, error) {
	if entry, ok := s.cache.lookup(req.Ref); ok {
		return entry.credential, entry.err
	}

	value, err, _ := s.cache.flight.Do(flightKey(req.Ref), func() (any, error) {
		if entry, ok := s.cache.lookup(req.Ref); ok {
			return entry.credential, entry.err
		}

		credential, err := s.resolveUncached(ctx, req)
		if !isContextError(err) {
			s.cache.store(req.Ref, cacheEntry{credential: credential, err: err})
		}
		return credential, err
	})

	credential, _ := value.(domain.Credential)
	return credential, err
}

func (s *CredentialStore) resolveUncached(ctx context.Context, req CredentialRequest) (domain.Credential, error) {
	logger := s.logger.WithField("secret", req.Ref.String())

	raw, storeErr := s.secrets.Get(ctx, req.Ref)
	switch {
	case storeErr == nil:
		logger.Debug("credential found in secret store")
		return domain.ParseCredential(req.Shape, raw)
	case errors.Is(storeErr, domain.ErrSecretNotFound):
		logger.Debug("credential not in secret store")
		storeErr = nil
	case isContextError(storeErr):
		return domain.Credential{}, storeErr
	default:
		logger.WithError(storeErr).Warn("secret store unavailable")
	}

	credential, err := s.prompt(ctx, req)
	if err != nil {
		cancelled := errors.Is(err, domain.ErrUserCancelled)
		unavailable := errors.Is(err, domain.ErrPromptUnavailable)
		switch {
		case storeErr != nil && (cancelled || unavailable):
			return domain.Credential{}, fmt.Errorf("%w: secret store: %v; prompt: %v", domain.ErrCredentialUnavailable, storeErr, err)
		case unavailable:
			return domain.Credential{}, fmt.Errorf("%w: %s is not stored and no terminal is available to ask for it", domain.ErrCredentialUnavailable, req.Ref)
		default:
			return domain.Credential{}, err
		}
	}

	encoded, err := credential.Encode()
	if err != nil {
		return domain.Credential{}, err
	}
	if err := s.secrets.Put(ctx, req.Ref, encoded); err != nil {
		logger.WithError(err).Warn("could not save credential, using it for this run only")
	} else {
		logger.Info("credential saved to secret store")
	}

	return credential, nil
}

func (s *CredentialStore) prompt(ctx context.Context, req CredentialRequest) (domain.Credential, error) {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	return promptCredential(ctx, s.prompter, req.Shape, req.Label)
}

func promptCredential(ctx context.Context, prompter ports.Prompter, shape domain.CredentialShape, label string) (domain.Credential, error) {
	if prompter == nil {
		return domain.Credential{}, domain.ErrPromptUnavailable
	}

	fields := shape.Fields()
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		value, err := prompter.PromptHidden(ctx, fmt.Sprintf("Enter %s for %s (Ctrl+C to skip): ", field, label))
		if err != nil {
			return domain.Credential{}, err
		}
		values = append(values, value)
	}

	return domain.NewCredential(shape, values)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
