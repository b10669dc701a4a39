package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/crosspost/internal/adapters/secrets/file"
	keyringstore "github.com/bnema/crosspost/internal/adapters/secrets/keyring"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
)

// Store reads from primary and falls back to fallback when primary misses or
// is unavailable. Writes land in the first backend that accepts them.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewKeyringFirstWithFileFallback is the "auto" backend.
func NewKeyringFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStoreChecked(keyringstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, ref domain.CredentialRef, value string) error {
	err := s.primary.Put(ctx, ref, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, ref, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, ref domain.CredentialRef) (string, error) {
	value, err := s.primary.Get(ctx, ref)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, ref)
	switch {
	case fallbackErr == nil:
		return fallbackValue, nil
	case errors.Is(err, domain.ErrSecretNotFound) && errors.Is(fallbackErr, domain.ErrSecretNotFound):
		return "", fallbackErr
	case errors.Is(fallbackErr, domain.ErrSecretNotFound):
		// The fallback answered authoritatively; a broken primary only means
		// the secret was never written there.
		return "", fmt.Errorf("%w (primary backend: %v)", fallbackErr, err)
	default:
		return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
	}
}

// Delete removes the secret from both backends. It reports not found only
// when neither held it.
func (s *Store) Delete(ctx context.Context, ref domain.CredentialRef) error {
	err := s.primary.Delete(ctx, ref)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, ref)
	switch {
	case err == nil && (fallbackErr == nil || errors.Is(fallbackErr, domain.ErrSecretNotFound)):
		return nil
	case fallbackErr == nil && errors.Is(err, domain.ErrSecretNotFound):
		return nil
	case errors.Is(err, domain.ErrSecretNotFound) && errors.Is(fallbackErr, domain.ErrSecretNotFound):
		return fallbackErr
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
