package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	gokeyring "github.com/zalando/go-keyring"
)

// backend is the subset of the OS keychain the store needs. service is the
// keychain service name and user the entry's account field.
type backend interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) {
	return gokeyring.Get(service, user)
}

func (osKeyring) Set(service, user, password string) error {
	return gokeyring.Set(service, user, password)
}

func (osKeyring) Delete(service, user string) error {
	return gokeyring.Delete(service, user)
}

// Store reads and writes the OS keychain (macOS Keychain, Secret Service,
// Windows Credential Manager).
type Store struct {
	keyring backend
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{keyring: osKeyring{}}
}

func (s *Store) Get(ctx context.Context, ref domain.CredentialRef) (string, error) {
	var value string
	err := s.call(ctx, func() error {
		var err error
		value, err = s.keyring.Get(ref.Service, ref.Key)
		return err
	})
	if err != nil {
		return "", wrapError("get", ref, err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, ref domain.CredentialRef, value string) error {
	err := s.call(ctx, func() error {
		return s.keyring.Set(ref.Service, ref.Key, value)
	})
	if err != nil {
		return wrapError("put", ref, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, ref domain.CredentialRef) error {
	err := s.call(ctx, func() error {
		return s.keyring.Delete(ref.Service, ref.Key)
	})
	if err != nil {
		return wrapError("delete", ref, err)
	}

	return nil
}

// call runs fn off the caller's goroutine: keychain daemons can block on an
// unlock dialog and the keyring API takes no context.
func (s *Store) call(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func wrapError(op string, ref domain.CredentialRef, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gokeyring.ErrNotFound):
		return fmt.Errorf("keyring %s %s: %w", op, ref, domain.ErrSecretNotFound)
	default:
		return fmt.Errorf("keyring %s %s: %w", op, ref, err)
	}
}
