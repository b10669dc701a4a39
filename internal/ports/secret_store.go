package ports

import (
	"context"

	"github.com/bnema/crosspost/internal/domain"
)

// SecretStore is a raw string key-value store keyed by (service, key).
// Get returns domain.ErrSecretNotFound when the entry does not exist.
type SecretStore interface {
	Get(ctx context.Context, ref domain.CredentialRef) (string, error)
	Put(ctx context.Context, ref domain.CredentialRef, value string) error
	Delete(ctx context.Context, ref domain.CredentialRef) error
}
