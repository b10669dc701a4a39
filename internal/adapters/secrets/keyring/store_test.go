package keyring

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

type blockingKeyring struct {
	release chan struct{}
}

func (b blockingKeyring) Get(string, string) (string, error) {
	<-b.release
	return "late", nil
}

func (b blockingKeyring) Set(string, string, string) error {
	return errors.New("not implemented")
}

func (b blockingKeyring) Delete(string, string) error {
	return errors.New("not implemented")
}

func TestStoreRoundTripWithMockKeyring(t *testing.T) {
	gokeyring.MockInit()

	store := NewStore()
	ref := domain.CredentialRef{Service: "crosspost-test", Key: "bluesky_main"}

	_, err := store.Get(context.Background(), ref)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)

	require.NoError(t, store.Put(context.Background(), ref, "app-password"))

	value, err := store.Get(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "app-password", value)

	require.NoError(t, store.Delete(context.Background(), ref))
	err = store.Delete(context.Background(), ref)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreWrapsBackendFailure(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no secret service provider"))

	store := NewStore()
	_, err := store.Get(context.Background(), domain.CredentialRef{Service: "crosspost-test", Key: "k"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "keyring get crosspost-test/k")
	assert.ErrorContains(t, err, "no secret service provider")
}

func TestStoreGetReturnsWhenContextIsCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	store := &Store{keyring: blockingKeyring{release: release}}

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	_, err := store.Get(ctx, domain.CredentialRef{Service: "crosspost", Key: "k"})
	require.ErrorIs(t, err, context.Canceled)
}
