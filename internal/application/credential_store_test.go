package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var mastodonRef = domain.CredentialRef{Service: "crosspost", Key: "mastodon_primary"}

func simpleRequest(ref domain.CredentialRef) CredentialRequest {
	return CredentialRequest{Ref: ref, Shape: domain.ShapeSimple, Label: "Mastodon account 'primary'"}
}

func TestCredentialStoreResolveCachesStoreHit(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("token-1", nil).Once()

	first, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)
	second, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)

	secret, ok := second.Simple()
	require.True(t, ok)
	assert.Equal(t, "token-1", secret)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Cache().Len())
}

func TestCredentialStoreResolvePromptsOnceAndPersists(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", domain.ErrSecretNotFound).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.MatchedBy(func(label string) bool {
		return strings.Contains(label, "token") && strings.Contains(label, "'primary'")
	})).Return("typed-token", nil).Once()
	secrets.EXPECT().Put(mockAnyContext(), mastodonRef, "typed-token").Return(nil).Once()

	for i := 0; i < 3; i++ {
		credential, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
		require.NoError(t, err)
		secret, _ := credential.Simple()
		assert.Equal(t, "typed-token", secret)
	}
}

func TestCredentialStoreResolvePromptsEveryOAuth1FieldInOrder(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)
	ref := domain.CredentialRef{Service: "crosspost", Key: "twitter_main"}

	secrets.EXPECT().Get(mockAnyContext(), ref).Return("", domain.ErrSecretNotFound).Once()
	var labels []string
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).RunAndReturn(func(_ context.Context, label string) (string, error) {
		labels = append(labels, label)
		return "v" + string(rune('0'+len(labels))), nil
	}).Times(4)
	secrets.EXPECT().Put(mockAnyContext(), ref,
		`{"consumer_key":"v1","consumer_secret":"v2","access_token":"v3","access_token_secret":"v4"}`).Return(nil).Once()

	credential, err := store.Resolve(context.Background(), CredentialRequest{Ref: ref, Shape: domain.ShapeOAuth1, Label: "Twitter account 'main'"})
	require.NoError(t, err)

	bundle, ok := credential.OAuth1()
	require.True(t, ok)
	assert.Equal(t, "v4", bundle.AccessTokenSecret)
	require.Len(t, labels, 4)
	assert.Contains(t, labels[0], "consumer key")
	assert.Contains(t, labels[3], "access token secret")
}

func TestCredentialStoreResolveMalformedOAuth1IsNotTreatedAsMissing(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)
	ref := domain.CredentialRef{Service: "crosspost", Key: "twitter_main"}

	secrets.EXPECT().Get(mockAnyContext(), ref).Return(`{"consumer_key":"ck"}`, nil).Once()

	req := CredentialRequest{Ref: ref, Shape: domain.ShapeOAuth1, Label: "Twitter account 'main'"}
	_, err := store.Resolve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrMalformedCredential)

	_, err = store.Resolve(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrMalformedCredential)
}

func TestCredentialStoreResolveCancelledPromptSkipsWithoutWrite(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", domain.ErrSecretNotFound).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).Return("", domain.ErrUserCancelled).Once()

	_, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.ErrorIs(t, err, domain.ErrUserCancelled)
	assert.NotErrorIs(t, err, domain.ErrCredentialUnavailable)

	_, err = store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.ErrorIs(t, err, domain.ErrUserCancelled)
}

func TestCredentialStoreResolveUnavailableWhenStoreDownAndPromptCancelled(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", errors.New("dbus: no session bus")).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).Return("", domain.ErrUserCancelled).Once()

	_, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.ErrorIs(t, err, domain.ErrCredentialUnavailable)
	assert.ErrorContains(t, err, "no session bus")
}

func TestCredentialStoreResolveStoreDownButPromptSucceeds(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", errors.New("keychain locked")).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).Return("typed", nil).Once()
	secrets.EXPECT().Put(mockAnyContext(), mastodonRef, "typed").Return(errors.New("keychain locked")).Once()

	credential, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)
	secret, _ := credential.Simple()
	assert.Equal(t, "typed", secret)
}

func TestCredentialStoreResolveUnavailableWithoutTerminal(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", domain.ErrSecretNotFound).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).Return("", domain.ErrPromptUnavailable).Once()

	_, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.ErrorIs(t, err, domain.ErrCredentialUnavailable)
}

func TestCredentialStoreResolveDoesNotCacheContextErrors(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	store := NewCredentialStore(secrets, nil, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", context.Canceled).Once()
	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("token", nil).Once()

	_, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.ErrorIs(t, err, context.Canceled)

	credential, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)
	secret, _ := credential.Simple()
	assert.Equal(t, "token", secret)
}

func TestCredentialStoreResolveConcurrentCallersShareOneLookup(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	prompter := mocks.NewMockPrompter(t)
	store := NewCredentialStore(secrets, prompter, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("", domain.ErrSecretNotFound).Once()
	prompter.EXPECT().PromptHidden(mockAnyContext(), mock.Anything).RunAndReturn(func(context.Context, string) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "shared", nil
	}).Once()
	secrets.EXPECT().Put(mockAnyContext(), mastodonRef, "shared").Return(nil).Once()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			credential, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
			assert.NoError(t, err)
			secret, _ := credential.Simple()
			assert.Equal(t, "shared", secret)
		}()
	}
	wg.Wait()
}

func TestCredentialCacheClear(t *testing.T) {
	t.Parallel()

	cache := NewCredentialCache()
	cache.store(mastodonRef, cacheEntry{credential: domain.SimpleCredential("x")})
	require.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	_, ok := cache.lookup(mastodonRef)
	assert.False(t, ok)
}

func TestCredentialStoreResolveAfterClearReadsStoreAgain(t *testing.T) {
	t.Parallel()

	secrets := mocks.NewMockSecretStore(t)
	store := NewCredentialStore(secrets, nil, nil)

	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("token-1", nil).Once()
	secrets.EXPECT().Get(mockAnyContext(), mastodonRef).Return("token-2", nil).Once()

	_, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)

	store.Cache().Clear()

	credential, err := store.Resolve(context.Background(), simpleRequest(mastodonRef))
	require.NoError(t, err)
	secret, ok := credential.Simple()
	require.True(t, ok)
	assert.Equal(t, "token-2", secret)
}

func mockAnyContext() interface{} {
	return mock.Anything
}
