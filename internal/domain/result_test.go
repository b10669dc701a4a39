package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureResultClassifiesErrors(t *testing.T) {
	t.Parallel()

	account := Account{Platform: PlatformTwitter, Name: "main"}
	tests := []struct {
		name       string
		err        error
		wantKind   FailureKind
		wantDetail string
	}{
		{
			name:       "user cancelled keeps a fixed detail",
			err:        fmt.Errorf("prompt: %w", ErrUserCancelled),
			wantKind:   FailureUserCancelled,
			wantDetail: "skipped by user",
		},
		{
			name:       "malformed credential",
			err:        fmt.Errorf("%w: missing access_token_secret", ErrMalformedCredential),
			wantKind:   FailureMalformedCredential,
			wantDetail: "malformed credential: missing access_token_secret",
		},
		{
			name:       "typed post error",
			err:        NewPostError(FailureRateLimited, "status 429", nil),
			wantKind:   FailureRateLimited,
			wantDetail: "rate limited: status 429",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantKind:   FailureUnknown,
			wantDetail: "boom",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := FailureResult(account, tc.err)
			assert.Equal(t, StatusFailure, result.Status)
			assert.Equal(t, tc.wantKind, result.Kind)
			assert.Equal(t, tc.wantDetail, result.Detail)
			assert.Equal(t, "main", result.AccountName)
		})
	}
}

func TestAnyFailed(t *testing.T) {
	t.Parallel()

	ok := PostResult{Status: StatusSuccess}
	bad := PostResult{Status: StatusFailure}

	assert.False(t, AnyFailed(nil))
	assert.False(t, AnyFailed([]PostResult{ok, ok}))
	assert.True(t, AnyFailed([]PostResult{ok, bad}))
}

func TestEnabledAccountsSkipsDisabledPlatforms(t *testing.T) {
	t.Parallel()

	configs := []PlatformConfig{
		{Platform: PlatformMastodon, Enabled: false, Accounts: []Account{{Name: "m"}}},
		{Platform: PlatformBluesky, Enabled: true, Accounts: []Account{{Name: "b1"}, {Name: "b2"}}},
	}

	accounts := EnabledAccounts(configs)
	assert.Equal(t, []Account{
		{Platform: PlatformBluesky, Name: "b1"},
		{Platform: PlatformBluesky, Name: "b2"},
	}, accounts)
}

func TestParsePlatform(t *testing.T) {
	t.Parallel()

	p, err := ParsePlatform(" Bluesky ")
	assert.NoError(t, err)
	assert.Equal(t, PlatformBluesky, p)

	p, err = ParsePlatform("x")
	assert.NoError(t, err)
	assert.Equal(t, PlatformTwitter, p)

	_, err = ParsePlatform("myspace")
	assert.ErrorContains(t, err, "unsupported platform")
}
