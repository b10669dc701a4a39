package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDoSendsJSONAndDecodesResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "crosspost-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.Header.Get("X-Custom"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42"}`))
	}))
	t.Cleanup(server.Close)

	var out struct {
		ID string `json:"id"`
	}
	err := Client{HTTPClient: server.Client(), UserAgent: "crosspost-test"}.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    server.URL + "/x",
		Header: http.Header{"X-Custom": []string{"abc"}},
		Body:   map[string]string{"status": "hi"},
		Out:    &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "42", out.ID)
}

func TestClientDoClassifiesFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		status      int
		body        string
		header      map[string]string
		wantKind    domain.FailureKind
		wantMessage string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"The access token is invalid"}`, wantKind: domain.FailureAuthentication, wantMessage: "The access token is invalid"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"title":"Forbidden","detail":"not permitted"}`, wantKind: domain.FailureAuthentication, wantMessage: "Forbidden: not permitted"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"title":"Too Many Requests"}`, header: map[string]string{"Retry-After": "60"}, wantKind: domain.FailureRateLimited, wantMessage: "retry after 60"},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, body: `{"error":"Validation failed: Text character limit of 500 exceeded"}`, wantKind: domain.FailureRejected, wantMessage: "character limit"},
		{name: "server error plain text", status: http.StatusBadGateway, body: "bad gateway", wantKind: domain.FailureRejected, wantMessage: "status 502: bad gateway"},
		{name: "undecodable success", status: http.StatusOK, body: "<html>", wantKind: domain.FailureMalformedResponse, wantMessage: "decode response"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tc.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			var out map[string]any
			err := Client{HTTPClient: server.Client()}.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL, Out: &out})
			require.Error(t, err)

			var postErr *domain.PostError
			require.True(t, errors.As(err, &postErr))
			assert.Equal(t, tc.wantKind, postErr.Kind)
			assert.Contains(t, err.Error(), tc.wantMessage)
		})
	}
}

func TestClientDoReportsNetworkFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	err := Client{}.Do(context.Background(), Request{Method: http.MethodGet, URL: url})
	assert.Equal(t, domain.FailureNetwork, domain.ClassifyError(err))
}

func TestClientDoReportsCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Client{HTTPClient: server.Client()}.Do(ctx, Request{Method: http.MethodGet, URL: server.URL})
	assert.Equal(t, domain.FailureCancelled, domain.ClassifyError(err))
}

func TestJoinURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		base    string
		path    string
		want    string
		wantErr string
	}{
		{base: "https://mastodon.social", path: "/api/v1/statuses", want: "https://mastodon.social/api/v1/statuses"},
		{base: "https://mastodon.social/", path: "api/v1/statuses", want: "https://mastodon.social/api/v1/statuses"},
		{base: "https://example.com/prefix", path: "/xrpc/x", want: "https://example.com/prefix/xrpc/x"},
		{base: "", path: "/x", wantErr: "required"},
		{base: "ftp://example.com", path: "/x", wantErr: "http or https"},
		{base: "mastodon.social", path: "/x", wantErr: "http or https"},
	}

	for _, tc := range testCases {
		got, err := JoinURL(tc.base, tc.path)
		if tc.wantErr != "" {
			require.Error(t, err, tc.base)
			assert.Contains(t, err.Error(), tc.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
