package bluesky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/bnema/crosspost/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPost struct {
	Repo       string `json:"repo"`
	Collection string `json:"collection"`
	Record     struct {
		Type      string `json:"$type"`
		Text      string `json:"text"`
		CreatedAt string `json:"createdAt"`
		Facets    []struct {
			Index struct {
				ByteStart int `json:"byteStart"`
				ByteEnd   int `json:"byteEnd"`
			} `json:"index"`
			Features []struct {
				Type string `json:"$type"`
				URI  string `json:"uri"`
			} `json:"features"`
		} `json:"facets"`
	} `json:"record"`
}

func newPDS(t *testing.T, sessionStatus int, onRecord func(recordedPost)) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var records atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "me.bsky.social", body["identifier"])
		assert.Equal(t, "app-password", body["password"])

		if sessionStatus != http.StatusOK {
			w.WriteHeader(sessionStatus)
			_, _ = w.Write([]byte(`{"error":"AuthenticationRequired","message":"Invalid identifier or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"accessJwt":"jwt-1","did":"did:plc:abc123","handle":"me.bsky.social"}`))
	})
	mux.HandleFunc("/xrpc/com.atproto.repo.createRecord", func(w http.ResponseWriter, r *http.Request) {
		records.Add(1)
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))

		var body recordedPost
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if onRecord != nil {
			onRecord(body)
		}
		_, _ = w.Write([]byte(`{"uri":"at://did:plc:abc123/app.bsky.feed.post/3kxyz","cid":"bafy"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &records
}

func fixedClock(t *testing.T) ports.Clock {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))).Maybe()
	return clock
}

func postRequest(text string, credential domain.Credential) ports.PostRequest {
	return ports.PostRequest{
		Text:       text,
		Account:    domain.Account{Platform: domain.PlatformBluesky, Name: "main", Identifier: "me.bsky.social"},
		Credential: credential,
	}
}

func TestPosterPostCreatesRecordWithLinkFacets(t *testing.T) {
	t.Parallel()

	var got recordedPost
	server, _ := newPDS(t, http.StatusOK, func(p recordedPost) { got = p })

	poster := NewPoster(server.Client(), "", fixedClock(t))
	poster.ServiceURL = server.URL

	receipt, err := poster.Post(context.Background(), postRequest("Hello https://example.com", domain.SimpleCredential("app-password")))
	require.NoError(t, err)

	assert.Equal(t, "https://bsky.app/profile/me.bsky.social/post/3kxyz", receipt.URL)
	assert.Equal(t, "at://did:plc:abc123/app.bsky.feed.post/3kxyz", receipt.ID)

	assert.Equal(t, "did:plc:abc123", got.Repo)
	assert.Equal(t, "app.bsky.feed.post", got.Collection)
	assert.Equal(t, "app.bsky.feed.post", got.Record.Type)
	assert.Equal(t, "Hello https://example.com", got.Record.Text)
	assert.Equal(t, "2026-03-01T11:30:00.000Z", got.Record.CreatedAt)
	require.Len(t, got.Record.Facets, 1)
	assert.Equal(t, 6, got.Record.Facets[0].Index.ByteStart)
	assert.Equal(t, 25, got.Record.Facets[0].Index.ByteEnd)
	require.Len(t, got.Record.Facets[0].Features, 1)
	assert.Equal(t, "app.bsky.richtext.facet#link", got.Record.Facets[0].Features[0].Type)
	assert.Equal(t, "https://example.com", got.Record.Facets[0].Features[0].URI)
}

func TestPosterPostComputesFacetsOnSentText(t *testing.T) {
	t.Parallel()

	var got recordedPost
	server, _ := newPDS(t, http.StatusOK, func(p recordedPost) { got = p })

	poster := NewPoster(server.Client(), "", fixedClock(t))
	poster.ServiceURL = server.URL

	_, err := poster.Post(context.Background(), postRequest("\xff https://a.example", domain.SimpleCredential("app-password")))
	require.NoError(t, err)

	assert.Equal(t, "\uFFFD https://a.example", got.Record.Text)
	require.Len(t, got.Record.Facets, 1)
	index := got.Record.Facets[0].Index
	assert.Equal(t, "https://a.example", got.Record.Text[index.ByteStart:index.ByteEnd])
	assert.Equal(t, 4, index.ByteStart)
	assert.Equal(t, 21, index.ByteEnd)
}

func TestPosterPostOmitsFacetsForPlainText(t *testing.T) {
	t.Parallel()

	var got recordedPost
	server, _ := newPDS(t, http.StatusOK, func(p recordedPost) { got = p })
	poster := NewPoster(server.Client(), "", fixedClock(t))

	account := postRequest("no links here", domain.SimpleCredential("app-password"))
	account.Account.ServiceURL = server.URL

	_, err := poster.Post(context.Background(), account)
	require.NoError(t, err)
	assert.Empty(t, got.Record.Facets)
}

func TestPosterPostReportsSessionFailure(t *testing.T) {
	t.Parallel()

	server, records := newPDS(t, http.StatusUnauthorized, nil)
	poster := NewPoster(server.Client(), "", fixedClock(t))
	poster.ServiceURL = server.URL

	_, err := poster.Post(context.Background(), postRequest("hi", domain.SimpleCredential("app-password")))
	require.Error(t, err)
	assert.Equal(t, domain.FailureSession, domain.ClassifyError(err))
	assert.Contains(t, err.Error(), "Invalid identifier or password")
	assert.Zero(t, records.Load())
}

func TestPosterPostRejectsWrongCredentialShapeWithoutNetwork(t *testing.T) {
	t.Parallel()

	server, records := newPDS(t, http.StatusOK, nil)
	poster := NewPoster(server.Client(), "", nil)
	poster.ServiceURL = server.URL

	credential := domain.OAuth1Credential(domain.OAuth1{ConsumerKey: "a", ConsumerSecret: "b", AccessToken: "c", AccessTokenSecret: "d"})
	_, err := poster.Post(context.Background(), postRequest("hi", credential))
	require.Error(t, err)
	assert.Equal(t, domain.FailureMalformedCredential, domain.ClassifyError(err))
	assert.Equal(t, "malformed credential: bluesky needs an app password", err.Error())
	assert.Zero(t, records.Load())
}

func TestRecordKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3kxyz", recordKey("at://did:plc:abc/app.bsky.feed.post/3kxyz"))
	assert.Empty(t, recordKey("https://example.com/a/b"))
	assert.Empty(t, recordKey("at://did:plc:abc/app.bsky.feed.post/"))
	assert.Empty(t, recordKey(""))
}
