package bluesky

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/crosspost/internal/adapters/platform/httpapi"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
)

const (
	DefaultServiceURL = "https://bsky.social"

	createSessionPath = "/xrpc/com.atproto.server.createSession"
	createRecordPath  = "/xrpc/com.atproto.repo.createRecord"

	postCollection  = "app.bsky.feed.post"
	linkFeatureType = "app.bsky.richtext.facet#link"

	createdAtLayout = "2006-01-02T15:04:05.000Z"
)

// Poster logs in with an app password and creates one feed post record per
// call. Sessions are not reused across calls.
type Poster struct {
	Client httpapi.Client
	Clock  ports.Clock
	// ServiceURL is the PDS used when the account does not name one.
	ServiceURL string
}

var _ ports.Poster = (*Poster)(nil)

func NewPoster(httpClient *http.Client, userAgent string, clock ports.Clock) *Poster {
	return &Poster{
		Client:     httpapi.Client{HTTPClient: httpClient, UserAgent: userAgent},
		Clock:      clock,
		ServiceURL: DefaultServiceURL,
	}
}

type sessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type session struct {
	AccessJwt string `json:"accessJwt"`
	DID       string `json:"did"`
	Handle    string `json:"handle"`
}

type createRecordRequest struct {
	Repo       string     `json:"repo"`
	Collection string     `json:"collection"`
	Record     postRecord `json:"record"`
}

type postRecord struct {
	Type      string      `json:"$type"`
	Text      string      `json:"text"`
	CreatedAt string      `json:"createdAt"`
	Facets    []facetJSON `json:"facets,omitempty"`
}

type facetJSON struct {
	Index    byteSlice     `json:"index"`
	Features []linkFeature `json:"features"`
}

type byteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

type linkFeature struct {
	Type string `json:"$type"`
	URI  string `json:"uri"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

func (p *Poster) Platform() domain.Platform { return domain.PlatformBluesky }

func (p *Poster) Post(ctx context.Context, req ports.PostRequest) (domain.Receipt, error) {
	password, ok := req.Credential.Simple()
	if !ok {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedCredential, "bluesky needs an app password", nil)
	}

	service := p.serviceURL(req.Account)
	sess, err := p.createSession(ctx, service, req.Account.Identifier, password)
	if err != nil {
		return domain.Receipt{}, err
	}

	// JSON encoding replaces invalid UTF-8, so facets must be computed on
	// the text as it will be sent.
	text := strings.ToValidUTF8(req.Text, "\uFFFD")
	record := postRecord{
		Type:      postCollection,
		Text:      text,
		CreatedAt: p.now().UTC().Format(createdAtLayout),
		Facets:    linkFacets(domain.BuildFacets(text)),
	}

	endpoint, err := httpapi.JoinURL(service, createRecordPath)
	if err != nil {
		return domain.Receipt{}, domain.NewPostError(domain.FailureRejected, "service url", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+sess.AccessJwt)

	var created createRecordResponse
	if err := p.Client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Body:   createRecordRequest{Repo: sess.DID, Collection: postCollection, Record: record},
		Out:    &created,
	}); err != nil {
		return domain.Receipt{}, err
	}

	rkey := recordKey(created.URI)
	if rkey == "" {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedResponse, "record uri "+created.URI, nil)
	}

	handle := sess.Handle
	if handle == "" {
		handle = req.Account.Identifier
	}

	return domain.Receipt{
		ID:  created.URI,
		URL: "https://bsky.app/profile/" + url.PathEscape(handle) + "/post/" + url.PathEscape(rkey),
	}, nil
}

// createSession reports every failure other than transport trouble as a
// session failure.
func (p *Poster) createSession(ctx context.Context, service, identifier, password string) (session, error) {
	endpoint, err := httpapi.JoinURL(service, createSessionPath)
	if err != nil {
		return session{}, domain.NewPostError(domain.FailureSession, "service url", err)
	}

	var sess session
	err = p.Client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Body:   sessionRequest{Identifier: identifier, Password: password},
		Out:    &sess,
	})
	if err != nil {
		var postErr *domain.PostError
		if errors.As(err, &postErr) && (postErr.Kind == domain.FailureNetwork || postErr.Kind == domain.FailureCancelled) {
			return session{}, err
		}
		return session{}, domain.NewPostError(domain.FailureSession, "create session", errors.Unwrap(err))
	}
	if sess.AccessJwt == "" || sess.DID == "" {
		return session{}, domain.NewPostError(domain.FailureSession, "create session: response has no token", nil)
	}

	return sess, nil
}

func (p *Poster) serviceURL(account domain.Account) string {
	switch {
	case account.ServiceURL != "":
		return account.ServiceURL
	case p.ServiceURL != "":
		return p.ServiceURL
	default:
		return DefaultServiceURL
	}
}

func (p *Poster) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now()
	}
	return time.Now()
}

func linkFacets(facets []domain.Facet) []facetJSON {
	out := make([]facetJSON, 0, len(facets))
	for _, f := range facets {
		out = append(out, facetJSON{
			Index:    byteSlice{ByteStart: f.ByteStart, ByteEnd: f.ByteEnd},
			Features: []linkFeature{{Type: linkFeatureType, URI: f.URI}},
		})
	}
	return out
}

// recordKey returns the last segment of at://did/collection/rkey.
func recordKey(uri string) string {
	if !strings.HasPrefix(uri, "at://") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(uri, "at://"), "/")
	if len(parts) != 3 || parts[2] == "" {
		return ""
	}
	return parts[2]
}
