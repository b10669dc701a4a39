package twitter

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/crosspost/internal/adapters/platform/httpapi"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/google/uuid"
)

const (
	DefaultAPIURL = "https://api.twitter.com"
	tweetsPath    = "/2/tweets"
)

// Poster creates tweets through the v2 API with user-context OAuth 1.0a.
type Poster struct {
	Client httpapi.Client
	Clock  ports.Clock
	APIURL string
	// NewNonce defaults to a random uuid without dashes.
	NewNonce func() string
}

var _ ports.Poster = (*Poster)(nil)

func NewPoster(httpClient *http.Client, userAgent string, clock ports.Clock) *Poster {
	return &Poster{
		Client: httpapi.Client{HTTPClient: httpClient, UserAgent: userAgent},
		Clock:  clock,
		APIURL: DefaultAPIURL,
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (p *Poster) Platform() domain.Platform { return domain.PlatformTwitter }

func (p *Poster) Post(ctx context.Context, req ports.PostRequest) (domain.Receipt, error) {
	creds, ok := req.Credential.OAuth1()
	if !ok {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedCredential, "twitter needs an oauth1 bundle", nil)
	}

	apiURL := p.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	endpoint, err := httpapi.JoinURL(apiURL, tweetsPath)
	if err != nil {
		return domain.Receipt{}, domain.NewPostError(domain.FailureRejected, "api url", err)
	}

	auth, err := authorizationHeader(http.MethodPost, endpoint, creds, p.nonce(), strconv.FormatInt(p.now().Unix(), 10))
	if err != nil {
		return domain.Receipt{}, domain.NewPostError(domain.FailureRejected, "sign request", err)
	}
	header := http.Header{}
	header.Set("Authorization", auth)

	var tweet tweetResponse
	if err := p.Client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Body:   tweetRequest{Text: req.Text},
		Out:    &tweet,
	}); err != nil {
		return domain.Receipt{}, err
	}
	if tweet.Data.ID == "" {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedResponse, "tweet has no id", nil)
	}

	return domain.Receipt{ID: tweet.Data.ID, URL: tweetURL(req.Account.Identifier, tweet.Data.ID)}, nil
}

func (p *Poster) nonce() string {
	if p.NewNonce != nil {
		return p.NewNonce()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (p *Poster) now() time.Time {
	if p.Clock != nil {
		return p.Clock.Now()
	}
	return time.Now()
}

func tweetURL(handle, id string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		handle = "i/web"
	}
	return "https://x.com/" + handle + "/status/" + id
}
