package mastodon

import (
	"context"
	"net/http"

	"github.com/bnema/crosspost/internal/adapters/platform/httpapi"
	"github.com/bnema/crosspost/internal/domain"
	"github.com/bnema/crosspost/internal/ports"
	"github.com/google/uuid"
)

const statusesPath = "/api/v1/statuses"

// Poster publishes statuses with a user access token on the account's
// instance.
type Poster struct {
	Client httpapi.Client
	// NewIdempotencyKey defaults to uuid.NewString.
	NewIdempotencyKey func() string
}

var _ ports.Poster = (*Poster)(nil)

func NewPoster(httpClient *http.Client, userAgent string) *Poster {
	return &Poster{Client: httpapi.Client{HTTPClient: httpClient, UserAgent: userAgent}}
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (p *Poster) Platform() domain.Platform { return domain.PlatformMastodon }

func (p *Poster) Post(ctx context.Context, req ports.PostRequest) (domain.Receipt, error) {
	token, ok := req.Credential.Simple()
	if !ok {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedCredential, "mastodon needs an access token", nil)
	}

	endpoint, err := httpapi.JoinURL(req.Account.Identifier, statusesPath)
	if err != nil {
		return domain.Receipt{}, domain.NewPostError(domain.FailureRejected, "instance url", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Idempotency-Key", p.idempotencyKey())

	var status statusResponse
	if err := p.Client.Do(ctx, httpapi.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Body:   statusRequest{Status: req.Text},
		Out:    &status,
	}); err != nil {
		return domain.Receipt{}, err
	}
	if status.ID == "" {
		return domain.Receipt{}, domain.NewPostError(domain.FailureMalformedResponse, "status has no id", nil)
	}

	return domain.Receipt{ID: status.ID, URL: status.URL}, nil
}

func (p *Poster) idempotencyKey() string {
	if p.NewIdempotencyKey != nil {
		return p.NewIdempotencyKey()
	}
	return uuid.NewString()
}
