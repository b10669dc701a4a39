package ports

import (
	"context"

	"github.com/bnema/crosspost/internal/domain"
)

type PostRequest struct {
	Text       string
	Account    domain.Account
	Credential domain.Credential
}

// Poster publishes text to one platform. Failures are *domain.PostError.
type Poster interface {
	Platform() domain.Platform
	Post(ctx context.Context, req PostRequest) (domain.Receipt, error)
}
