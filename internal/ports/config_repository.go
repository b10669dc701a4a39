package ports

import (
	"context"

	"github.com/bnema/crosspost/internal/domain"
)

type ConfigRepository interface {
	Load(ctx context.Context) (domain.Config, error)
	Path() string
}
