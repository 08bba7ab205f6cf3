package out

import (
	"context"

	"suerga/internal/modules/site/domain"
)

type ConfigStore interface {
	Load(ctx context.Context) (domain.Context, error)
}

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (domain.Feed, error)
}

// GitHub reports an exhausted quota with apperrors.ErrQuotaExceeded.
type GitHub interface {
	User(ctx context.Context, login string) (map[string]any, error)
	Releases(ctx context.Context, repo string) ([]domain.Release, error)
}

// ExternalPreprocessor receives the context as JSON and returns top-level keys to set.
// Active reports whether any external preprocessor would run at all.
type ExternalPreprocessor interface {
	Active(ctx context.Context) (bool, error)
	Preprocess(ctx context.Context, contextJSON []byte) (map[string]any, error)
}
