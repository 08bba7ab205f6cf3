package out

import (
	"context"

	"suerga/internal/modules/preview/domain"
)

type Builder interface {
	Build(ctx context.Context) (domain.BuildSummary, error)
}

// Watcher streams source-relative paths of changed files until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, root string) (<-chan string, error)
}

type Server interface {
	Serve(ctx context.Context, addr, mount, dir string) error
}
