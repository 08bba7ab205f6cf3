package out

import (
	"context"

	"suerga/internal/modules/tryit/domain"
)

type PageStore interface {
	Exists(ctx context.Context, sourcePath string) (bool, error)
	Save(ctx context.Context, sourcePath string, page domain.Page) (string, error)
}

type RenderedPageReader interface {
	Read(ctx context.Context, targetPath, pageRel string) (domain.RenderedPage, error)
}
