package out

import (
	"context"

	"suerga/internal/modules/plugin/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Preprocess(ctx context.Context, manifest domain.Manifest, input domain.PreprocessRequest) (domain.Patch, error)
}
