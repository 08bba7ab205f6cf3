package out

import (
	"context"

	"suerga/internal/modules/render/domain"
)

type ContextProvider interface {
	Context(ctx context.Context, baseURL string) (domain.SiteContext, error)
}

// SourceTree lists files as slash-separated paths relative to root.
type SourceTree interface {
	Files(ctx context.Context, root string) ([]string, error)
	Read(ctx context.Context, root, rel string) ([]byte, error)
}

type MarkdownConverter interface {
	Convert(src []byte) ([]byte, error)
}

type TemplateEngine interface {
	Render(templatesPath, source string, vars map[string]any) ([]byte, error)
}

type OutputWriter interface {
	Reset(ctx context.Context, targetPath string) error
	Write(ctx context.Context, targetPath, rel string, data []byte) error
	Copy(ctx context.Context, srcPath, targetPath, rel string) (size int64, digest string, err error)
}

type BuildIndex interface {
	Digests(ctx context.Context) (map[string]string, error)
	Record(ctx context.Context, build domain.Build) error
	Entries(ctx context.Context) ([]domain.IndexEntry, error)
}
