package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"suerga/internal/modules/render/domain"
	renderout "suerga/internal/modules/render/port/out"
	"suerga/internal/platform/clock"
	apperrors "suerga/internal/platform/errors"
	"suerga/internal/platform/id"
	"suerga/internal/platform/markdown"
)

type Deps struct {
	Clock     clock.Clock
	IDs       id.Generator
	Contexts  renderout.ContextProvider
	Tree      renderout.SourceTree
	Markdown  renderout.MarkdownConverter
	Templates renderout.TemplateEngine
	Writer    renderout.OutputWriter
	Index     renderout.BuildIndex
	Logger    zerolog.Logger
}

type RenderService struct {
	deps Deps
}

func NewRenderService(deps Deps) *RenderService {
	return &RenderService{deps: deps}
}

func (s *RenderService) Build(ctx context.Context, sourcePath, targetPath, baseURL string) (domain.Build, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return domain.Build{}, fmt.Errorf("%w: source path is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(targetPath) == "" {
		return domain.Build{}, fmt.Errorf("%w: target path is required", apperrors.ErrInvalidInput)
	}

	if sameDir(sourcePath, targetPath) {
		return domain.Build{}, fmt.Errorf("%w: target path must differ from the source path", apperrors.ErrInvalidInput)
	}

	site, err := s.deps.Contexts.Context(ctx, baseURL)
	if err != nil {
		return domain.Build{}, err
	}
	templatesPath := site.TemplatesPath
	if !filepath.IsAbs(templatesPath) {
		templatesPath = filepath.Join(sourcePath, templatesPath)
	}

	rels, err := s.deps.Tree.Files(ctx, sourcePath)
	if err != nil {
		return domain.Build{}, err
	}
	targetRel, targetInside := nestedRel(sourcePath, targetPath)
	files, skipped := domain.Plan(rels, func(rel string) bool {
		if targetInside && (rel == targetRel || strings.HasPrefix(rel, targetRel+"/")) {
			return true
		}
		return site.Ignored(rel)
	})

	if err := s.deps.Writer.Reset(ctx, targetPath); err != nil {
		return domain.Build{}, err
	}

	build := domain.Build{
		ID:        s.deps.IDs.New(),
		StartedAt: s.deps.Clock.Now(),
		Skipped:   skipped,
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return domain.Build{}, err
		}
		s.deps.Logger.Info().Str("file", file.Rel).Msg("processing")
		out, err := s.renderFile(ctx, sourcePath, targetPath, templatesPath, site, file)
		if err != nil {
			return domain.Build{}, fmt.Errorf("%s: %w", file.Rel, err)
		}
		build.Outputs = append(build.Outputs, out)
	}

	previous, err := s.deps.Index.Digests(ctx)
	if err != nil {
		return domain.Build{}, err
	}
	build.Compare(previous)
	if err := s.deps.Index.Record(ctx, build); err != nil {
		return domain.Build{}, err
	}
	s.deps.Logger.Info().
		Str("build_id", build.ID).
		Int("files", len(build.Outputs)).
		Int("changed", len(build.Changed)).
		Int("unchanged", build.Unchanged).
		Msg("build finished")
	return build, nil
}

func (s *RenderService) Entries(ctx context.Context) ([]domain.IndexEntry, error) {
	return s.deps.Index.Entries(ctx)
}

func (s *RenderService) renderFile(ctx context.Context, sourcePath, targetPath, templatesPath string, site domain.SiteContext, file domain.SourceFile) (domain.Output, error) {
	outPath := domain.OutputPath(file.Rel)
	if file.Kind == domain.KindAsset {
		size, digest, err := s.deps.Writer.Copy(ctx, filepath.Join(sourcePath, filepath.FromSlash(file.Rel)), targetPath, outPath)
		if err != nil {
			return domain.Output{}, err
		}
		return domain.Output{Path: outPath, Source: file.Rel, Kind: file.Kind, SHA256: digest, Size: size}, nil
	}

	raw, err := s.deps.Tree.Read(ctx, sourcePath, file.Rel)
	if err != nil {
		return domain.Output{}, err
	}
	content := string(raw)
	meta := map[string]any{}
	if file.Kind == domain.KindMarkdown {
		meta, content, err = markdown.SplitFrontmatter(content)
		if err != nil {
			return domain.Output{}, err
		}
		body, err := s.deps.Markdown.Convert([]byte(content))
		if err != nil {
			return domain.Output{}, fmt.Errorf("convert markdown: %w", err)
		}
		content = domain.WrapMarkdownBody(string(body))
	}
	rendered, err := s.deps.Templates.Render(templatesPath, content, site.PageVars(meta))
	if err != nil {
		return domain.Output{}, err
	}
	if err := s.deps.Writer.Write(ctx, targetPath, outPath, rendered); err != nil {
		return domain.Output{}, err
	}
	sum := sha256.Sum256(rendered)
	return domain.Output{
		Path:   outPath,
		Source: file.Rel,
		Kind:   file.Kind,
		SHA256: hex.EncodeToString(sum[:]),
		Size:   int64(len(rendered)),
	}, nil
}

// nestedRel reports where target sits inside source, so a build never publishes its own output.
func nestedRel(sourcePath, targetPath string) (string, bool) {
	src, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", false
	}
	dst, err := filepath.Abs(targetPath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
