package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"suerga/internal/modules/preview/domain"
	previewout "suerga/internal/modules/preview/port/out"
)

const defaultDebounce = 300 * time.Millisecond

type Options struct {
	SourcePath string
	TargetPath string
	BaseURL    string
	Addr       string
	Watch      bool
	Debounce   time.Duration
}

type PreviewService struct {
	builder previewout.Builder
	watcher previewout.Watcher
	server  previewout.Server
	logger  zerolog.Logger
}

func NewPreviewService(builder previewout.Builder, watcher previewout.Watcher, server previewout.Server, logger zerolog.Logger) *PreviewService {
	return &PreviewService{builder: builder, watcher: watcher, server: server, logger: logger}
}

func (s *PreviewService) Serve(ctx context.Context, opts Options) error {
	mount, err := domain.MountPath(opts.BaseURL)
	if err != nil {
		return err
	}
	if _, err := s.rebuild(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan string
	if opts.Watch {
		changes, err = s.watcher.Watch(ctx, opts.SourcePath)
		if err != nil {
			return fmt.Errorf("watch source: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.server.Serve(gctx, opts.Addr, mount, opts.TargetPath)
	})
	if opts.Watch {
		targetRel := relativeTo(opts.SourcePath, opts.TargetPath)
		debounce := opts.Debounce
		if debounce <= 0 {
			debounce = defaultDebounce
		}
		g.Go(func() error {
			s.watchLoop(gctx, changes, targetRel, debounce)
			return nil
		})
	}
	return g.Wait()
}

// watchLoop coalesces bursts of changes into one rebuild once the source is quiet for debounce.
func (s *PreviewService) watchLoop(ctx context.Context, changes <-chan string, targetRel string, debounce time.Duration) {
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case rel, ok := <-changes:
			if !ok {
				return
			}
			if !domain.ShouldRebuild(rel, targetRel) {
				continue
			}
			s.logger.Debug().Str("file", rel).Msg("source changed")
			timer.Reset(debounce)
		case <-timer.C:
			if _, err := s.rebuild(ctx); err != nil {
				s.logger.Error().Err(err).Msg("rebuild failed")
			}
		}
	}
}

func (s *PreviewService) rebuild(ctx context.Context) (domain.BuildSummary, error) {
	summary, err := s.builder.Build(ctx)
	if err != nil {
		return domain.BuildSummary{}, err
	}
	s.logger.Info().Int("files", summary.Files).Int("changed", summary.Changed).Msg("site rebuilt")
	return summary, nil
}

func relativeTo(sourcePath, targetPath string) string {
	src, err := filepath.Abs(sourcePath)
	if err != nil {
		return ""
	}
	dst, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
