package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"suerga/internal/modules/site/domain"
	siteout "suerga/internal/modules/site/port/out"
	apperrors "suerga/internal/platform/errors"
)

// Preprocessor enriches the context before rendering. Returning a nil context is a bug in the preprocessor.
type Preprocessor struct {
	Name string
	Run  func(ctx context.Context, c domain.Context) (domain.Context, error)
}

type ContextService struct {
	store    siteout.ConfigStore
	feeds    siteout.FeedFetcher
	github   siteout.GitHub
	external siteout.ExternalPreprocessor
	logger   zerolog.Logger
}

func NewContextService(store siteout.ConfigStore, feeds siteout.FeedFetcher, github siteout.GitHub, external siteout.ExternalPreprocessor, logger zerolog.Logger) *ContextService {
	return &ContextService{store: store, feeds: feeds, github: github, external: external, logger: logger}
}

func (s *ContextService) Build(ctx context.Context, extra map[string]any, preprocessors []Preprocessor) (domain.Context, error) {
	s.logger.Info().Msg("generating context")
	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.Merge(extra)

	for _, p := range preprocessors {
		next, err := p.Run(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("preprocessor %s: %w", p.Name, err)
		}
		if next == nil {
			return nil, fmt.Errorf("preprocessor %s returned no context", p.Name)
		}
		c = next
	}
	if _, err := c.Settings(); err != nil {
		return nil, err
	}
	s.logger.Info().Int("keys", len(c)).Msg("context generated")
	return c, nil
}

// Preprocessors returns the built-in pipeline in execution order.
func (s *ContextService) Preprocessors() []Preprocessor {
	return []Preprocessor{
		{Name: "navbar_add_info", Run: s.NavbarAddInfo},
		{Name: "blog_add_posts", Run: s.BlogAddPosts},
		{Name: "maintainers_add_info", Run: s.MaintainersAddInfo},
		{Name: "home_add_releases", Run: s.HomeAddReleases},
		{Name: "external_plugins", Run: s.ExternalPlugins},
	}
}

func (s *ContextService) NavbarAddInfo(_ context.Context, c domain.Context) (domain.Context, error) {
	raw, ok := c["navbar"]
	if !ok {
		return c, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("navbar must be a list")
	}
	decorated, err := domain.DecorateNavbar(items)
	if err != nil {
		return nil, err
	}
	c["navbar"] = decorated
	return c, nil
}

func (s *ContextService) BlogAddPosts(ctx context.Context, c domain.Context) (domain.Context, error) {
	blog, ok := c.Section("blog")
	if !ok {
		return c, nil
	}
	urls := domain.Strings(blog["feed"])
	feeds := make([][]domain.Post, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			feed, err := s.feeds.Fetch(gctx, url)
			if err != nil {
				return fmt.Errorf("fetch feed %s: %w", url, err)
			}
			feeds[i] = domain.PostsFromFeed(feed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var posts []domain.Post
	for _, batch := range feeds {
		posts = append(posts, batch...)
	}
	latest := domain.LatestPosts(posts, domain.Int(blog["num_posts"], len(posts)))
	out := make([]any, 0, len(latest))
	for _, p := range latest {
		out = append(out, p.Map())
	}
	blog["posts"] = out
	return c, nil
}

func (s *ContextService) MaintainersAddInfo(ctx context.Context, c domain.Context) (domain.Context, error) {
	maintainers, ok := c.Section("maintainers")
	if !ok {
		return c, nil
	}
	people := []any{}
	maintainers["people"] = people
	for _, login := range domain.Strings(maintainers["active"]) {
		user, err := s.github.User(ctx, login)
		if errors.Is(err, apperrors.ErrQuotaExceeded) {
			s.logger.Warn().Str("user", login).Msg("github quota exceeded, skipping remaining maintainers")
			return c, nil
		}
		if err != nil {
			return nil, fmt.Errorf("github user %s: %w", login, err)
		}
		people = append(people, user)
		maintainers["people"] = people
	}
	return c, nil
}

func (s *ContextService) HomeAddReleases(ctx context.Context, c domain.Context) (domain.Context, error) {
	home, ok := c.Section("home")
	if !ok {
		return c, nil
	}
	c["releases"] = []any{}
	repo := domain.DefaultReleases
	if r := domain.String(home["releases_repo"]); r != "" {
		repo = r
	}

	releases, err := s.github.Releases(ctx, repo)
	if errors.Is(err, apperrors.ErrQuotaExceeded) {
		s.logger.Warn().Str("repo", repo).Msg("github quota exceeded, no releases listed")
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("github releases %s: %w", repo, err)
	}
	stable, err := domain.StableReleases(releases)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(stable))
	for _, r := range stable {
		out = append(out, r.Map())
	}
	c["releases"] = out
	return c, nil
}

func (s *ContextService) ExternalPlugins(ctx context.Context, c domain.Context) (domain.Context, error) {
	if s.external == nil {
		return c, nil
	}
	active, err := s.external.Active(ctx)
	if err != nil {
		return nil, err
	}
	if !active {
		return c, nil
	}
	raw, err := json.Marshal(domain.StringKeys(c))
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	patch, err := s.external.Preprocess(ctx, raw)
	if err != nil {
		return nil, err
	}
	c.Merge(patch)
	return c, nil
}
