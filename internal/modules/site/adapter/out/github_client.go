package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"suerga/internal/modules/site/domain"
	siteout "suerga/internal/modules/site/port/out"
	apperrors "suerga/internal/platform/errors"
)

// ResponseCache keeps the last good body per URL for conditional requests.
type ResponseCache interface {
	Get(ctx context.Context, url string) (etag string, body []byte, ok bool, err error)
	Put(ctx context.Context, url, etag string, body []byte) error
}

type GitHubOptions struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Limiter *rate.Limiter
	Cache   ResponseCache
	Logger  zerolog.Logger
}

type GitHubClient struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	cache   ResponseCache
	logger  zerolog.Logger
}

func NewGitHubClient(opts GitHubOptions) siteout.GitHub {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.github.com"
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(250*time.Millisecond), 4)
	}
	return &GitHubClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		client:  opts.Client,
		limiter: opts.Limiter,
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
}

func (c *GitHubClient) User(ctx context.Context, login string) (map[string]any, error) {
	if strings.TrimSpace(login) == "" {
		return nil, fmt.Errorf("%w: empty github login", apperrors.ErrInvalidInput)
	}
	out := map[string]any{}
	if err := c.get(ctx, "/users/"+login, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type releasePayload struct {
	TagName     string `json:"tag_name"`
	Prerelease  bool   `json:"prerelease"`
	PublishedAt string `json:"published_at"`
	Assets      []struct {
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

func (c *GitHubClient) Releases(ctx context.Context, repo string) ([]domain.Release, error) {
	if !strings.Contains(repo, "/") {
		return nil, fmt.Errorf("%w: repo %q must be owner/name", apperrors.ErrInvalidInput, repo)
	}
	var payload []releasePayload
	if err := c.get(ctx, "/repos/"+repo+"/releases", &payload); err != nil {
		return nil, err
	}
	out := make([]domain.Release, 0, len(payload))
	for _, p := range payload {
		r := domain.Release{Tag: p.TagName, Prerelease: p.Prerelease, PublishedAt: p.PublishedAt}
		for _, a := range p.Assets {
			r.AssetURLs = append(r.AssetURLs, a.BrowserDownloadURL)
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *GitHubClient) get(ctx context.Context, path string, out any) error {
	url := c.baseURL + path
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var cachedETag string
	var cachedBody []byte
	var cached bool
	if c.cache != nil {
		etag, body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			c.logger.Debug().Err(err).Str("url", url).Msg("response cache lookup failed")
		}
		cachedETag, cachedBody, cached = etag, body, ok
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if cached && cachedETag != "" {
		req.Header.Set("If-None-Match", cachedETag)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body []byte
	switch {
	case resp.StatusCode == http.StatusNotModified && cached:
		body = cachedBody
	case resp.StatusCode == http.StatusForbidden:
		if !cached {
			return fmt.Errorf("%w: %s", apperrors.ErrQuotaExceeded, url)
		}
		c.logger.Warn().Str("url", url).Msg("github quota exceeded, serving cached response")
		body = cachedBody
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	default:
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
		if c.cache != nil {
			if err := c.cache.Put(ctx, url, resp.Header.Get("ETag"), body); err != nil {
				c.logger.Debug().Err(err).Str("url", url).Msg("response cache store failed")
			}
		}
	}

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
