package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"suerga/internal/platform/slug"
)

const (
	SettingsKey      = "pysuerga"
	DefaultReleases  = "pandas-dev/pandas"
	releaseTimestamp = "2006-01-02T15:04:05Z"
)

// Context is the template context: the decoded site config plus whatever preprocessors add.
type Context map[string]any

type Settings struct {
	TemplatesPath string
	Ignore        []string
}

func (c Context) Settings() (Settings, error) {
	section, ok := c.Section(SettingsKey)
	if !ok {
		return Settings{}, fmt.Errorf("config is missing the %q section", SettingsKey)
	}
	settings := Settings{
		TemplatesPath: asString(section["templates_path"]),
		Ignore:        asStringSlice(section["ignore"]),
	}
	if strings.TrimSpace(settings.TemplatesPath) == "" {
		return Settings{}, fmt.Errorf("%s.templates_path is required", SettingsKey)
	}
	return settings, nil
}

// Section returns a nested mapping, accepting both decoded YAML shapes.
func (c Context) Section(key string) (map[string]any, bool) {
	switch v := c[key].(type) {
	case map[string]any:
		return v, true
	case Context:
		return v, true
	default:
		return nil, false
	}
}

// Merge sets top-level keys, replacing existing values.
func (c Context) Merge(patch map[string]any) {
	for k, v := range patch {
		c[k] = v
	}
}

// StringKeys copies the context with every nested mapping keyed by strings.
// YAML allows keys such as years or booleans that JSON cannot encode.
func StringKeys(c Context) map[string]any {
	return stringKeys(map[string]any(c)).(map[string]any)
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = stringKeys(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = stringKeys(item)
		}
		return out
	default:
		return v
	}
}

func (s Settings) Ignored(rel string) bool {
	rel = strings.TrimPrefix(rel, "./")
	for _, item := range s.Ignore {
		if strings.TrimPrefix(item, "./") == rel {
			return true
		}
	}
	return false
}

// DecorateNavbar adds has_subitems and slug to every navbar entry.
func DecorateNavbar(items []any) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("navbar item %d is not a mapping", i)
		}
		name := asString(item["name"])
		if name == "" {
			return nil, fmt.Errorf("navbar item %d has no name", i)
		}
		decorated := make(map[string]any, len(item)+2)
		for k, v := range item {
			decorated[k] = v
		}
		_, isList := item["target"].([]any)
		decorated["has_subitems"] = isList
		decorated["slug"] = slug.Navbar(name)
		out = append(out, decorated)
	}
	return out, nil
}

type FeedEntry struct {
	Title       string
	Author      string
	Link        string
	Description string
	Published   time.Time
}

type Feed struct {
	Title   string
	Entries []FeedEntry
}

type Post struct {
	Title       string
	Author      string
	Published   time.Time
	Feed        string
	Link        string
	Description string
	Summary     string
	Slug        string
}

func PostsFromFeed(feed Feed) []Post {
	out := make([]Post, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		out = append(out, Post{
			Title:       e.Title,
			Author:      e.Author,
			Published:   e.Published,
			Feed:        feed.Title,
			Link:        e.Link,
			Description: e.Description,
			Summary:     e.Description,
			Slug:        slug.Make(e.Title),
		})
	}
	return out
}

// LatestPosts orders posts newest first and keeps at most n of them.
func LatestPosts(posts []Post, n int) []Post {
	sorted := append([]Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (p Post) Map() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"author":      p.Author,
		"published":   p.Published,
		"feed":        p.Feed,
		"link":        p.Link,
		"description": p.Description,
		"summary":     p.Summary,
		"slug":        p.Slug,
	}
}

type Release struct {
	Tag         string
	Prerelease  bool
	PublishedAt string
	AssetURLs   []string
}

type PublishedRelease struct {
	Name      string
	Tag       string
	Published time.Time
	URL       string
}

// StableReleases drops prereleases and shapes the rest for templates.
func StableReleases(releases []Release) ([]PublishedRelease, error) {
	out := make([]PublishedRelease, 0, len(releases))
	for _, r := range releases {
		if r.Prerelease {
			continue
		}
		published, err := time.Parse(releaseTimestamp, r.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("release %s: parse published_at: %w", r.Tag, err)
		}
		url := ""
		if len(r.AssetURLs) > 0 {
			url = r.AssetURLs[0]
		}
		out = append(out, PublishedRelease{
			Name:      strings.TrimLeft(r.Tag, "v"),
			Tag:       r.Tag,
			Published: published,
			URL:       url,
		})
	}
	return out, nil
}

func (r PublishedRelease) Map() map[string]any {
	return map[string]any{
		"name":      r.Name,
		"tag":       r.Tag,
		"published": r.Published,
		"url":       r.URL,
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asStringSlice(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

// Strings exposes the permissive list decoding used for config sections.
func Strings(v any) []string {
	return asStringSlice(v)
}

func Int(v any, fallback int) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return fallback
	}
}

func String(v any) string {
	return asString(v)
}
