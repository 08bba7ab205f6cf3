package out

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"suerga/internal/modules/site/domain"
	siteout "suerga/internal/modules/site/port/out"
)

type GoFeedFetcher struct {
	client *http.Client
}

func NewGoFeedFetcher(client *http.Client) siteout.FeedFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoFeedFetcher{client: client}
}

func (f *GoFeedFetcher) Fetch(ctx context.Context, url string) (domain.Feed, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client
	parsed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("parse feed: %w", err)
	}
	feed := domain.Feed{Title: parsed.Title}
	for _, item := range parsed.Items {
		feed.Entries = append(feed.Entries, domain.FeedEntry{
			Title:       item.Title,
			Author:      authorOf(item),
			Link:        item.Link,
			Description: item.Description,
			Published:   publishedOf(item),
		})
	}
	return feed, nil
}

func authorOf(item *gofeed.Item) string {
	names := make([]string, 0, len(item.Authors))
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func publishedOf(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}
