package out

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"suerga/internal/modules/tryit/domain"
	tryout "suerga/internal/modules/tryit/port/out"
)

type HTMLInspector struct{}

func NewHTMLInspector() tryout.RenderedPageReader {
	return HTMLInspector{}
}

func (h HTMLInspector) Read(_ context.Context, targetPath, pageRel string) (domain.RenderedPage, error) {
	f, err := os.Open(filepath.Join(targetPath, filepath.FromSlash(pageRel)))
	if err != nil {
		return domain.RenderedPage{}, fmt.Errorf("open rendered page: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Inspect(f)
}

// Inspect walks a rendered document and collects what the widget and reader will see.
func Inspect(r io.Reader) (domain.RenderedPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.RenderedPage{}, fmt.Errorf("parse html: %w", err)
	}
	var page domain.RenderedPage
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Pre:
				if hasAttr(n, domain.ExecutableAttr) {
					// The parser already drops the newline that follows <pre>.
					page.CodeBlocks = append(page.CodeBlocks, strings.TrimSuffix(textOf(n), "\n"))
				}
			case atom.Script:
				if src, ok := attr(n, "src"); ok {
					page.ScriptSources = append(page.ScriptSources, src)
				} else if cfg, found := domain.ParseWidgetCall(textOf(n)); found {
					page.WidgetRepos = append(page.WidgetRepos, cfg.Repo)
				}
			case atom.Ul, atom.Ol:
				if hasAttr(n, domain.PendingAttr) {
					page.PendingLists++
					page.PendingItems = append(page.PendingItems, pendingItems(n)...)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

func pendingItems(list *html.Node) []domain.PendingItem {
	var items []domain.PendingItem
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		items = append(items, domain.PendingItem{
			Label:   strings.TrimSpace(textOf(c)),
			HasLink: containsElement(c, atom.A),
		})
	}
	return items
}

func containsElement(n *html.Node, a atom.Atom) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return true
		}
		if containsElement(c, a) {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}
