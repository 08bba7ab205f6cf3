package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindTemplate Kind = "template"
	KindAsset    Kind = "asset"
)

// StateDir holds suerga's own bookkeeping inside a site source and is never published.
const StateDir = ".suerga"

const (
	LayoutTemplate = "layout.html"
	bodyBlock      = "body"
)

// Classify decides how a source file is turned into output.
func Classify(rel string) Kind {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md":
		return KindMarkdown
	case ".html":
		return KindTemplate
	default:
		return KindAsset
	}
}

// OutputPath maps a source-relative path to its target-relative path.
func OutputPath(rel string) string {
	if Classify(rel) == KindMarkdown {
		return strings.TrimSuffix(rel, path.Ext(rel)) + ".html"
	}
	return rel
}

// InStateDir reports whether rel points into the state directory.
func InStateDir(rel string) bool {
	return rel == StateDir || strings.HasPrefix(rel, StateDir+"/")
}

// WrapMarkdownBody places converted markdown into the body block of the site layout.
func WrapMarkdownBody(body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{%% extends %q %%}", LayoutTemplate)
	fmt.Fprintf(&b, "{%% block %s %%}", bodyBlock)
	b.WriteString(body)
	b.WriteString("{% endblock %}")
	return b.String()
}

type SourceFile struct {
	Rel  string
	Kind Kind
}

// Plan classifies the walked files, dropping ignored ones and the state directory.
func Plan(rels []string, ignored func(string) bool) (files []SourceFile, skipped []string) {
	sorted := append([]string(nil), rels...)
	sort.Strings(sorted)
	for _, rel := range sorted {
		if InStateDir(rel) {
			continue
		}
		if ignored != nil && ignored(rel) {
			skipped = append(skipped, rel)
			continue
		}
		files = append(files, SourceFile{Rel: rel, Kind: Classify(rel)})
	}
	return files, skipped
}

type Output struct {
	Path   string
	Source string
	Kind   Kind
	SHA256 string
	Size   int64
}

type Build struct {
	ID        string
	StartedAt time.Time
	Outputs   []Output
	Skipped   []string
	Changed   []string
	Unchanged int
	Removed   []string
}

// Compare fills the change summary against the digests of the previous build.
func (b *Build) Compare(previous map[string]string) {
	b.Changed = nil
	b.Unchanged = 0
	b.Removed = nil
	seen := make(map[string]struct{}, len(b.Outputs))
	for _, out := range b.Outputs {
		seen[out.Path] = struct{}{}
		if prev, ok := previous[out.Path]; ok && prev == out.SHA256 {
			b.Unchanged++
			continue
		}
		b.Changed = append(b.Changed, out.Path)
	}
	for p := range previous {
		if _, ok := seen[p]; !ok {
			b.Removed = append(b.Removed, p)
		}
	}
	sort.Strings(b.Changed)
	sort.Strings(b.Removed)
}

func (b Build) Pages() int {
	n := 0
	for _, out := range b.Outputs {
		if out.Kind != KindAsset {
			n++
		}
	}
	return n
}

// IndexEntry is one output as recorded by the build index.
type IndexEntry struct {
	Output
	BuildID string
	BuiltAt time.Time
}

// SiteContext is what rendering needs from the site configuration.
type SiteContext struct {
	Values        map[string]any
	TemplatesPath string
	Ignore        []string
}

// Ignored matches rel against the configured ignore list.
func (s SiteContext) Ignored(rel string) bool {
	rel = strings.TrimPrefix(rel, "./")
	for _, item := range s.Ignore {
		if strings.TrimPrefix(item, "./") == rel {
			return true
		}
	}
	return false
}

// PageVars returns the template variables for one page; the input map is left untouched.
func (s SiteContext) PageVars(meta map[string]any) map[string]any {
	vars := make(map[string]any, len(s.Values)+1)
	for k, v := range s.Values {
		vars[k] = v
	}
	if meta == nil {
		meta = map[string]any{}
	}
	vars["page"] = meta
	return vars
}
