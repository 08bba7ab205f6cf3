package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	renderout "suerga/internal/modules/render/adapter/out"
	"suerga/internal/modules/render/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFSSourceTreeSkipsStateDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "x")
	writeFile(t, filepath.Join(root, "static", "css", "site.css"), "x")
	writeFile(t, filepath.Join(root, ".suerga", "suerga.db"), "x")

	files, err := renderout.NewFSSourceTree().Files(context.Background(), root)
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if diff := cmp.Diff([]string{"index.html", "static/css/site.css"}, files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if _, err := renderout.NewFSSourceTree().Files(context.Background(), filepath.Join(root, "missing")); err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestGoldmarkConverterKeepsRawHTML(t *testing.T) {
	t.Parallel()
	src := "# Try pandas online\n\n<pre data-executable>\nimport pandas\n</pre>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := renderout.NewGoldmarkConverter().Convert([]byte(src))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	got := string(out)
	for _, want := range []string{`<h1 id="try-pandas-online">Try pandas online</h1>`, "<pre data-executable>\nimport pandas\n</pre>", "<table>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestPongo2EngineExtendsLayout(t *testing.T) {
	t.Parallel()
	templates := t.TempDir()
	writeFile(t, filepath.Join(templates, "layout.html"), `<html><head><title>{{ page.title }}</title></head><body>{% block body %}{% endblock %}<footer>{{ base_url }}</footer></body></html>`)

	engine := renderout.NewPongo2Engine()
	source := domain.WrapMarkdownBody(`<script src="{{ base_url }}/static/js/juniper.min.js"></script>`)
	vars := map[string]any{"base_url": "/docs", "page": map[string]any{"title": "Try"}}
	out, err := engine.Render(templates, source, vars)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<html><head><title>Try</title></head><body><script src="/docs/static/js/juniper.min.js"></script><footer>/docs</footer></body></html>`
	if string(out) != want {
		t.Fatalf("unexpected output\nwant: %s\ngot:  %s", want, out)
	}

	if _, err := engine.Render(templates, "{% if %}", vars); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSQLiteBuildIndexRecordReplacesOutputs(t *testing.T) {
	t.Parallel()
	index, err := renderout.NewSQLiteBuildIndex(filepath.Join(t.TempDir(), "suerga.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer func() { _ = index.Close() }()
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := domain.Build{ID: "b1", StartedAt: at, Outputs: []domain.Output{
		{Path: "index.html", Source: "index.html", Kind: domain.KindTemplate, SHA256: "aa", Size: 10},
		{Path: "old.html", Source: "old.md", Kind: domain.KindMarkdown, SHA256: "bb", Size: 20},
	}}
	if err := index.Record(ctx, first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	second := domain.Build{ID: "b2", StartedAt: at.Add(time.Hour), Outputs: []domain.Output{
		{Path: "index.html", Source: "index.html", Kind: domain.KindTemplate, SHA256: "cc", Size: 11},
	}}
	if err := index.Record(ctx, second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	digests, err := index.Digests(ctx)
	if err != nil {
		t.Fatalf("digests: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"index.html": "cc"}, digests); diff != "" {
		t.Fatalf("digests mismatch (-want +got):\n%s", diff)
	}
	entries, err := index.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || entries[0].BuildID != "b2" || !entries[0].BuiltAt.Equal(at.Add(time.Hour)) {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
