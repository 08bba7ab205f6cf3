package out_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	tryout "suerga/internal/modules/tryit/adapter/out"
	"suerga/internal/modules/tryit/domain"
)

const renderedTry = `<!DOCTYPE html>
<html><head><script src="/pandas/static/js/jquery.min.js"></script></head>
<body>
<h1 id="try-pandas-online">Try pandas online</h1>
<pre data-executable>
import pandas
s = pandas.Series([1, 2])
s[s &lt; 2]
</pre>
<script src="/pandas/static/js/juniper.min.js"></script>
<script>new Juniper({"repo":"datapythonista/pandas-web"})</script>
<ul data-pending>
<li>Exploratory analysis of US presidents</li>
<li><a href="https://mybinder.org">Titanic</a></li>
</ul>
</body></html>`

func TestInspectCollectsWidgetParts(t *testing.T) {
	t.Parallel()
	got, err := tryout.Inspect(strings.NewReader(renderedTry))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	want := domain.RenderedPage{
		CodeBlocks:    []string{"import pandas\ns = pandas.Series([1, 2])\ns[s < 2]"},
		ScriptSources: []string{"/pandas/static/js/jquery.min.js", "/pandas/static/js/juniper.min.js"},
		WidgetRepos:   []string{"datapythonista/pandas-web"},
		PendingLists:  1,
		PendingItems: []domain.PendingItem{
			{Label: "Exploratory analysis of US presidents"},
			{Label: "Titanic", HasLink: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered page mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectIgnoresPlainCodeBlocks(t *testing.T) {
	t.Parallel()
	got, err := tryout.Inspect(strings.NewReader(`<pre><code>print(1)</code></pre>`))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(got.CodeBlocks) != 0 {
		t.Fatalf("plain code blocks are not executable: %+v", got.CodeBlocks)
	}
}

func TestInspectKeepsLeadingBlankCodeLine(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()
	page.CodeSample = append([]string{""}, page.CodeSample...)
	source, err := page.Source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	rendered, err := tryout.Inspect(strings.NewReader(source))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(rendered.CodeBlocks) != 1 || rendered.CodeBlocks[0] != page.Code() {
		t.Fatalf("code block = %q, want %q", rendered.CodeBlocks, page.Code())
	}
	if !strings.HasPrefix(rendered.CodeBlocks[0], "\nimport pandas") {
		t.Fatalf("leading blank line dropped: %q", rendered.CodeBlocks[0])
	}
}
