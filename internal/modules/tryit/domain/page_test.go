package domain_test

import (
	"strings"
	"testing"

	"suerga/internal/modules/tryit/domain"
)

func TestDefaultPageIsValid(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()
	if err := page.Validate(); err != nil {
		t.Fatalf("default page should be valid: %v", err)
	}
	if page.Widget.Config.Repo != "datapythonista/pandas-web" {
		t.Fatalf("unexpected default repo %q", page.Widget.Config.Repo)
	}
	if len(page.Placeholders) != 3 {
		t.Fatalf("expected three placeholders, got %d", len(page.Placeholders))
	}
	for _, item := range page.Placeholders {
		if item.URL != "" {
			t.Fatalf("placeholder %q should not be linked yet", item.Label)
		}
	}
}

func TestPageValidate(t *testing.T) {
	t.Parallel()
	base := domain.DefaultPage()

	noTitle := base
	noTitle.Title = " "
	if err := noTitle.Validate(); err == nil {
		t.Fatalf("missing title should fail")
	}
	noCode := base
	noCode.CodeSample = nil
	if err := noCode.Validate(); err == nil {
		t.Fatalf("missing code sample should fail")
	}
	templated := base
	templated.CodeSample = []string{"x = '{{ secret }}'"}
	if err := templated.Validate(); err == nil {
		t.Fatalf("code with template opener should fail")
	}
	nested := base
	nested.CodeSample = []string{"d = {'a': {'b': 1}}"}
	if err := nested.Validate(); err != nil {
		t.Fatalf("closing braces alone are fine: %v", err)
	}
	noRepo := base
	noRepo.Widget.Config.Repo = ""
	if err := noRepo.Validate(); err == nil {
		t.Fatalf("empty repo should fail")
	}
	badRepo := base
	badRepo.Widget.Config.Repo = "pandas-web"
	if err := badRepo.Validate(); err == nil {
		t.Fatalf("repo without owner should fail")
	}
	relScript := base
	relScript.Widget.ScriptPath = "static/js/juniper.min.js"
	if err := relScript.Validate(); err == nil {
		t.Fatalf("relative script path should fail")
	}
}

func TestSourceIsDeterministicAndComplete(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()
	first, err := page.Source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	second, err := page.Source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if first != second {
		t.Fatalf("source must be byte-identical across calls")
	}
	for _, want := range []string{
		"# Try pandas online\n",
		"<pre data-executable>\nimport pandas\n",
		`<script src="{{ base_url }}/static/js/juniper.min.js"></script>`,
		`<script>new Juniper({"repo":"datapythonista/pandas-web"})</script>`,
		"<li>Forecasting the stock market</li>",
	} {
		if !strings.Contains(first, want) {
			t.Fatalf("source missing %q:\n%s", want, first)
		}
	}
	if strings.Count(first, "<pre data-executable>") != 1 {
		t.Fatalf("expected exactly one code block")
	}
	if strings.Contains(first, "<a ") {
		t.Fatalf("pending items must not be linked:\n%s", first)
	}
}

func TestSourceEscapesCodeAndLinksConfiguredPlaceholders(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()
	page.CodeSample = []string{"df[df.a < 3]"}
	page.Placeholders[0].URL = "https://mybinder.org/v2/gh/x/y"
	src, err := page.Source()
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if !strings.Contains(src, "df[df.a &lt; 3]") {
		t.Fatalf("code must be html-escaped:\n%s", src)
	}
	if !strings.Contains(src, `<li><a href="https://mybinder.org/v2/gh/x/y">`) {
		t.Fatalf("configured url should be linked:\n%s", src)
	}
}

func TestResolveScriptURL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		base, path, want string
	}{
		{"", "/static/js/juniper.min.js", "/static/js/juniper.min.js"},
		{"https://pandas.io/", "/static/js/juniper.min.js", "https://pandas.io/static/js/juniper.min.js"},
		{"/pandas-web", "static/js/juniper.min.js", "/pandas-web/static/js/juniper.min.js"},
	}
	for _, tc := range cases {
		got, err := domain.ResolveScriptURL(tc.base, tc.path)
		if err != nil {
			t.Fatalf("resolve %q %q: %v", tc.base, tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("resolve %q %q = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
	if _, err := domain.ResolveScriptURL("{{ base_url }}", "/static/js/juniper.min.js"); err == nil {
		t.Fatalf("unresolved marker should fail")
	}
	if _, err := domain.ResolveScriptURL("http://a b", "/x.js"); err == nil {
		t.Fatalf("whitespace should fail")
	}
}

func TestPageValidateRejectsTemplateOpenersInText(t *testing.T) {
	t.Parallel()
	cases := map[string]func(*domain.Page){
		"title":        func(p *domain.Page) { p.Title = "Try {{ project }}" },
		"intro":        func(p *domain.Page) { p.Intro = "{% if x %}" },
		"branch":       func(p *domain.Page) { p.Widget.Config.Branch = "{# main #}" },
		"heading":      func(p *domain.Page) { p.PendingHeading = "{{ heading }}" },
		"pending note": func(p *domain.Page) { p.PendingNote = "soon {% endif %}" },
		"label": func(p *domain.Page) {
			p.Placeholders = []domain.Placeholder{{Label: "{{ topic }}"}}
		},
		"url": func(p *domain.Page) {
			p.Placeholders = []domain.Placeholder{{Label: "Titanic", URL: "https://x/{{ id }}"}}
		},
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			page := domain.DefaultPage()
			mutate(&page)
			if err := page.Validate(); err == nil || !strings.Contains(err.Error(), "template tag") {
				t.Fatalf("expected template tag error, got %v", err)
			}
			if _, err := page.Source(); err == nil {
				t.Fatalf("source must refuse an invalid page")
			}
		})
	}
}
