package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"suerga/internal/modules/tryit/domain"
)

func TestParseWidgetCall(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		script string
		want   domain.WidgetConfig
		found  bool
	}{
		{"json", `new Juniper({"repo":"datapythonista/pandas-web"})`, domain.WidgetConfig{Repo: "datapythonista/pandas-web"}, true},
		{"js literal", `new Juniper({ repo: 'datapythonista/pandas-web' })`, domain.WidgetConfig{Repo: "datapythonista/pandas-web"}, true},
		{"branch", `new Juniper({"repo":"a/b","branch":"main"});`, domain.WidgetConfig{Repo: "a/b", Branch: "main"}, true},
		{"no repo", `new Juniper({})`, domain.WidgetConfig{}, true},
		{"other script", `console.log("hi")`, domain.WidgetConfig{}, false},
	}
	for _, tc := range cases {
		got, found := domain.ParseWidgetCall(tc.script)
		if found != tc.found {
			t.Fatalf("%s: found=%t want %t", tc.name, found, tc.found)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: config mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func renderedFor(page domain.Page, baseURL string) domain.RenderedPage {
	items := make([]domain.PendingItem, 0, len(page.Placeholders))
	for _, p := range page.Placeholders {
		items = append(items, domain.PendingItem{Label: p.Label, HasLink: p.URL != ""})
	}
	src, _ := domain.ResolveScriptURL(baseURL, page.Widget.ScriptPath)
	return domain.RenderedPage{
		CodeBlocks:    []string{page.Code()},
		ScriptSources: []string{baseURL + "/static/js/jquery.min.js", src},
		WidgetRepos:   []string{page.Widget.Config.Repo},
		PendingLists:  1,
		PendingItems:  items,
	}
}

func TestVerifyPassesForFaithfulRendering(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()
	report := domain.Verify(page, renderedFor(page, "https://pandas.io"), "https://pandas.io")
	if !report.OK() {
		t.Fatalf("expected all checks to pass: %+v", report.Checks)
	}
	names := make([]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"code-sample", "widget-config", "pending-list", "script-url"}, names); diff != "" {
		t.Fatalf("unexpected checks (-want +got):\n%s", diff)
	}
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()
	page := domain.DefaultPage()

	mutate := func(fn func(*domain.RenderedPage)) domain.Report {
		r := renderedFor(page, "")
		fn(&r)
		return domain.Verify(page, r, "")
	}
	failed := func(report domain.Report) string {
		for _, c := range report.Checks {
			if !c.OK {
				return c.Name
			}
		}
		return ""
	}

	cases := map[string]func(*domain.RenderedPage){
		"code-sample":   func(r *domain.RenderedPage) { r.CodeBlocks = append(r.CodeBlocks, "extra") },
		"widget-config": func(r *domain.RenderedPage) { r.WidgetRepos = []string{"someone/else"} },
		"pending-list":  func(r *domain.RenderedPage) { r.PendingItems[1].HasLink = true },
		"script-url":    func(r *domain.RenderedPage) { r.ScriptSources = []string{"{{ base_url }}/static/js/juniper.min.js"} },
	}
	for want, fn := range cases {
		report := mutate(fn)
		if report.OK() {
			t.Fatalf("%s: expected failure", want)
		}
		if got := failed(report); got != want {
			t.Fatalf("expected %s to fail first, got %s", want, got)
		}
	}

	empty := domain.Verify(page, domain.RenderedPage{}, "")
	if empty.OK() {
		t.Fatalf("an empty page must not pass")
	}
}
