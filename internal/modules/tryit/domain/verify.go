package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var repoLiteral = regexp.MustCompile(`repo\s*:\s*['"]([^'"]*)['"]`)

type PendingItem struct {
	Label   string
	HasLink bool
}

// RenderedPage is what a built page exposes to the browser.
type RenderedPage struct {
	CodeBlocks    []string
	ScriptSources []string
	WidgetRepos   []string
	PendingLists  int
	PendingItems  []PendingItem
}

type Check struct {
	Name    string
	OK      bool
	Details string
}

type Report struct {
	Page   string
	Checks []Check
}

func (r Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return len(r.Checks) > 0
}

// ParseWidgetCall pulls the configuration object out of an inline script.
func ParseWidgetCall(script string) (WidgetConfig, bool) {
	start := strings.Index(script, WidgetConstructor)
	if start < 0 {
		return WidgetConfig{}, false
	}
	rest := script[start+len(WidgetConstructor):]
	end := strings.LastIndex(rest, ")")
	if end < 0 {
		return WidgetConfig{}, false
	}
	arg := strings.TrimSpace(rest[:end])

	var cfg WidgetConfig
	if err := json.Unmarshal([]byte(arg), &cfg); err == nil {
		return cfg, true
	}
	if m := repoLiteral.FindStringSubmatch(arg); m != nil {
		return WidgetConfig{Repo: m[1]}, true
	}
	return WidgetConfig{}, true
}

func Verify(page Page, rendered RenderedPage, baseURL string) Report {
	return Report{Checks: []Check{
		checkCodeSample(page, rendered),
		checkWidget(page, rendered),
		checkPending(page, rendered),
		checkScript(page, rendered, baseURL),
	}}
}

func checkCodeSample(page Page, rendered RenderedPage) Check {
	c := Check{Name: "code-sample"}
	switch {
	case len(rendered.CodeBlocks) != 1:
		c.Details = fmt.Sprintf("expected exactly one executable block, found %d", len(rendered.CodeBlocks))
	case rendered.CodeBlocks[0] != page.Code():
		c.Details = fmt.Sprintf("code block differs from the configured sample: %q", rendered.CodeBlocks[0])
	default:
		c.OK = true
		c.Details = fmt.Sprintf("%d lines", len(page.CodeSample))
	}
	return c
}

func checkWidget(page Page, rendered RenderedPage) Check {
	c := Check{Name: "widget-config"}
	want := page.Widget.Config.Repo
	switch {
	case len(rendered.WidgetRepos) != 1:
		c.Details = fmt.Sprintf("expected exactly one widget call, found %d", len(rendered.WidgetRepos))
	case strings.TrimSpace(rendered.WidgetRepos[0]) == "":
		c.Details = "widget repo is empty"
	case rendered.WidgetRepos[0] != want:
		c.Details = fmt.Sprintf("widget repo %q, want %q", rendered.WidgetRepos[0], want)
	default:
		c.OK = true
		c.Details = "repo=" + want
	}
	return c
}

func checkPending(page Page, rendered RenderedPage) Check {
	c := Check{Name: "pending-list"}
	if rendered.PendingLists != 1 {
		c.Details = fmt.Sprintf("expected one pending list, found %d", rendered.PendingLists)
		return c
	}
	if len(rendered.PendingItems) != len(page.Placeholders) {
		c.Details = fmt.Sprintf("expected %d items, found %d", len(page.Placeholders), len(rendered.PendingItems))
		return c
	}
	for i, item := range rendered.PendingItems {
		want := page.Placeholders[i]
		if item.Label != want.Label {
			c.Details = fmt.Sprintf("item %d is %q, want %q", i+1, item.Label, want.Label)
			return c
		}
		if item.HasLink != (want.URL != "") {
			c.Details = fmt.Sprintf("item %d link state is %t, want %t", i+1, item.HasLink, want.URL != "")
			return c
		}
	}
	c.OK = true
	c.Details = fmt.Sprintf("%d items", len(rendered.PendingItems))
	return c
}

func checkScript(page Page, rendered RenderedPage, baseURL string) Check {
	c := Check{Name: "script-url"}
	want, err := ResolveScriptURL(baseURL, page.Widget.ScriptPath)
	if err != nil {
		c.Details = err.Error()
		return c
	}
	found := 0
	for _, src := range rendered.ScriptSources {
		if ContainsTemplateMarker(src) {
			c.Details = fmt.Sprintf("script src %q has unresolved template markers", src)
			return c
		}
		if src == want {
			found++
		}
	}
	if found != 1 {
		c.Details = fmt.Sprintf("expected one script with src %q, found %d", want, found)
		return c
	}
	c.OK = true
	c.Details = want
	return c
}
