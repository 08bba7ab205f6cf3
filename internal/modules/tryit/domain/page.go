package domain

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
)

const (
	PageFile          = "try.md"
	RenderedFile      = "try.html"
	DefaultScriptPath = "/static/js/juniper.min.js"
	DefaultRepo       = "datapythonista/pandas-web"
	BaseURLMarker     = "{{ base_url }}"
	PendingAttr       = "data-pending"
	ExecutableAttr    = "data-executable"
	WidgetConstructor = "new Juniper("
)

var (
	repoPattern     = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	templateOpeners = []string{"{{", "{%", "{#"}
	templateMarkers = append([]string{"}}", "%}", "#}"}, templateOpeners...)
)

type WidgetConfig struct {
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

type Widget struct {
	ScriptPath string
	Config     WidgetConfig
}

type Placeholder struct {
	Label string
	URL   string
}

// Page is the "try it online" page: a code sample handed to the widget plus a list of pending topics.
type Page struct {
	Title          string
	Intro          string
	CodeSample     []string
	Widget         Widget
	PendingHeading string
	PendingIntro   string
	Placeholders   []Placeholder
	PendingNote    string
}

func DefaultPage() Page {
	return Page{
		Title: "Try pandas online",
		Intro: "Run the code below in your browser. It executes on a remote notebook kernel.",
		CodeSample: []string{
			"import pandas",
			"fibonacci = pandas.Series([1, 1, 2, 3, 5, 8, 13])",
			"fibonacci.sum()",
		},
		Widget: Widget{
			ScriptPath: DefaultScriptPath,
			Config:     WidgetConfig{Repo: DefaultRepo},
		},
		PendingHeading: "Interactive tutorials",
		PendingIntro:   "You can also try pandas on Binder for one of the next topics:",
		Placeholders: []Placeholder{
			{Label: "Exploratory analysis of US presidents"},
			{Label: "Preprocessing the Titanic dataset to train a machine learning model"},
			{Label: "Forecasting the stock market"},
		},
		PendingNote: "links will be added soon",
	}
}

func (c WidgetConfig) Validate() error {
	repo := strings.TrimSpace(c.Repo)
	if repo == "" {
		return fmt.Errorf("widget repo is required")
	}
	if !repoPattern.MatchString(repo) {
		return fmt.Errorf("widget repo %q must look like owner/name", c.Repo)
	}
	return nil
}

// JSON serializes the configuration object passed to the widget constructor.
func (c WidgetConfig) JSON() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal widget config: %w", err)
	}
	return string(raw), nil
}

func (p Page) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(p.CodeSample) == 0 {
		return fmt.Errorf("code sample is required")
	}
	for i, line := range p.CodeSample {
		if containsAny(line, templateOpeners) {
			return fmt.Errorf("code line %d opens a template tag", i+1)
		}
		if strings.Contains(strings.ToLower(line), "</pre") {
			return fmt.Errorf("code line %d closes the code block", i+1)
		}
	}
	if err := p.Widget.Config.Validate(); err != nil {
		return err
	}
	if !strings.HasPrefix(p.Widget.ScriptPath, "/") {
		return fmt.Errorf("widget script path must be absolute, got %q", p.Widget.ScriptPath)
	}
	for i, item := range p.Placeholders {
		if strings.TrimSpace(item.Label) == "" {
			return fmt.Errorf("placeholder %d has an empty label", i+1)
		}
	}
	return p.validateText()
}

// validateText rejects template openers in every field that ends up in the page source.
func (p Page) validateText() error {
	fields := []struct{ name, value string }{
		{"title", p.Title},
		{"intro", p.Intro},
		{"script path", p.Widget.ScriptPath},
		{"widget branch", p.Widget.Config.Branch},
		{"widget theme", p.Widget.Config.Theme},
		{"pending heading", p.PendingHeading},
		{"pending intro", p.PendingIntro},
		{"pending note", p.PendingNote},
	}
	for i, item := range p.Placeholders {
		fields = append(fields,
			struct{ name, value string }{fmt.Sprintf("placeholder %d label", i+1), item.Label},
			struct{ name, value string }{fmt.Sprintf("placeholder %d url", i+1), item.URL},
		)
	}
	for _, f := range fields {
		if containsAny(f.value, templateOpeners) {
			return fmt.Errorf("%s opens a template tag", f.name)
		}
	}
	return nil
}

// Code is the sample as the widget sees it.
func (p Page) Code() string {
	return strings.Join(p.CodeSample, "\n")
}

// Source renders the markdown body of the page. The base URL marker is left for the site template engine.
func (p Page) Source() (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	config, err := p.Widget.Config.JSON()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("# " + p.Title + "\n\n")
	if intro := strings.TrimSpace(p.Intro); intro != "" {
		sb.WriteString(intro + "\n\n")
	}

	sb.WriteString("<pre " + ExecutableAttr + ">\n")
	for _, line := range p.CodeSample {
		sb.WriteString(html.EscapeString(line) + "\n")
	}
	sb.WriteString("</pre>\n\n")
	sb.WriteString(`<script src="` + BaseURLMarker + p.Widget.ScriptPath + `"></script>` + "\n\n")
	sb.WriteString("<script>" + WidgetConstructor + config + ")</script>\n")

	if len(p.Placeholders) > 0 {
		sb.WriteString("\n")
		if heading := strings.TrimSpace(p.PendingHeading); heading != "" {
			sb.WriteString("## " + heading + "\n\n")
		}
		if intro := strings.TrimSpace(p.PendingIntro); intro != "" {
			sb.WriteString(intro + "\n\n")
		}
		sb.WriteString("<ul " + PendingAttr + ">\n")
		for _, item := range p.Placeholders {
			label := html.EscapeString(item.Label)
			if item.URL == "" {
				sb.WriteString("<li>" + label + "</li>\n")
				continue
			}
			sb.WriteString(`<li><a href="` + html.EscapeString(item.URL) + `">` + label + "</a></li>\n")
		}
		sb.WriteString("</ul>\n")
		if note := strings.TrimSpace(p.PendingNote); note != "" {
			sb.WriteString("\n_(" + note + ")_\n")
		}
	}
	return sb.String(), nil
}

func ContainsTemplateMarker(s string) bool {
	return containsAny(s, templateMarkers)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// ResolveScriptURL applies the base URL to the widget script path.
func ResolveScriptURL(baseURL, scriptPath string) (string, error) {
	resolved := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(scriptPath, "/")
	if ContainsTemplateMarker(resolved) {
		return "", fmt.Errorf("script url %q has unresolved template markers", resolved)
	}
	if strings.ContainsAny(resolved, " \t\r\n") {
		return "", fmt.Errorf("script url %q contains whitespace", resolved)
	}
	if _, err := url.Parse(resolved); err != nil {
		return "", fmt.Errorf("parse script url: %w", err)
	}
	return resolved, nil
}
