package out

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	renderout "suerga/internal/modules/render/port/out"
)

// Pongo2Engine renders jinja-style templates; {% extends %} resolves against the templates path.
type Pongo2Engine struct {
	mu   sync.Mutex
	sets map[string]*pongo2.TemplateSet
}

func NewPongo2Engine() renderout.TemplateEngine {
	return &Pongo2Engine{sets: map[string]*pongo2.TemplateSet{}}
}

func (e *Pongo2Engine) Render(templatesPath, source string, vars map[string]any) ([]byte, error) {
	set, err := e.set(templatesPath)
	if err != nil {
		return nil, err
	}
	tpl, err := set.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context(vars))
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

func (e *Pongo2Engine) set(templatesPath string) (*pongo2.TemplateSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if set, ok := e.sets[templatesPath]; ok {
		return set, nil
	}
	loader, err := pongo2.NewLocalFileSystemLoader(templatesPath)
	if err != nil {
		return nil, fmt.Errorf("templates path %s: %w", templatesPath, err)
	}
	set := pongo2.NewSet("site:"+templatesPath, loader)
	e.sets[templatesPath] = set
	return set, nil
}
