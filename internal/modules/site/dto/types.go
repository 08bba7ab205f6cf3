package dto

type BuildContextInput struct {
	BaseURL string
	Extra   map[string]any
}

type ContextOutput struct {
	Values        map[string]any
	TemplatesPath string
	Ignore        []string
}
