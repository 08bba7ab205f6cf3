package out

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	renderout "suerga/internal/modules/render/port/out"
)

type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter keeps raw HTML so hand-written widgets survive conversion.
func NewGoldmarkConverter() renderout.MarkdownConverter {
	return &GoldmarkConverter{md: goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

func (c *GoldmarkConverter) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
