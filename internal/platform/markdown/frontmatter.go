package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// SplitFrontmatter separates a leading YAML block delimited by "---" lines from the page body.
// Pages without a block come back unchanged with empty metadata.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	text := strings.TrimPrefix(content, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	first, rest, ok := strings.Cut(text, "\n")
	if !ok || strings.TrimRight(first, " \t") != fence {
		return map[string]any{}, content, nil
	}

	var raw strings.Builder
	for {
		line, tail, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t") == fence {
			meta, err := decode(raw.String())
			if err != nil {
				return nil, "", err
			}
			if !more {
				tail = ""
			}
			return meta, tail, nil
		}
		if !more {
			return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
		}
		raw.WriteString(line)
		raw.WriteByte('\n')
		rest = tail
	}
}

func decode(raw string) (map[string]any, error) {
	meta := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return meta, nil
	}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, nil
}

// RenderFrontmatter is the inverse of SplitFrontmatter. Keys are emitted sorted so the output is stable.
func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	var b strings.Builder
	b.WriteString(fence + "\n")
	if len(meta) > 0 {
		raw, err := yaml.Marshal(meta)
		if err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
		b.Write(raw)
	}
	b.WriteString(fence + "\n")
	if !strings.HasPrefix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(body)
	return b.String(), nil
}
