package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Document is a markdown body with a YAML frontmatter header.
type Document struct {
	Meta map[string]any
	body strings.Builder
}

func NewDocument(meta map[string]any) *Document {
	return &Document{Meta: meta}
}

func (d *Document) Heading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if d.body.Len() > 0 {
		d.body.WriteString("\n")
	}
	d.body.WriteString(strings.Repeat("#", level) + " " + strings.TrimSpace(text) + "\n")
}

// Quote writes text as a blockquote, prefixing every line.
func (d *Document) Quote(text string) {
	d.body.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			d.body.WriteString(">\n")
			continue
		}
		d.body.WriteString("> " + line + "\n")
	}
}

func (d *Document) Paragraph(text string) {
	d.body.WriteString("\n" + strings.TrimSpace(text) + "\n")
}

func (d *Document) Render() (string, error) {
	return RenderFrontmatter(d.Meta, d.body.String())
}

func RenderFrontmatter(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// SplitFrontmatter separates the YAML header from the body.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, separator) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, rest[idx+len("\n"+separator):], nil
}
