// Package markdown reads markdown files with YAML frontmatter.
package markdown

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a markdown file split into frontmatter and body.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// String returns a frontmatter value formatted as text, or "" when absent.
func (d Document) String(key string) string {
	v, ok := d.Frontmatter[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ParseFile reads path and splits off frontmatter delimited by "---" lines.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse splits r into frontmatter and body. Input without a leading "---"
// line is all body.
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	doc := Document{Frontmatter: map[string]any{}}

	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	if strings.TrimSpace(first) != "---" {
		rest, err := io.ReadAll(br)
		if err != nil {
			return Document{}, err
		}
		doc.Body = first + string(rest)
		return doc, nil
	}

	var fm strings.Builder
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		if strings.TrimSpace(line) == "---" {
			break
		}
		fm.WriteString(line)
		if errors.Is(err, io.EOF) {
			break
		}
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return Document{}, err
	}
	doc.Body = string(rest)
	if err := yaml.Unmarshal([]byte(fm.String()), &doc.Frontmatter); err != nil {
		return Document{}, fmt.Errorf("markdown: frontmatter: %w", err)
	}
	if doc.Frontmatter == nil {
		doc.Frontmatter = map[string]any{}
	}
	return doc, nil
}
