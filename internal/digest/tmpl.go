// Package digest renders hot and warm leads into a markdown report.
package digest

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"time"
)

// Lead is one rendered entry.
type Lead struct {
	Title    string
	URL      string
	Platform string
	Author   string
	Persona  string
	Urgency  string
	Score    int
	Tier     string
	Action   string
	Timeline string
	Preview  string
	Created  string
}

type Data struct {
	Title    string
	Slug     string
	Datetime string
	Summary  string
	Total    int
	Hot      []Lead
	Warm     []Lead
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Parse(digestTpl))

func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExpandVars substitutes {.CurrentDate} (YYYY-MM-DD, UTC) in configured text.
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return strings.ReplaceAll(s, "{.CurrentDate}", now.UTC().Format("2006-01-02"))
}
