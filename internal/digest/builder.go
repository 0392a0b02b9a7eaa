package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leadscout/internal/leadscore"
	"leadscout/internal/markdown"
	"leadscout/internal/model"
	"leadscout/internal/opportunity"
	"leadscout/internal/storage"
)

const previewLen = 280

// Builder scores stored signals and writes the daily digest file.
type Builder struct {
	Store     storage.Store
	Engine    *leadscore.Engine
	OutputDir string
	Title     string // may contain {.CurrentDate}
	TopN      int
	Logger    *slog.Logger
	Now       func() time.Time
}

// Outcome describes one Build call.
type Outcome struct {
	Path    string
	Written bool
	Hot     int
	Warm    int
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

// Filename is "leads-YYYYMMDD.md" for the UTC day of t.
func Filename(t time.Time) string {
	return fmt.Sprintf("leads-%s.md", t.UTC().Format("20060102"))
}

// Build writes today's digest. An existing file for today whose frontmatter
// carries the same slug is left alone unless force is set.
func (b *Builder) Build(ctx context.Context, force bool) (Outcome, error) {
	now := b.now()
	name := Filename(now)
	slug := strings.TrimSuffix(name, ".md")
	path := filepath.Join(b.OutputDir, name)
	out := Outcome{Path: path}

	if !force {
		exists, err := published(path, slug)
		if err != nil {
			return out, err
		}
		if exists {
			b.logger().Info("digest: already written for today", "path", path)
			return out, nil
		}
	}

	signals, err := b.Store.ListAll(ctx, storage.DefaultLimit)
	if err != nil {
		return out, fmt.Errorf("digest: list signals: %w", err)
	}
	p := b.Engine.ScoreAll(ctx, signals)
	topN := b.TopN
	if topN <= 0 {
		topN = 20
	}
	hot := p.Hot[:min(len(p.Hot), topN)]
	warm := p.Warm[:min(len(p.Warm), max(topN-len(hot), 0))]
	out.Hot, out.Warm = len(hot), len(warm)

	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = "Lead Digest {.CurrentDate}"
	}
	d := Data{
		Title:    ExpandVars(title, now),
		Slug:     slug,
		Datetime: now.UTC().Format("2006-01-02 15:04"),
		Summary:  summary(p),
		Total:    len(p.All),
		Hot:      leads(hot),
		Warm:     leads(warm),
	}
	md, err := Render(d)
	if err != nil {
		return out, fmt.Errorf("digest: render: %w", err)
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return out, err
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return out, err
	}
	out.Written = true
	b.logger().Info("digest: written", "path", path, "hot", out.Hot, "warm", out.Warm)
	return out, nil
}

func published(path, slug string) (bool, error) {
	doc, err := markdown.ParseFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("digest: read existing %s: %w", path, err)
	}
	return doc.String("slug") == slug, nil
}

func summary(p leadscore.Partition) string {
	if len(p.All) == 0 {
		return "No signals were scored."
	}
	s := fmt.Sprintf("%d hot and %d warm leads out of %d scored signals.", len(p.Hot), len(p.Warm), len(p.All))
	if p.All[0].LeadScore > 0 {
		s += fmt.Sprintf(" Top lead: %q with %d points.", p.All[0].Title, p.All[0].LeadScore)
	}
	return s
}

func leads(in []model.ScoredLead) []Lead {
	out := make([]Lead, 0, len(in))
	for _, l := range in {
		tier := opportunity.Classify(l.LeadScore)
		preview := strings.Join(strings.Fields(l.Content), " ")
		if r := []rune(preview); len(r) > previewLen {
			preview = string(r[:previewLen]) + "..."
		}
		out = append(out, Lead{
			Title:    l.Title,
			URL:      l.URL,
			Platform: string(l.Platform),
			Author:   l.Author,
			Persona:  l.Persona,
			Urgency:  string(l.Urgency),
			Score:    l.LeadScore,
			Tier:     tier.Type,
			Action:   tier.Action,
			Timeline: tier.Timeline,
			Preview:  preview,
			Created:  l.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return out
}
