// Package source turns raw posts from the external platforms into Signals.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"leadscout/internal/model"
	"leadscout/internal/relevance"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Adapter collects relevant Signals from one platform.
// Fetch returns an empty slice, not an error, when the adapter is disabled.
type Adapter interface {
	Platform() model.Platform
	Fetch(ctx context.Context) ([]model.Signal, error)
}

// Searcher is implemented by adapters that can run a keyword search
// when their primary listing yields nothing.
type Searcher interface {
	Search(ctx context.Context, terms []string) ([]model.Signal, error)
}

// ErrSourceDisabled marks an adapter that lacks credentials.
var ErrSourceDisabled = errors.New("source disabled")

// FetchError wraps a failed upstream call with the platform and operation.
type FetchError struct {
	Platform model.Platform
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Platform.Key(), e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Raw is a platform-specific post flattened to the fields the normalizer needs.
type Raw struct {
	Platform   model.Platform
	ExternalID string
	Title      string
	Body       string
	URL        string
	Author     string
	Subgroup   string
	Score      int
	Comments   int
	// Engagement overrides Score+Comments when set (social networks).
	Engagement int
	Verified   bool
	CreatedAt  time.Time
}

func (r Raw) text() string {
	return strings.TrimSpace(r.Title + " " + r.Body)
}

func (r Raw) engagement() int {
	if r.Engagement > 0 {
		return r.Engagement
	}
	return r.Score + r.Comments
}

// Evaluate runs the platform profile over r and, when kept, returns the normalized Signal.
func Evaluate(p relevance.Profile, r Raw, now time.Time) (model.Signal, bool) {
	a := p.Assess(relevance.Input{
		Text:       r.text(),
		Score:      r.Score,
		Comments:   r.Comments,
		Engagement: r.engagement(),
		Verified:   r.Verified,
	})
	if !a.Keep {
		return model.Signal{}, false
	}
	return Normalize(r, a, now), true
}

// Normalize maps r onto the common Signal shape.
// Content falls back to the title, author to anonymous, and a missing title
// is derived from the first 100 characters of the body.
func Normalize(r Raw, a relevance.Assessment, now time.Time) model.Signal {
	title := strings.TrimSpace(r.Title)
	content := strings.TrimSpace(r.Body)
	if title == "" {
		title = snippet(content, 100)
	}
	if content == "" {
		content = title
	}
	author := strings.TrimSpace(r.Author)
	if author == "" || author == "[deleted]" {
		author = model.AnonymousAuthor
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = now
	}
	prio := a.Priority
	if prio == "" {
		prio = model.PriorityMedium
	}
	kws := a.Keywords
	if kws == nil {
		kws = []string{}
	}
	return model.Signal{
		Platform:        r.Platform,
		ExternalID:      r.ExternalID,
		Title:           title,
		Content:         content,
		URL:             r.URL,
		Author:          author,
		EngagementScore: r.Score,
		CommentCount:    r.Comments,
		Priority:        prio,
		Keywords:        kws,
		Subgroup:        r.Subgroup,
		Status:          model.StatusNew,
		CreatedAt:       created.UTC(),
		IngestedAt:      now.UTC(),
	}
}

func snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// pacer spaces successive upstream calls of one adapter. The first call is immediate.
type pacer struct {
	lim *rate.Limiter
}

func newPacer(delay time.Duration) pacer {
	if delay <= 0 {
		return pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return pacer{lim: rate.NewLimiter(rate.Every(delay), 1)}
}

func (p pacer) wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

// collector accumulates kept signals and drops repeats of the same post within one run.
type collector struct {
	seen    map[string]struct{}
	signals []model.Signal
}

func newCollector() *collector {
	return &collector{seen: make(map[string]struct{})}
}

func (c *collector) add(s model.Signal) {
	k := s.DedupKey()
	if _, ok := c.seen[k]; ok {
		return
	}
	c.seen[k] = struct{}{}
	c.signals = append(c.signals, s)
}

// stop ends a run cut short by err, usually the scan deadline. Signals
// collected so far are kept; err is only returned when there are none.
func (c *collector) stop(logger *slog.Logger, err error) ([]model.Signal, error) {
	if len(c.signals) == 0 {
		return nil, err
	}
	logger.Warn("source: run cut short, keeping partial results", "signals", len(c.signals), "err", err)
	return c.signals, nil
}

func (c *collector) result() []model.Signal {
	if c.signals == nil {
		return []model.Signal{}
	}
	return c.signals
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// FetchWithFallback runs a.Fetch and, when it yields nothing and a implements
// Searcher, runs the keyword search with terms instead.
func FetchWithFallback(ctx context.Context, a Adapter, terms []string) ([]model.Signal, error) {
	sigs, err := a.Fetch(ctx)
	if err != nil || len(sigs) > 0 {
		return sigs, err
	}
	s, ok := a.(Searcher)
	if !ok || len(terms) == 0 {
		return sigs, nil
	}
	return s.Search(ctx, terms)
}
