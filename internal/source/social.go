package source

import (
	"context"
	"log/slog"
	"time"

	"leadscout/internal/linkedin"
	"leadscout/internal/model"
	"leadscout/internal/relevance"
	"leadscout/internal/twitter"
)

// LinkedInConfig tunes the LinkedIn adapter.
type LinkedInConfig struct {
	Pages    int
	PageSize int
	Delay    time.Duration
}

// LinkedIn reads the posts visible to the configured member token.
// A nil client disables the adapter.
type LinkedIn struct {
	client  *linkedin.Client
	cfg     LinkedInConfig
	profile relevance.Profile
	pace    pacer
	logger  *slog.Logger
	now     func() time.Time
}

func NewLinkedIn(client *linkedin.Client, cfg LinkedInConfig, logger *slog.Logger) *LinkedIn {
	if cfg.Pages <= 0 {
		cfg.Pages = 3
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &LinkedIn{
		client:  client,
		cfg:     cfg,
		profile: relevance.LinkedIn(),
		pace:    newPacer(cfg.Delay),
		logger:  loggerOr(logger).With("source", model.PlatformLinkedIn.Key()),
		now:     time.Now,
	}
}

func (l *LinkedIn) Platform() model.Platform { return model.PlatformLinkedIn }

// Fetch pages through the member's posts. Without a client it returns an empty result.
func (l *LinkedIn) Fetch(ctx context.Context) ([]model.Signal, error) {
	if l.client == nil {
		l.logger.Info("linkedin: access token not configured, skipping", "err", ErrSourceDisabled)
		return []model.Signal{}, nil
	}
	me, err := l.client.Me(ctx)
	if err != nil {
		return nil, &FetchError{Platform: model.PlatformLinkedIn, Op: "profile", Err: err}
	}
	out := newCollector()
	for page := 0; page < l.cfg.Pages; page++ {
		if err := l.pace.wait(ctx); err != nil {
			return out.stop(l.logger, err)
		}
		posts, err := l.client.PostsByAuthor(ctx, me, page*l.cfg.PageSize, l.cfg.PageSize)
		if err != nil {
			l.logger.Warn("linkedin: page fetch failed", "page", page, "err", err)
			continue
		}
		for _, p := range posts {
			if s, ok := Evaluate(l.profile, linkedinRaw(p), l.now()); ok {
				out.add(s)
			}
		}
		if len(posts) < l.cfg.PageSize {
			break
		}
	}
	l.logger.Info("linkedin: fetch done", "signals", len(out.signals))
	return out.result(), nil
}

func linkedinRaw(p linkedin.Post) Raw {
	return Raw{
		Platform:   model.PlatformLinkedIn,
		ExternalID: p.ID,
		Body:       p.Text(),
		URL:        p.Link(),
		Author:     p.AuthorName(),
		Score:      p.Likes(),
		Comments:   p.Comments(),
		CreatedAt:  p.CreatedAt(),
	}
}

// TwitterConfig tunes the Twitter adapter.
type TwitterConfig struct {
	Queries    []string
	MaxQueries int
	MaxResults int
	Delay      time.Duration
}

// Twitter runs a handful of recent-search queries. A nil client disables the adapter.
type Twitter struct {
	client  *twitter.Client
	cfg     TwitterConfig
	profile relevance.Profile
	pace    pacer
	logger  *slog.Logger
	now     func() time.Time
}

func NewTwitter(client *twitter.Client, cfg TwitterConfig, logger *slog.Logger) *Twitter {
	if len(cfg.Queries) == 0 {
		cfg.Queries = relevance.TwitterQueries
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = 4
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	return &Twitter{
		client:  client,
		cfg:     cfg,
		profile: relevance.Twitter(),
		pace:    newPacer(cfg.Delay),
		logger:  loggerOr(logger).With("source", model.PlatformTwitter.Key()),
		now:     time.Now,
	}
}

func (t *Twitter) Platform() model.Platform { return model.PlatformTwitter }

// Fetch runs the configured queries. A failing query is logged and skipped;
// a tweet matched by several queries is kept once.
func (t *Twitter) Fetch(ctx context.Context) ([]model.Signal, error) {
	if t.client == nil {
		t.logger.Info("twitter: bearer token not configured, skipping", "err", ErrSourceDisabled)
		return []model.Signal{}, nil
	}
	queries := t.cfg.Queries
	if len(queries) > t.cfg.MaxQueries {
		queries = queries[:t.cfg.MaxQueries]
	}
	return t.search(ctx, queries)
}

// Search runs ad-hoc queries through the same filter.
func (t *Twitter) Search(ctx context.Context, terms []string) ([]model.Signal, error) {
	if t.client == nil {
		return []model.Signal{}, nil
	}
	return t.search(ctx, terms)
}

func (t *Twitter) search(ctx context.Context, queries []string) ([]model.Signal, error) {
	out := newCollector()
	for _, q := range queries {
		if err := t.pace.wait(ctx); err != nil {
			return out.stop(t.logger, err)
		}
		tweets, err := t.client.SearchRecent(ctx, q, t.cfg.MaxResults)
		if err != nil {
			t.logger.Warn("twitter: query failed", "query", q, "err", &FetchError{Platform: model.PlatformTwitter, Op: "search", Err: err})
			continue
		}
		for _, tw := range tweets {
			if s, ok := Evaluate(t.profile, tweetRaw(tw), t.now()); ok {
				out.add(s)
			}
		}
	}
	t.logger.Info("twitter: fetch done", "queries", len(queries), "signals", len(out.signals))
	return out.result(), nil
}

func tweetRaw(tw twitter.Tweet) Raw {
	return Raw{
		Platform:   model.PlatformTwitter,
		ExternalID: tw.ID,
		Body:       tw.Text,
		URL:        tw.Link(),
		Author:     tw.Username(),
		Score:      tw.PublicMetrics.LikeCount,
		Comments:   tw.PublicMetrics.ReplyCount,
		Engagement: tw.Engagement(),
		Verified:   tw.Verified(),
		CreatedAt:  tw.CreatedAt,
	}
}
