package source

import (
	"context"
	"log/slog"
	"time"

	"leadscout/internal/model"
	"leadscout/internal/reddit"
	"leadscout/internal/relevance"
)

// ForumConfig tunes the Reddit adapter.
type ForumConfig struct {
	Subreddits []string
	Limit      int
	Delay      time.Duration
}

// Forum collects hot posts from a fixed set of subreddits.
type Forum struct {
	client  *reddit.Client
	cfg     ForumConfig
	profile relevance.Profile
	pace    pacer
	logger  *slog.Logger
	now     func() time.Time
}

func NewForum(client *reddit.Client, cfg ForumConfig, logger *slog.Logger) *Forum {
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = relevance.Subreddits
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 25
	}
	return &Forum{
		client:  client,
		cfg:     cfg,
		profile: relevance.Forum(),
		pace:    newPacer(cfg.Delay),
		logger:  loggerOr(logger).With("source", model.PlatformReddit.Key()),
		now:     time.Now,
	}
}

func (f *Forum) Platform() model.Platform { return model.PlatformReddit }

// Fetch reads the hot listing of every configured subreddit. A failing
// subreddit is logged and skipped.
func (f *Forum) Fetch(ctx context.Context) ([]model.Signal, error) {
	out := newCollector()
	for _, sub := range f.cfg.Subreddits {
		if err := f.pace.wait(ctx); err != nil {
			return out.stop(f.logger, err)
		}
		posts, err := f.client.Hot(ctx, sub, f.cfg.Limit)
		if err != nil {
			f.logger.Warn("forum: subreddit fetch failed", "subreddit", sub, "err", &FetchError{Platform: model.PlatformReddit, Op: "hot", Err: err})
			continue
		}
		for _, p := range posts {
			if s, ok := Evaluate(f.profile, f.raw(p), f.now()); ok {
				out.add(s)
			}
		}
	}
	f.logger.Info("forum: fetch done", "signals", len(out.signals))
	return out.result(), nil
}

// Search looks for terms inside the first three subreddits. Only text posts count.
func (f *Forum) Search(ctx context.Context, terms []string) ([]model.Signal, error) {
	out := newCollector()
	subs := f.cfg.Subreddits
	if len(subs) > 3 {
		subs = subs[:3]
	}
	if len(terms) > 2 {
		terms = terms[:2]
	}
	for _, sub := range subs {
		for _, term := range terms {
			if err := f.pace.wait(ctx); err != nil {
				return out.stop(f.logger, err)
			}
			posts, err := f.client.Search(ctx, sub, term, 10)
			if err != nil {
				f.logger.Warn("forum: search failed", "subreddit", sub, "term", term, "err", err)
				continue
			}
			for _, p := range posts {
				if p.Selftext == "" {
					continue
				}
				if s, ok := Evaluate(f.profile, f.raw(p), f.now()); ok {
					out.add(s)
				}
			}
		}
	}
	return out.result(), nil
}

func (f *Forum) raw(p reddit.Post) Raw {
	return Raw{
		Platform:   model.PlatformReddit,
		ExternalID: p.ID,
		Title:      p.Title,
		Body:       p.Selftext,
		URL:        p.Link(),
		Author:     p.Author,
		Subgroup:   p.Subreddit,
		Score:      p.Score,
		Comments:   p.NumComments,
		CreatedAt:  p.Created(),
	}
}
