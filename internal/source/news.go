package source

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"leadscout/internal/hackernews"
	"leadscout/internal/model"
	"leadscout/internal/relevance"
)

// NewsConfig tunes the Hacker News adapter.
type NewsConfig struct {
	TopN      int
	BatchSize int
	Delay     time.Duration
}

// News scans the current top stories of Hacker News in small batches.
type News struct {
	client  *hackernews.Client
	cfg     NewsConfig
	profile relevance.Profile
	pace    pacer
	logger  *slog.Logger
	now     func() time.Time
}

func NewNews(client *hackernews.Client, cfg NewsConfig, logger *slog.Logger) *News {
	if cfg.TopN <= 0 {
		cfg.TopN = 50
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	return &News{
		client:  client,
		cfg:     cfg,
		profile: relevance.News(),
		pace:    newPacer(cfg.Delay),
		logger:  loggerOr(logger).With("source", model.PlatformHackerNews.Key()),
		now:     time.Now,
	}
}

func (n *News) Platform() model.Platform { return model.PlatformHackerNews }

// Fetch loads the top story index then resolves items batch by batch.
// Items that fail to load are skipped; only a failed index is an error.
func (n *News) Fetch(ctx context.Context) ([]model.Signal, error) {
	ids, err := n.client.TopStoryIDs(ctx, n.cfg.TopN)
	if err != nil {
		return nil, &FetchError{Platform: model.PlatformHackerNews, Op: "topstories", Err: err}
	}
	out := newCollector()
	for start := 0; start < len(ids); start += n.cfg.BatchSize {
		end := min(start+n.cfg.BatchSize, len(ids))
		if err := n.pace.wait(ctx); err != nil {
			return out.stop(n.logger, err)
		}
		items := n.client.ItemsByIDs(ctx, ids[start:end], func(id int, err error) {
			n.logger.Warn("news: item fetch failed", "id", id, "err", err)
		})
		for _, it := range items {
			if !it.IsStory() {
				continue
			}
			if s, ok := Evaluate(n.profile, itemRaw(it), n.now()); ok {
				out.add(s)
			}
		}
	}
	n.logger.Info("news: fetch done", "stories", len(ids), "signals", len(out.signals))
	return out.result(), nil
}

// Search queries the Algolia index for up to three terms.
func (n *News) Search(ctx context.Context, terms []string) ([]model.Signal, error) {
	if len(terms) > 3 {
		terms = terms[:3]
	}
	out := newCollector()
	for _, term := range terms {
		if err := n.pace.wait(ctx); err != nil {
			return out.stop(n.logger, err)
		}
		hits, err := n.client.SearchStories(ctx, term, 10)
		if err != nil {
			n.logger.Warn("news: search failed", "term", term, "err", err)
			continue
		}
		for _, h := range hits {
			if s, ok := Evaluate(n.profile, hitRaw(h), n.now()); ok {
				out.add(s)
			}
		}
	}
	return out.result(), nil
}

func itemRaw(it hackernews.Item) Raw {
	return Raw{
		Platform:   model.PlatformHackerNews,
		ExternalID: strconv.Itoa(it.ID),
		Title:      it.Title,
		Body:       it.PlainText(),
		URL:        it.Link(),
		Author:     it.By,
		Score:      it.Score,
		Comments:   it.Descendants,
		CreatedAt:  time.Unix(it.Time, 0),
	}
}

func hitRaw(h hackernews.Hit) Raw {
	return Raw{
		Platform:   model.PlatformHackerNews,
		ExternalID: h.ObjectID,
		Title:      h.Title,
		Body:       h.StoryText,
		URL:        h.Link(),
		Author:     h.Author,
		Score:      h.Points,
		Comments:   h.NumComments,
		CreatedAt:  h.Created(),
	}
}
