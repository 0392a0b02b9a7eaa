package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"leadscout/internal/ai"
	"leadscout/internal/chat"
	"leadscout/internal/config"
	"leadscout/internal/hackernews"
	"leadscout/internal/leadscore"
	"leadscout/internal/linkedin"
	"leadscout/internal/publisher"
	"leadscout/internal/reddit"
	"leadscout/internal/redisclient"
	"leadscout/internal/scan"
	"leadscout/internal/source"
	"leadscout/internal/storage"
	"leadscout/internal/twitter"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	rdb      *redis.Client
	store    storage.Store
	pub      *publisher.RabbitMQ
	scanner  *scan.Orchestrator
	engine   *leadscore.Engine
	outreach *ai.Outreach
	chat     *chat.Router
}

func usesRedis(cfg config.Config) bool {
	d := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	return d == "" || d == "redis"
}

// newApp wires clients, adapters, storage and the scoring engine from cfg.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg, logger: slog.Default()}

	if usesRedis(cfg) {
		a.rdb = redisclient.New(cfg.Redis)
		if _, err := redisclient.Check(ctx, a.rdb, 5*time.Second); err != nil {
			a.Close()
			return nil, err
		}
	}
	store, err := storage.Open(ctx, cfg.Storage, a.rdb)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	adapters, err := buildAdapters(cfg.Sources, a.logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	scanTimeout, err := config.Duration("scan.timeout", cfg.Scan.Timeout)
	if err != nil {
		a.Close()
		return nil, err
	}
	opts := []scan.Option{scan.WithLogger(a.logger), scan.WithTimeout(scanTimeout)}
	if cfg.Scan.DedupeEnabled() {
		ttl, err := config.Duration("scan.dedupe_ttl", cfg.Scan.DedupeTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, scan.WithDeduper(storage.NewDeduper(a.rdb, ttl)))
	}
	if cfg.RabbitMQ.URL != "" {
		pub, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.Queue,
		}, a.logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.pub = pub
		opts = append(opts, scan.WithPublisher(pub))
	}
	a.scanner = scan.New(store, adapters, opts...)

	rules, err := loadRules(cfg.Scoring.RulesFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	var memo leadscore.Memo
	if a.rdb != nil {
		memo = leadscore.NewRedisMemo(a.rdb)
	}
	a.engine = leadscore.NewEngine(rules, memo, a.logger)

	gen, err := buildGenerator(cfg.OpenAI)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.outreach = ai.NewOutreach(gen, a.logger)
	a.chat = chat.NewRouter(a.scanner, store, a.engine, a.outreach.Generator(), a.logger)
	return a, nil
}

// Close releases connections. Safe on a partially built app.
func (a *app) Close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.logger.Warn("app: close publisher", "err", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("app: close store", "err", err)
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}

func buildAdapters(cfg config.DataSources, logger *slog.Logger) ([]source.Adapter, error) {
	rdDelay, err := config.Duration("sources.reddit.delay", cfg.Reddit.Delay)
	if err != nil {
		return nil, err
	}
	hnDelay, err := config.Duration("sources.hackernews.batch_delay", cfg.HackerNews.BatchDelay)
	if err != nil {
		return nil, err
	}
	liDelay, err := config.Duration("sources.linkedin.delay", cfg.LinkedIn.Delay)
	if err != nil {
		return nil, err
	}
	twDelay, err := config.Duration("sources.twitter.delay", cfg.Twitter.Delay)
	if err != nil {
		return nil, err
	}

	// social sources stay registered without credentials and report themselves disabled
	var lic *linkedin.Client
	if cfg.LinkedIn.AccessToken != "" {
		lic = linkedin.NewClient(cfg.LinkedIn.BaseURL, cfg.LinkedIn.AccessToken)
	}
	var twc *twitter.Client
	if cfg.Twitter.BearerToken != "" {
		twc = twitter.NewClient(cfg.Twitter.BaseURL, cfg.Twitter.BearerToken)
	}

	return []source.Adapter{
		source.NewForum(reddit.NewClient(cfg.Reddit.BaseURL, cfg.Reddit.UserAgent), source.ForumConfig{
			Subreddits: cfg.Reddit.Subreddits,
			Limit:      cfg.Reddit.Limit,
			Delay:      rdDelay,
		}, logger),
		source.NewNews(hackernews.NewClient(cfg.HackerNews.BaseAPI, cfg.HackerNews.AlgoliaAPI), source.NewsConfig{
			TopN:      cfg.HackerNews.TopN,
			BatchSize: cfg.HackerNews.BatchSize,
			Delay:     hnDelay,
		}, logger),
		source.NewLinkedIn(lic, source.LinkedInConfig{
			Pages:    cfg.LinkedIn.Pages,
			PageSize: cfg.LinkedIn.PageSize,
			Delay:    liDelay,
		}, logger),
		source.NewTwitter(twc, source.TwitterConfig{
			Queries:    cfg.Twitter.Queries,
			MaxQueries: cfg.Twitter.MaxQueries,
			MaxResults: cfg.Twitter.MaxResults,
			Delay:      twDelay,
		}, logger),
	}, nil
}

func loadRules(path string) (*leadscore.Rules, error) {
	if strings.TrimSpace(path) == "" {
		return leadscore.DefaultRules(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scoring rules: %w", err)
	}
	defer f.Close()
	return leadscore.LoadRules(f)
}

func buildGenerator(cfg config.OpenAIConfig) (ai.Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	timeout, err := config.Duration("openai.timeout", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return ai.NewOpenAI(ai.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Timeout: timeout}), nil
}

// withTimeout is the per-command deadline for one-shot commands.
func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
