package config

import (
	"fmt"
	"strings"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`  // debug|info|warn|error
	LogFormat string `mapstructure:"log_format"` // text|json
	NodeID    int64  `mapstructure:"node_id"`    // snowflake node
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects the signal store backend.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // redis|postgres|sqlite|memory
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

// RedditConfig controls the discussion forum source.
type RedditConfig struct {
	BaseURL    string   `mapstructure:"base_url"`
	UserAgent  string   `mapstructure:"user_agent"`
	Subreddits []string `mapstructure:"subreddits"`
	Limit      int      `mapstructure:"limit"`
	Delay      string   `mapstructure:"delay"` // duration string between subreddits
}

// HackerNewsConfig controls the news aggregator source.
type HackerNewsConfig struct {
	BaseAPI    string `mapstructure:"base_api"`
	AlgoliaAPI string `mapstructure:"algolia_api"`
	TopN       int    `mapstructure:"top_n"`
	BatchSize  int    `mapstructure:"batch_size"`
	BatchDelay string `mapstructure:"batch_delay"`
}

// LinkedInConfig controls the B2B social source. An empty token disables it.
type LinkedInConfig struct {
	AccessToken string `mapstructure:"access_token"`
	BaseURL     string `mapstructure:"base_url"`
	Pages       int    `mapstructure:"pages"`
	PageSize    int    `mapstructure:"page_size"`
	Delay       string `mapstructure:"delay"`
}

// TwitterConfig controls the high-engagement social source. An empty token disables it.
type TwitterConfig struct {
	BearerToken string   `mapstructure:"bearer_token"`
	BaseURL     string   `mapstructure:"base_url"`
	Queries     []string `mapstructure:"queries"`
	MaxQueries  int      `mapstructure:"max_queries"`
	MaxResults  int      `mapstructure:"max_results"`
	Delay       string   `mapstructure:"delay"`
}

// DataSources groups the scanned platforms.
type DataSources struct {
	Reddit     RedditConfig     `mapstructure:"reddit"`
	HackerNews HackerNewsConfig `mapstructure:"hackernews"`
	LinkedIn   LinkedInConfig   `mapstructure:"linkedin"`
	Twitter    TwitterConfig    `mapstructure:"twitter"`
}

// OpenAIConfig configures the text generation collaborator. An empty key
// means every generation uses the rule-based fallback.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// ScanConfig controls scheduled scans and deduplication.
type ScanConfig struct {
	Interval  string `mapstructure:"interval"` // e.g. "15m"
	DailyAt   string `mapstructure:"daily_at"` // HH:MM local time
	Timeout   string `mapstructure:"timeout"`  // per scan
	Dedupe    *bool  `mapstructure:"dedupe"`
	DedupeTTL string `mapstructure:"dedupe_ttl"`
}

// DedupeEnabled defaults to true when unset.
func (s ScanConfig) DedupeEnabled() bool {
	return s.Dedupe == nil || *s.Dedupe
}

// HTTPConfig controls the API server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RabbitMQConfig controls signal event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	RoutingKey string `mapstructure:"routing_key"`
	Queue      string `mapstructure:"queue"` // optional durable queue bound to the routing key
}

// DigestConfig controls the markdown lead report.
type DigestConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	TopN      int    `mapstructure:"top_n"`
	Title     string `mapstructure:"title"`
}

// ScoringConfig points at an optional rule table overriding the embedded one.
type ScoringConfig struct {
	RulesFile string `mapstructure:"rules_file"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Sources  DataSources    `mapstructure:"sources"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Scan     ScanConfig     `mapstructure:"scan"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Digest   DigestConfig   `mapstructure:"digest"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.App.NodeID == 0 {
		c.App.NodeID = 1
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "redis"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "./leadscout.db"
	}

	rd := &c.Sources.Reddit
	if rd.BaseURL == "" {
		rd.BaseURL = "https://www.reddit.com"
	}
	if rd.UserAgent == "" {
		rd.UserAgent = "LeadScout/1.0"
	}
	if rd.Limit == 0 {
		rd.Limit = 25
	}
	if rd.Delay == "" {
		rd.Delay = "1s"
	}

	hn := &c.Sources.HackerNews
	if hn.BaseAPI == "" {
		hn.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if hn.AlgoliaAPI == "" {
		hn.AlgoliaAPI = "https://hn.algolia.com/api/v1"
	}
	if hn.TopN == 0 {
		hn.TopN = 50
	}
	if hn.BatchSize == 0 {
		hn.BatchSize = 5
	}
	if hn.BatchDelay == "" {
		hn.BatchDelay = "100ms"
	}

	li := &c.Sources.LinkedIn
	if li.BaseURL == "" {
		li.BaseURL = "https://api.linkedin.com/v2"
	}
	if li.Pages == 0 {
		li.Pages = 3
	}
	if li.PageSize == 0 {
		li.PageSize = 20
	}
	if li.Delay == "" {
		li.Delay = "2s"
	}

	tw := &c.Sources.Twitter
	if tw.BaseURL == "" {
		tw.BaseURL = "https://api.twitter.com/2"
	}
	if tw.MaxQueries == 0 {
		tw.MaxQueries = 4
	}
	if tw.MaxResults == 0 {
		tw.MaxResults = 20
	}
	if tw.Delay == "" {
		tw.Delay = "1s"
	}

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.Timeout == "" {
		c.OpenAI.Timeout = "30s"
	}

	if c.Scan.Interval == "" {
		c.Scan.Interval = "15m"
	}
	if c.Scan.DailyAt == "" {
		c.Scan.DailyAt = "02:00"
	}
	if c.Scan.Timeout == "" {
		c.Scan.Timeout = "10m"
	}
	if c.Scan.DedupeTTL == "" {
		c.Scan.DedupeTTL = "168h"
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3001"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "leadscout.signals"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "signal.ingested"
	}
	if c.Digest.OutputDir == "" {
		c.Digest.OutputDir = "./out"
	}
	if c.Digest.TopN == 0 {
		c.Digest.TopN = 20
	}
	if c.Digest.Title == "" {
		c.Digest.Title = "Lead Digest"
	}
}

// Duration parses a duration setting, naming the key on failure.
func Duration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// ClockTime parses "HH:MM" into hour and minute.
func ClockTime(key, value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("config: invalid %s %q: %w", key, value, err)
	}
	return t.Hour(), t.Minute(), nil
}
