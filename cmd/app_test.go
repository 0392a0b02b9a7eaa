package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/config"
	"leadscout/internal/model"
	"leadscout/internal/scan"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	off := false
	cfg := config.Config{
		Storage: config.StorageConfig{Driver: "memory"},
		Scan:    config.ScanConfig{Dedupe: &off},
	}
	cfg.FillDefaults()
	return cfg
}

func TestBuildAdaptersRegistersEveryPlatform(t *testing.T) {
	cfg := memoryConfig(t)
	adapters, err := buildAdapters(cfg.Sources, nil)
	require.NoError(t, err)

	got := make([]model.Platform, 0, len(adapters))
	for _, a := range adapters {
		got = append(got, a.Platform())
	}
	assert.Equal(t, model.Platforms, got)
}

func TestBuildAdaptersRejectsBadDelay(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Sources.Twitter.Delay = "later"
	_, err := buildAdapters(cfg.Sources, nil)
	assert.ErrorContains(t, err, "sources.twitter.delay")
}

func TestLoadRules(t *testing.T) {
	rules, err := loadRules("")
	require.NoError(t, err)
	assert.NotNil(t, rules)

	_, err = loadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildGeneratorWithoutKey(t *testing.T) {
	gen, err := buildGenerator(config.OpenAIConfig{})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = buildGenerator(config.OpenAIConfig{APIKey: "k", Model: "gpt-3.5-turbo", Timeout: "5s"})
	require.NoError(t, err)
	assert.NotNil(t, gen)
}

func TestNewAppWithMemoryStore(t *testing.T) {
	a, err := newApp(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.rdb)
	assert.Nil(t, a.pub)
	assert.NotNil(t, a.scanner)
	assert.NotNil(t, a.chat)
}

func TestPrintScan(t *testing.T) {
	res := scan.Result{
		Mode:         scan.ModeQuick,
		PerSource:    map[string]int{"reddit": 2, "hackernews": 0},
		Failed:       map[string]string{"hackernews": "timeout"},
		Total:        2,
		HighPriority: 1,
		Duration:     1500 * time.Millisecond,
		Signals: []model.Signal{
			{ID: 7, Platform: model.PlatformReddit, Priority: model.PriorityHigh, URL: "https://reddit.com/r/x/1"},
			{ID: 8, Platform: model.PlatformReddit, Priority: model.PriorityMedium, URL: "https://reddit.com/r/x/2"},
		},
	}
	var buf bytes.Buffer
	printScan(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "quick scan finished in 1.5s")
	assert.Contains(t, out, "hackernews   0 (failed: timeout)")
	assert.Contains(t, out, "total 2, high priority 1, duplicates 0")
	assert.Contains(t, out, "[HIGH] #7 Reddit")
	assert.NotContains(t, out, "#8")
}
