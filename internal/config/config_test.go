package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	assert.Equal(t, "info", c.App.LogLevel)
	assert.Equal(t, "redis", c.Storage.Driver)
	assert.Equal(t, "15m", c.Scan.Interval)
	assert.Equal(t, "02:00", c.Scan.DailyAt)
	assert.True(t, c.Scan.DedupeEnabled())
	assert.Equal(t, 50, c.Sources.HackerNews.TopN)
	assert.Equal(t, 5, c.Sources.HackerNews.BatchSize)
	assert.Equal(t, "2s", c.Sources.LinkedIn.Delay)
}

func TestFillDefaultsKeepsValues(t *testing.T) {
	off := false
	c := Config{Scan: ScanConfig{Interval: "1h", Dedupe: &off}, Storage: StorageConfig{Driver: "memory"}}
	c.FillDefaults()

	assert.Equal(t, "1h", c.Scan.Interval)
	assert.False(t, c.Scan.DedupeEnabled())
	assert.Equal(t, "memory", c.Storage.Driver)
}

func TestDurationAndClock(t *testing.T) {
	d, err := Duration("scan.interval", " 15m ")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	_, err = Duration("scan.interval", "soon")
	assert.ErrorContains(t, err, "scan.interval")

	h, m, err := ClockTime("scan.daily_at", "02:30")
	require.NoError(t, err)
	assert.Equal(t, 2, h)
	assert.Equal(t, 30, m)

	_, _, err = ClockTime("scan.daily_at", "25:00")
	assert.Error(t, err)
}
