package digest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout/internal/leadscore"
	"leadscout/internal/markdown"
	"leadscout/internal/model"
	"leadscout/internal/storage"
)

func newBuilder(t *testing.T, signals ...model.Signal) *Builder {
	t.Helper()
	store := storage.NewMemoryStore()
	for i := range signals {
		_, err := store.Insert(context.Background(), &signals[i])
		require.NoError(t, err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Builder{
		Store:     store,
		Engine:    leadscore.NewEngine(nil, nil, logger),
		OutputDir: t.TempDir(),
		Title:     "Lead Digest {.CurrentDate}",
		TopN:      10,
		Logger:    logger,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC) },
	}
}

var hotSignal = model.Signal{
	Platform:  model.PlatformLinkedIn,
	Title:     `Switching off "CUDA"`,
	URL:       "https://example.com/post/1",
	Author:    "VP Engineering",
	Content:   "We love tinygrad's performance vs pytorch but the budget for NVIDIA H100s is too expensive for our startup",
	CreatedAt: time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC),
}

func TestBuildWritesDigest(t *testing.T) {
	b := newBuilder(t, hotSignal, model.Signal{Platform: model.PlatformReddit, Title: "meh", Content: "nothing here"})

	out, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.Equal(t, 1, out.Hot)
	assert.Equal(t, filepath.Join(b.OutputDir, "leads-20260301.md"), out.Path)

	doc, err := markdown.ParseFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "Lead Digest 2026-03-01", doc.String("title"))
	assert.Equal(t, "leads-20260301", doc.String("slug"))
	assert.Contains(t, doc.Body, "## Hot leads (1)")
	assert.Contains(t, doc.Body, "[Switching off \"CUDA\"](https://example.com/post/1)")
	assert.Contains(t, doc.Body, "Hot Lead · Immediate Outreach (Within 24 hours)")
	assert.Contains(t, doc.Body, "No warm leads in this period.")
	assert.Contains(t, doc.Body, "Scored 2 signals.")
}

func TestBuildSkipsExistingUnlessForced(t *testing.T) {
	b := newBuilder(t, hotSignal)
	_, err := b.Build(context.Background(), false)
	require.NoError(t, err)

	again, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, again.Written)

	forced, err := b.Build(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, forced.Written)
}

func TestBuildOverwritesForeignFile(t *testing.T) {
	b := newBuilder(t)
	path := filepath.Join(b.OutputDir, Filename(b.Now()))
	require.NoError(t, os.WriteFile(path, []byte("---\nslug: other\n---\nold\n"), 0o644))

	out, err := b.Build(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, out.Written)

	doc, err := markdown.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "No signals were scored.", doc.String("summary"))
}

func TestExpandVars(t *testing.T) {
	now := time.Date(2026, 1, 2, 23, 0, 0, 0, time.FixedZone("x", -5*3600))
	assert.Equal(t, "Digest 2026-01-03", ExpandVars("Digest {.CurrentDate}", now))
	assert.Equal(t, "", ExpandVars("", now))
}
