package worker

import (
	"context"
	"log/slog"
	"time"

	"leadscout/internal/digest"
)

// DigestBuilder writes the daily lead digest, checking on an interval whether
// today's file still needs to be produced.
type DigestBuilder struct {
	Builder  *digest.Builder
	Interval time.Duration
	Logger   *slog.Logger
}

func (w *DigestBuilder) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 30 * time.Minute
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *DigestBuilder) runOnce(ctx context.Context) {
	out, err := w.Builder.Build(ctx, false)
	if err != nil {
		w.Logger.Error("digest-builder: build failed", "err", err)
		return
	}
	if out.Written {
		w.Logger.Info("digest-builder: published", "path", out.Path, "hot", out.Hot, "warm", out.Warm)
	}
}
