package worker

import (
	"context"
	"log/slog"
	"time"
)

// ScanWorker runs a comprehensive scan on a fixed interval.
type ScanWorker struct {
	Scanner     Scanner
	Interval    time.Duration
	SkipInitial bool // wait one interval before the first scan
	Logger      *slog.Logger
}

func (w *ScanWorker) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 15 * time.Minute
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	if !w.SkipInitial {
		w.runOnce(ctx)
	}

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

func (w *ScanWorker) runOnce(ctx context.Context) {
	res := w.Scanner.Comprehensive(ctx)
	w.Logger.Info("scan-worker: scheduled scan completed", "total", res.Total, "high_priority", res.HighPriority, "failed", len(res.Failed))
}
