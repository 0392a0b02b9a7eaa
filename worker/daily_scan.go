package worker

import (
	"context"
	"log/slog"
	"time"
)

// DailyScanWorker runs a comprehensive scan once a day at Hour:Minute local time.
type DailyScanWorker struct {
	Scanner  Scanner
	Hour     int
	Minute   int
	Location *time.Location
	Logger   *slog.Logger

	now func() time.Time
}

func (w *DailyScanWorker) Start(ctx context.Context) error {
	if w.Location == nil {
		w.Location = time.Local
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	if w.now == nil {
		w.now = time.Now
	}
	for {
		now := w.now().In(w.Location)
		next := nextDaily(now, w.Hour, w.Minute)
		w.Logger.Info("daily-scan: next run scheduled", "at", next.Format(time.RFC3339))
		t := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
			res := w.Scanner.Comprehensive(ctx)
			w.Logger.Info("daily-scan: nightly scan completed", "total", res.Total, "high_priority", res.HighPriority, "failed", len(res.Failed))
		}
	}
}

// nextDaily returns the first hour:minute strictly after now, in now's location.
func nextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
