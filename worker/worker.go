// Package worker holds the long-running background jobs started by `serve`.
package worker

import (
	"context"

	"leadscout/internal/scan"
)

// Worker runs until ctx is cancelled.
type Worker interface {
	Start(ctx context.Context) error
}

// Scanner runs comprehensive scans.
type Scanner interface {
	Comprehensive(ctx context.Context) scan.Result
}
