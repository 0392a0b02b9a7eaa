package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger, ws ...Worker) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{workers: ws, logger: logger}
}

// Start runs every worker and blocks until all of them have returned. A
// worker failing early does not stop the others; the first error is returned.
func (m *Manager) Start(ctx context.Context) error {
	var g errgroup.Group
	for _, w := range m.workers {
		g.Go(func() error {
			name := fmt.Sprintf("%T", w)
			m.logger.Info("worker: started", "worker", name)
			err := w.Start(ctx)
			if err != nil {
				m.logger.Error("worker: exited", "worker", name, "err", err)
				return err
			}
			m.logger.Info("worker: stopped", "worker", name)
			return nil
		})
	}
	return g.Wait()
}
