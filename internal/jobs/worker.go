package jobs

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker is a background job that runs until its context ends.
type Worker interface {
	Start(ctx context.Context)
	Name() string
}

// BaseWorker runs a unit of work on a fixed interval. A run may take at most one
// interval; ticks that fire while a run is in progress are dropped by the ticker.
type BaseWorker struct {
	name     string
	interval time.Duration
	log      *slog.Logger
}

func NewBaseWorker(name string, interval time.Duration, log *slog.Logger) BaseWorker {
	return BaseWorker{
		name:     name,
		interval: interval,
		log:      log.With("worker", name),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Poll runs work once immediately and then on every tick until ctx is cancelled.
func (w *BaseWorker) Poll(ctx context.Context, work func(context.Context) error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("worker started", "interval", w.interval)
	w.runOnce(ctx, work)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-ticker.C:
			w.runOnce(ctx, work)
		}
	}
}

func (w *BaseWorker) runOnce(ctx context.Context, work func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	started := time.Now()
	if err := work(ctx); err != nil {
		w.log.Error("worker run failed", "err", err, "elapsed", time.Since(started))
	}
}

// RunAll starts every worker and blocks until all of them have returned.
func RunAll(ctx context.Context, workers ...Worker) {
	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			w.Start(ctx)
			return nil
		})
	}
	_ = g.Wait()
}
