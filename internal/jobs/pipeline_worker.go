package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MrKriegler/go-renewals/internal/core"
	"github.com/MrKriegler/go-renewals/internal/platform/ids"
)

// PipelineWorker rebuilds the renewal pipeline on a fixed interval and keeps the
// latest result for cheap reads.
type PipelineWorker struct {
	BaseWorker
	svc   core.RenewalService
	query core.PipelineQuery

	mu     sync.RWMutex
	latest *core.Pipeline
}

// NewPipelineWorker creates a worker that builds q every interval.
func NewPipelineWorker(
	svc core.RenewalService,
	q core.PipelineQuery,
	interval time.Duration,
	log *slog.Logger,
) *PipelineWorker {
	return &PipelineWorker{
		BaseWorker: NewBaseWorker("pipeline", interval, log),
		svc:        svc,
		query:      q,
	}
}

// Start begins the worker polling loop.
func (w *PipelineWorker) Start(ctx context.Context) {
	w.Poll(ctx, w.refresh)
}

// Latest returns the most recent pipeline, or core.ErrNotReady before the first run.
func (w *PipelineWorker) Latest() (core.Pipeline, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.latest == nil {
		return core.Pipeline{}, core.ErrNotReady
	}
	return *w.latest, nil
}

// refresh builds one pipeline. A failed build keeps the previous result.
func (w *PipelineWorker) refresh(ctx context.Context) error {
	runID := ids.New()
	started := time.Now()

	p, err := w.svc.Pipeline(ctx, w.query)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.latest = &p
	w.mu.Unlock()

	w.log.Info("pipeline refreshed",
		"run_id", runID,
		"items", len(p.Items),
		"critical", p.Counts[core.UrgencyCritical],
		"high", p.Counts[core.UrgencyHigh],
		"medium", p.Counts[core.UrgencyMedium],
		"low", p.Counts[core.UrgencyLow],
		"took", time.Since(started),
	)
	return nil
}
