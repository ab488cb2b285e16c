package jobs

import (
	"context"
	"time"

	"github.com/AlephzainCArpio/Thesis-sub000/internal/logging"
)

// JobProcessor defines the interface for periodic background work
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker runs a JobProcessor on a fixed interval
type Worker struct {
	name         string
	processor    JobProcessor
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

// NewWorker creates a new Worker instance
func NewWorker(name string, processor JobProcessor, pollInterval time.Duration) *Worker {
	return &Worker{
		name:         name,
		processor:    processor,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start runs the polling loop until ctx is cancelled or Stop is called
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer close(w.doneChan)

	logging.Info().Str("worker", w.name).Dur("interval", w.pollInterval).Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("worker", w.name).Msg("worker stopped: context cancelled")
			return
		case <-w.stopChan:
			logging.Info().Str("worker", w.name).Msg("worker stopped: stop signal received")
			return
		case <-ticker.C:
			if err := w.processor.ProcessJobs(ctx); err != nil {
				logging.Warn().Err(err).Str("worker", w.name).Msg("job run failed")
			}
		}
	}
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
