package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/neuroassist/backend/internal/domain/entities"
	"github.com/neuroassist/backend/internal/domain/providers"
	apperrors "github.com/neuroassist/backend/pkg/errors"
)

// Processor runs the consultation pipeline for one consultation. Satisfied
// by *services.PipelineService.
type Processor interface {
	Process(ctx context.Context, consultationID string) error
}

// PipelineWorker consumes a bounded queue of consultation IDs with a fixed
// pool of goroutines. A consultation that is already queued or running is
// rejected rather than interleaved; runs for different consultations proceed
// in parallel.
type PipelineWorker struct {
	processor Processor
	queue     chan string
	workers   int

	mu       sync.Mutex
	inFlight map[string]struct{}
	stopped  bool

	wg sync.WaitGroup
}

// NewPipelineWorker creates a worker pool. workers and queueSize fall back
// to sane minimums when non-positive.
func NewPipelineWorker(processor Processor, workers, queueSize int) *PipelineWorker {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	return &PipelineWorker{
		processor: processor,
		queue:     make(chan string, queueSize),
		workers:   workers,
		inFlight:  make(map[string]struct{}),
	}
}

// drainRunTimeout bounds pipeline runs drained after shutdown began.
const drainRunTimeout = 2 * time.Minute

// Start launches the worker goroutines. ctx cancels in-progress runs;
// consultations still queued when ctx is cancelled are drained under a fresh
// bounded context so shutdown does not fail them wholesale.
func (w *PipelineWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for consultationID := range w.queue {
				runCtx, cancel := runContext(ctx)
				if err := w.processor.Process(runCtx, consultationID); err != nil {
					log.Error().Str("consultation_id", consultationID).Err(err).Msg("pipeline run failed")
				}
				cancel()
				w.release(consultationID)
			}
		}()
	}
}

func runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx.Err() == nil {
		return ctx, func() {}
	}
	return context.WithTimeout(context.WithoutCancel(ctx), drainRunTimeout)
}

// Enqueue schedules a pipeline run. Returns ErrPipelineBusy when a run for
// the consultation is already queued or executing, and a conflict error when
// the queue is full; it never blocks.
func (w *PipelineWorker) Enqueue(consultationID string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return apperrors.NewConflictError("pipeline worker is shut down")
	}
	if _, busy := w.inFlight[consultationID]; busy {
		w.mu.Unlock()
		return apperrors.ErrPipelineBusy
	}
	w.inFlight[consultationID] = struct{}{}
	w.mu.Unlock()

	select {
	case w.queue <- consultationID:
		return nil
	default:
		w.release(consultationID)
		return apperrors.NewConflictError("pipeline queue is full")
	}
}

// Run consumes processing triggers from the event bus until ctx is
// cancelled, then drains and stops the pool.
func (w *PipelineWorker) Run(ctx context.Context, bus providers.EventBus) error {
	events, err := bus.Subscribe(ctx, providers.EventChannelProcess)
	if err != nil {
		return err
	}

	w.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				w.Stop()
				return nil
			}
			if event.Type != entities.PipelineEventProcessRequested {
				continue
			}
			if err := w.Enqueue(event.ConsultationID); err != nil {
				log.Warn().Str("consultation_id", event.ConsultationID).Err(err).Msg("trigger rejected")
			}
		}
	}
}

// Stop closes the queue and waits for in-progress runs to finish.
func (w *PipelineWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.queue)
	w.wg.Wait()
}

func (w *PipelineWorker) release(consultationID string) {
	w.mu.Lock()
	delete(w.inFlight, consultationID)
	w.mu.Unlock()
}
