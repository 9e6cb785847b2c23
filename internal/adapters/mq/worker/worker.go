// Package worker defines worker contracts for asynchronous team
// generation.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/sideout/sideout/internal/adapters/mq/queue"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/pkg/logger"
	"github.com/sideout/sideout/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Generator runs one synchronous generation for a job's pool. Each job
// is a single engine call; concurrency lives in the pool, never inside
// the engine.
type Generator interface {
	Generate(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (*model.Generation, error)
}

// Saver retains finished generations for later retrieval.
type Saver interface {
	Save(ctx context.Context, gen *model.Generation) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes generation jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing generation jobs.
type InMemoryWorker struct {
	queue     Queue
	generator Generator
	saver     Saver
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, generator Generator, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		generator: generator,
		saver:     saver,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs one generation and retains the result under the job
// id so the client that got the 202 can fetch it later.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job travels by value through the channel
	start := time.Now()
	defer func() {
		metrics.RecordJobLatency(float64(time.Since(start).Milliseconds()))
	}()

	gen, err := w.generator.Generate(ctx, job.Players, job.NumTeams, job.PlayersPerTeam, job.Weights)
	if err != nil {
		metrics.RecordJobError()
		w.logger.Error(ctx, "generation failed for job",
			logger.String("jobID", job.ID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to generate for job %s: %w", job.ID, err)
	}

	gen.Assignment.ID = job.ID
	if err := w.saver.Save(ctx, gen); err != nil {
		metrics.RecordJobError()
		w.logger.Error(ctx, "saving generation failed for job",
			logger.String("jobID", job.ID),
			logger.Error(err),
		)
		return fmt.Errorf("saving generation failed: %w", err)
	}

	w.logger.Debug(ctx, "job processed",
		logger.String("jobID", job.ID),
		logger.Int("players", len(job.Players)),
		logger.Float64("spread", gen.TotalScoreDifference),
		logger.Duration("queueWait", start.Sub(job.EnqueuedAt)),
	)

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	generator Generator
	saver     Saver

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, generator Generator, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     q,
		generator: generator,
		saver:     saver,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			generator,
			saver,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
	}

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}

	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return nil
}
