// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/sideout/sideout/internal/adapters/mq/queue"
	workerpool "github.com/sideout/sideout/internal/adapters/mq/worker"
	"github.com/sideout/sideout/internal/adapters/repository"
	"github.com/sideout/sideout/internal/domain/balance"
	"github.com/sideout/sideout/internal/domain/engine"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/internal/templates"
	"github.com/sideout/sideout/pkg/logger"
	"github.com/sideout/sideout/pkg/metrics"
)

// generatorAdapter adapts the engine's option-based Generate to the
// flat signature workers consume.
type generatorAdapter struct {
	engine *engine.Engine
}

func (a *generatorAdapter) Generate(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (*model.Generation, error) {
	opts := []engine.GenerateOption{engine.WithWeights(weights)}
	if playersPerTeam > 0 {
		opts = append(opts, engine.WithPlayersPerTeam(playersPerTeam))
	}
	gen, err := a.engine.Generate(ctx, players, numTeams, opts...)
	if err != nil {
		return nil, fmt.Errorf("engine generate: %w", err)
	}
	return gen, nil
}

// Service implements the API dependencies for the team balancing system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	queue      jobqueue.Queue
	engine     *engine.Engine
	workerPool *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	storeCapacity    int
	maxPoolSize      int
	teamCap          int
	maxPasses        int
	timeBudget       time.Duration
	defaultWeights   model.SkillWeights
	reshuffleRetries int
	reshuffleMinDiff int
	presets          []templates.Template

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:        10_000,
		storeCapacity:    1024,
		maxPoolSize:      500,
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
		reshuffleRetries: 0,   // engine defaults apply when unset
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting team balancing service...")

	// Initialize components
	if s.store == nil {
		s.store = repository.NewMemoryStore(
			repository.WithCapacity(s.storeCapacity),
		)
	}
	if s.queue == nil {
		s.queue = jobqueue.NewInMemoryQueue(
			jobqueue.WithCapacity(s.queueSize),
			jobqueue.WithBufferSize(s.queueSize),
		)
	}
	if s.engine == nil {
		rosterOpts := []roster.Option{}
		if s.teamCap > 0 {
			rosterOpts = append(rosterOpts, roster.WithTeamCap(s.teamCap))
		}
		aggregator := roster.NewAggregator(rosterOpts...)

		balanceOpts := []balance.Option{balance.WithAggregator(aggregator)}
		if s.maxPasses > 0 {
			balanceOpts = append(balanceOpts, balance.WithMaxPasses(s.maxPasses))
		}
		if s.timeBudget > 0 {
			balanceOpts = append(balanceOpts, balance.WithTimeBudget(s.timeBudget))
		}

		engineOpts := []engine.Option{
			engine.WithAggregator(aggregator),
			engine.WithOptimizer(balance.NewOptimizer(balanceOpts...)),
		}
		if s.reshuffleRetries > 0 {
			engineOpts = append(engineOpts, engine.WithReshuffleRetries(s.reshuffleRetries))
		}
		if s.reshuffleMinDiff > 0 {
			engineOpts = append(engineOpts, engine.WithReshuffleMinDiff(s.reshuffleMinDiff))
		}
		s.engine = engine.New(engineOpts...)
	}

	// Create and start worker pool with the engine adapter
	adapter := &generatorAdapter{engine: s.engine}
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, adapter, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "team balancing service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("storeCapacity", s.storeCapacity),
		logger.Int("templates", len(s.presets)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping team balancing service...")

	// Shut down worker pool; this also closes the queue
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	// Close assignment store
	if s.store != nil {
		_ = s.store.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "team balancing service stopped")
}

// eligible filters the pool to available players and applies the size
// guard. The engine only ever sees eligible players.
func (s *Service) eligible(players []model.Player) ([]model.Player, error) {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if p.Available {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoEligiblePlayers
	}
	if s.maxPoolSize > 0 && len(out) > s.maxPoolSize {
		return nil, fmt.Errorf("%w: %d players, limit %d", ErrPoolTooLarge, len(out), s.maxPoolSize)
	}
	return out, nil
}

func (s *Service) resolveWeights(weights model.SkillWeights) model.SkillWeights {
	if weights.IsZero() && !s.defaultWeights.IsZero() {
		return s.defaultWeights
	}
	return weights
}

// GenerateTeams runs a synchronous generation and retains the result.
func (s *Service) GenerateTeams(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	pool, err := s.eligible(players)
	if err != nil {
		return nil, err
	}

	opts := []engine.GenerateOption{engine.WithWeights(s.resolveWeights(weights))}
	if playersPerTeam > 0 {
		opts = append(opts, engine.WithPlayersPerTeam(playersPerTeam))
	}

	gen, err := s.engine.Generate(ctx, pool, numTeams, opts...)
	if err != nil {
		metrics.RecordGenerationError()
		return nil, fmt.Errorf("generate teams: %w", err)
	}

	if err := s.store.Save(ctx, gen); err != nil {
		return nil, fmt.Errorf("save generation: %w", err)
	}

	metrics.RecordGeneration(float64(gen.ExecutionTime.Milliseconds()), gen.Iterations, gen.TotalScoreDifference)
	s.logger.Debug(ctx, "teams generated",
		logger.String("assignmentID", gen.Assignment.ID),
		logger.Int("players", len(pool)),
		logger.Int("teams", numTeams),
		logger.Float64("spread", gen.TotalScoreDifference),
	)

	return gen, nil
}

// EnqueueGeneration submits a generation job for asynchronous
// processing. The returned job id doubles as the assignment id under
// which the result will be stored.
func (s *Service) EnqueueGeneration(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	pool, err := s.eligible(players)
	if err != nil {
		return "", err
	}

	job := jobqueue.Job{
		ID:             uuid.NewString(),
		Players:        pool,
		NumTeams:       numTeams,
		PlayersPerTeam: playersPerTeam,
		Weights:        s.resolveWeights(weights),
		EnqueuedAt:     time.Now(),
	}
	if !s.queue.Enqueue(ctx, job) {
		return "", ErrQueueFull
	}

	s.logger.Debug(ctx, "generation enqueued",
		logger.String("jobID", job.ID),
		logger.Int("players", len(pool)),
		logger.Int("queueLength", s.queue.Len(ctx)),
	)

	return job.ID, nil
}

// GetAssignment fetches a stored generation by assignment id.
func (s *Service) GetAssignment(ctx context.Context, id string) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	gen, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return gen, nil
}

// SwapPlayer moves a player between two teams of a stored assignment.
// Locked players and unknown ids reject the swap without mutation.
func (s *Service) SwapPlayer(ctx context.Context, id, playerID string, fromIdx, toIdx int) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	gen, err := s.store.Mutate(ctx, id, func(g *model.Generation) error {
		if !s.engine.SwapPlayer(g.Assignment, playerID, fromIdx, toIdx, g.Weights) {
			return fmt.Errorf("%w: player %q from %d to %d", ErrSwapRejected, playerID, fromIdx, toIdx)
		}
		g.TotalScoreDifference = roster.Spread(g.Assignment.Teams)
		g.SkillBalanceScore = engine.SkillBalance(g.Assignment.Teams)
		return nil
	})
	if err != nil {
		metrics.RecordPlayerSwapRejected()
		return nil, fmt.Errorf("swap player: %w", err)
	}

	metrics.RecordPlayerSwapApplied()
	return gen, nil
}

// LockPlayer pins or releases a player in a stored assignment.
func (s *Service) LockPlayer(ctx context.Context, id, playerID string, locked bool) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	gen, err := s.store.Mutate(ctx, id, func(g *model.Generation) error {
		if !s.engine.LockPlayer(g.Assignment, playerID, locked) {
			return fmt.Errorf("%w: %q", ErrPlayerNotFound, playerID)
		}
		return nil
	})
	if err != nil {
		metrics.RecordLockMiss()
		return nil, fmt.Errorf("lock player: %w", err)
	}

	metrics.RecordLockChange()
	return gen, nil
}

// Reshuffle reruns a stored assignment into a divergent arrangement.
// Lock flags survive the reshuffle; locked players may still land on
// new teams since the rearrangement rebuilds every roster.
func (s *Service) Reshuffle(ctx context.Context, id string, seed *int64) (*model.Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	gen, err := s.store.Mutate(ctx, id, func(g *model.Generation) error {
		pool := make([]model.Player, 0)
		locked := make(map[string]bool)
		for _, team := range g.Assignment.Teams {
			for _, slot := range team.Players {
				pool = append(pool, model.Player{
					ID:        slot.PlayerID,
					Name:      slot.Name,
					Skills:    slot.Skills,
					Available: true,
				})
				if slot.Locked {
					locked[slot.PlayerID] = true
				}
			}
		}

		opts := []engine.GenerateOption{engine.WithWeights(g.Weights)}
		if seed != nil {
			opts = append(opts, engine.WithSeed(*seed))
		}
		next, err := s.engine.Reshuffle(ctx, pool, len(g.Assignment.Teams), g.Assignment, opts...)
		if err != nil {
			return fmt.Errorf("engine reshuffle: %w", err)
		}

		next.Assignment.ID = g.Assignment.ID
		for pid := range locked {
			s.engine.LockPlayer(next.Assignment, pid, true)
		}
		*g = *next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reshuffle: %w", err)
	}

	metrics.RecordReshuffle()
	return gen, nil
}

// Templates lists the loaded weight presets.
func (s *Service) Templates(ctx context.Context) []templates.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]templates.Template, len(s.presets))
	copy(out, s.presets)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"storeCapacity": s.storeCapacity,
		"maxPoolSize":   s.maxPoolSize,
		"templates":     len(s.presets),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stored := s.store.Len(ctx)

		stats["queueLength"] = queueLen
		stats["storedAssignments"] = stored

		// Update metrics
		metrics.UpdateQueueDepth(queueLen)
		metrics.UpdateStoreAssignments(stored)
		metrics.UpdateWorkerActiveCount(s.workerCount)
	}

	return stats
}
