// Package engine composes the draft and the optimizer into the team
// generation pipeline and exposes the post-hoc mutation operations.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sideout/sideout/internal/domain/balance"
	"github.com/sideout/sideout/internal/domain/draft"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/domain/roster"
	"github.com/sideout/sideout/pkg/logger"
)

// Default reshuffle bounds.
const (
	defaultReshuffleRetries = 5
	defaultReshuffleMinDiff = 2
)

// Engine runs the full pipeline: score and snake-draft the pool, then
// hill-climb pairwise swaps until the budget runs out. Every call is a
// pure transformation of its inputs; the engine holds no state between
// calls, so one instance is safe to share.
type Engine struct {
	aggregator *roster.Aggregator
	allocator  *draft.Allocator
	optimizer  *balance.Optimizer

	reshuffleRetries int
	reshuffleMinDiff int

	log logger.Logger
}

// New creates an engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		aggregator:       roster.NewAggregator(),
		reshuffleRetries: defaultReshuffleRetries,
		reshuffleMinDiff: defaultReshuffleMinDiff,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.allocator == nil {
		e.allocator = draft.NewAllocator(draft.WithAggregator(e.aggregator))
	}
	if e.optimizer == nil {
		e.optimizer = balance.NewOptimizer(balance.WithAggregator(e.aggregator))
	}

	return e
}

// GenerateOption adjusts a single generation request.
type GenerateOption func(*generateParams)

type generateParams struct {
	playersPerTeam int
	weights        model.SkillWeights
	seed           int64
	seedSet        bool
}

// WithPlayersPerTeam sets the advisory fill target per team. Zero
// derives ceil(players/teams).
func WithPlayersPerTeam(n int) GenerateOption {
	return func(p *generateParams) {
		if n > 0 {
			p.playersPerTeam = n
		}
	}
}

// WithWeights sets the skill weights for the request. The zero value
// falls back to equal weights.
func WithWeights(w model.SkillWeights) GenerateOption {
	return func(p *generateParams) {
		p.weights = w
	}
}

// WithSeed fixes the random seed used by reshuffle attempts. Generate
// itself is deterministic and ignores it; the option exists so callers
// can pass one interface-stable set of options to both operations.
func WithSeed(seed int64) GenerateOption {
	return func(p *generateParams) {
		p.seed = seed
		p.seedSet = true
	}
}

func buildParams(opts []GenerateOption) generateParams {
	var p generateParams
	for _, opt := range opts {
		opt(&p)
	}
	if p.weights.IsZero() {
		p.weights = model.DefaultSkillWeights()
	}
	return p
}

// Generate drafts the players into numTeams teams and optimizes the
// result. The pool must already be filtered to available players; an
// empty pool fails with ErrNoPlayers. More teams than players is fine
// and leaves the surplus teams empty.
func (e *Engine) Generate(ctx context.Context, players []model.Player, numTeams int, opts ...GenerateOption) (*model.Generation, error) {
	p := buildParams(opts)
	return e.generate(ctx, players, numTeams, p, false)
}

func (e *Engine) generate(ctx context.Context, players []model.Player, numTeams int, p generateParams, ordered bool) (*model.Generation, error) {
	if numTeams < 1 {
		return nil, ErrInvalidTeamCount
	}
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}

	start := time.Now()

	var teams []model.Team
	if ordered {
		teams = e.allocator.AllocateOrdered(players, numTeams, p.playersPerTeam, p.weights)
	} else {
		teams = e.allocator.Allocate(players, numTeams, p.playersPerTeam, p.weights)
	}

	a := &model.Assignment{
		ID:        uuid.NewString(),
		Teams:     teams,
		CreatedAt: start,
	}

	res := e.optimizer.Optimize(ctx, a, p.weights)

	gen := &model.Generation{
		Assignment:           a,
		Weights:              p.weights,
		TotalScoreDifference: res.Spread,
		SkillBalanceScore:    SkillBalance(a.Teams),
		Iterations:           res.Passes,
		ExecutionTime:        time.Since(start),
	}

	if e.log != nil {
		e.log.Info(ctx, "generated teams",
			logger.String("assignmentID", a.ID),
			logger.Int("players", len(players)),
			logger.Int("teams", numTeams),
			logger.Float64("spread", res.Spread),
			logger.Int("passes", res.Passes),
			logger.Bool("timedOut", res.TimedOut),
			logger.Duration("elapsed", gen.ExecutionTime),
		)
	}

	return gen, nil
}

// UpdateTeamScores recomputes one team's cached totals, for callers
// that edit rosters outside the mutation operations below.
func (e *Engine) UpdateTeamScores(t *model.Team, weights model.SkillWeights) {
	e.aggregator.Recompute(t, weights)
}

// SwapPlayer moves a player between two teams of the assignment,
// reporting false without mutation when the move is not allowed.
func (e *Engine) SwapPlayer(a *model.Assignment, playerID string, fromIdx, toIdx int, weights model.SkillWeights) bool {
	return e.aggregator.SwapPlayer(a, playerID, fromIdx, toIdx, weights)
}

// LockPlayer pins or releases a player wherever it sits, reporting
// false when the id is unknown.
func (e *Engine) LockPlayer(a *model.Assignment, playerID string, locked bool) bool {
	return e.aggregator.SetLock(a, playerID, locked)
}

// SkillBalance is the mean, over the six skills, of the max-min gap of
// team averages. Lower means the skill mix is spread more evenly.
func SkillBalance(teams []model.Team) float64 {
	if len(teams) == 0 {
		return 0
	}
	var total float64
	for _, sk := range model.SkillOrder {
		minAvg := teams[0].SkillAverages.Value(sk)
		maxAvg := minAvg
		for i := 1; i < len(teams); i++ {
			v := teams[i].SkillAverages.Value(sk)
			if v < minAvg {
				minAvg = v
			}
			if v > maxAvg {
				maxAvg = v
			}
		}
		total += maxAvg - minAvg
	}
	return total / float64(len(model.SkillOrder))
}
