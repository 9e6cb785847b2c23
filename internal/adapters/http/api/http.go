// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sideout/sideout/internal/adapters/repository"
	service "github.com/sideout/sideout/internal/app"
	"github.com/sideout/sideout/internal/domain/engine"
	"github.com/sideout/sideout/internal/domain/model"
	"github.com/sideout/sideout/internal/templates"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// GenerateTeams runs a synchronous generation and retains the result.
	GenerateTeams(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (*model.Generation, error)

	// EnqueueGeneration submits a generation job for async processing and
	// returns the job id under which the result will be retrievable.
	EnqueueGeneration(ctx context.Context, players []model.Player, numTeams, playersPerTeam int, weights model.SkillWeights) (string, error)

	// GetAssignment fetches a stored generation by assignment id.
	GetAssignment(ctx context.Context, id string) (*model.Generation, error)

	// SwapPlayer moves a player between teams of a stored assignment.
	SwapPlayer(ctx context.Context, id, playerID string, fromIdx, toIdx int) (*model.Generation, error)

	// LockPlayer pins or releases a player in a stored assignment.
	LockPlayer(ctx context.Context, id, playerID string, locked bool) (*model.Generation, error)

	// Reshuffle reruns a stored assignment into a divergent arrangement.
	Reshuffle(ctx context.Context, id string, seed *int64) (*model.Generation, error)

	// Templates lists the loaded weight presets.
	Templates(ctx context.Context) []templates.Template
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	assignmentsHandler *AssignmentsHandler
	templatesHandler   *TemplatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		assignmentsHandler: NewAssignmentsHandler(deps),
		templatesHandler:   NewTemplatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/api/v1/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/templates", MetricsMiddleware(s.templatesHandler.HandleListTemplates, "templates"))
	mux.HandleFunc("/api/v1/assignments", MetricsMiddleware(s.assignmentsHandler.HandleCreate, "assignments"))
	mux.HandleFunc("/api/v1/assignments/", MetricsMiddleware(s.assignmentsHandler.HandleSubroutes, "assignments"))
}

// generateRequest mirrors the request schema for POST /api/v1/assignments.
type generateRequest struct {
	Players        []model.Player     `json:"players"`
	NumTeams       int                `json:"num_teams"`
	PlayersPerTeam int                `json:"players_per_team"`
	Weights        map[string]float64 `json:"weights,omitempty"`
	Template       string             `json:"template,omitempty"`
}

func (g generateRequest) validate() error {
	switch {
	case len(g.Players) == 0:
		return errors.New("missing players")
	case g.NumTeams < 1:
		return errors.New("num_teams must be at least 1")
	case g.PlayersPerTeam < 0:
		return errors.New("players_per_team must not be negative")
	case g.Weights != nil && g.Template != "":
		return errors.New("weights and template are mutually exclusive")
	}
	seen := make(map[string]struct{}, len(g.Players))
	for i, p := range g.Players {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("player %d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// weightsFor resolves the request's weights, preferring an inline map
// over a named template. The zero value lets the engine fall back to
// equal weights.
func (g generateRequest) weightsFor(ctx context.Context, deps Dependencies) (model.SkillWeights, error) {
	if g.Weights != nil {
		w, err := model.WeightsFromMap(g.Weights)
		if err != nil {
			return model.SkillWeights{}, err
		}
		return w, nil
	}
	if g.Template != "" {
		for _, t := range deps.Templates(ctx) {
			if t.Name == g.Template {
				return t.SkillWeights()
			}
		}
		return model.SkillWeights{}, fmt.Errorf("%w: %q", service.ErrUnknownTemplate, g.Template)
	}
	return model.SkillWeights{}, nil
}

// swapRequest mirrors the request schema for POST .../{id}/swap.
type swapRequest struct {
	PlayerID string `json:"player_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

func (s swapRequest) validate() error {
	switch {
	case strings.TrimSpace(s.PlayerID) == "":
		return errors.New("missing player_id")
	case s.From < 0 || s.To < 0:
		return errors.New("team indexes must not be negative")
	case s.From == s.To:
		return errors.New("from and to must differ")
	}
	return nil
}

// lockRequest mirrors the request schema for POST .../{id}/lock.
type lockRequest struct {
	PlayerID string `json:"player_id"`
	Locked   bool   `json:"locked"`
}

func (l lockRequest) validate() error {
	if strings.TrimSpace(l.PlayerID) == "" {
		return errors.New("missing player_id")
	}
	return nil
}

// reshuffleRequest mirrors the optional request body for POST
// .../{id}/reshuffle. An empty body means an unseeded reshuffle.
type reshuffleRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

type acceptedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates upstream sentinels into HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrSwapRejected):
		writeError(w, http.StatusConflict, "swap_rejected", Wrap(op, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNoEligiblePlayers),
		errors.Is(err, service.ErrPoolTooLarge),
		errors.Is(err, service.ErrUnknownTemplate),
		errors.Is(err, engine.ErrNoPlayers),
		errors.Is(err, engine.ErrInvalidTeamCount),
		errors.Is(err, model.ErrUnknownSkill):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
