// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// AssignmentsHandler handles assignment generation and mutation requests.
type AssignmentsHandler struct {
	deps Dependencies
}

// NewAssignmentsHandler creates a new assignments handler.
func NewAssignmentsHandler(deps Dependencies) *AssignmentsHandler {
	return &AssignmentsHandler{deps: deps}
}

// HandleCreate handles POST /api/v1/assignments requests.
func (h *AssignmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	weights, err := req.weightsFor(r.Context(), h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	gen, err := h.deps.GenerateTeams(r.Context(), req.Players, req.NumTeams, req.PlayersPerTeam, weights)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, gen)
}

// HandleSubroutes dispatches requests below /api/v1/assignments/:
// the async enqueue endpoint, fetch by id, and the mutation actions.
func (h *AssignmentsHandler) HandleSubroutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/assignments/")
	if path == "async" {
		h.handleEnqueue(w, r)
		return
	}

	id, action, _ := strings.Cut(path, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch action {
	case "":
		h.handleGet(w, r, id)
	case "swap":
		h.handleSwap(w, r, id)
	case "lock":
		h.handleLock(w, r, id)
	case "reshuffle":
		h.handleReshuffle(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// handleEnqueue handles POST /api/v1/assignments/async requests.
func (h *AssignmentsHandler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	const op = "api.enqueue_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	weights, err := req.weightsFor(r.Context(), h.deps)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	jobID, err := h.deps.EnqueueGeneration(r.Context(), req.Players, req.NumTeams, req.PlayersPerTeam, weights)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", JobID: jobID})
}

// handleGet handles GET /api/v1/assignments/{id} requests.
func (h *AssignmentsHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_assignment"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	gen, err := h.deps.GetAssignment(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

// handleSwap handles POST /api/v1/assignments/{id}/swap requests.
func (h *AssignmentsHandler) handleSwap(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.swap_player"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req swapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	gen, err := h.deps.SwapPlayer(r.Context(), id, req.PlayerID, req.From, req.To)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

// handleLock handles POST /api/v1/assignments/{id}/lock requests.
func (h *AssignmentsHandler) handleLock(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.lock_player"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req lockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	gen, err := h.deps.LockPlayer(r.Context(), id, req.PlayerID, req.Locked)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

// handleReshuffle handles POST /api/v1/assignments/{id}/reshuffle
// requests. The body is optional; when present it may pin a seed.
func (h *AssignmentsHandler) handleReshuffle(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.reshuffle_assignment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req reshuffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	gen, err := h.deps.Reshuffle(r.Context(), id, req.Seed)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}
