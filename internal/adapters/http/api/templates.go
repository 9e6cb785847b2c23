// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/sideout/sideout/internal/templates"
)

// TemplatesHandler handles weight template listing requests.
type TemplatesHandler struct {
	deps Dependencies
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(deps Dependencies) *TemplatesHandler {
	return &TemplatesHandler{deps: deps}
}

// HandleListTemplates handles GET /api/v1/templates requests.
func (h *TemplatesHandler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	list := h.deps.Templates(r.Context())
	if list == nil {
		list = []templates.Template{}
	}
	writeJSON(w, http.StatusOK, list)
}
