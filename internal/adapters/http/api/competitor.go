package api

import (
	"context"
	"net/http"
	"strings"
)

// CompetitorDependencies defines the interface for single competitor lookups.
type CompetitorDependencies interface {
	Competitor(ctx context.Context, name string) (Standing, error)
}

// CompetitorHandler handles competitor requests.
type CompetitorHandler struct {
	deps CompetitorDependencies
}

// NewCompetitorHandler creates a new competitor handler.
func NewCompetitorHandler(deps CompetitorDependencies) *CompetitorHandler {
	return &CompetitorHandler{deps: deps}
}

// HandleGetCompetitor handles GET /competitors/{name} requests.
func (h *CompetitorHandler) HandleGetCompetitor(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_competitor"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/competitors/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Competitor(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
