package api

import (
	"context"
	"net/http"
)

// MatchesDependencies defines the interface for the ledger view.
type MatchesDependencies interface {
	Matches(ctx context.Context) ([]Match, error)
}

// MatchesHandler handles match listing requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /matches requests.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matches, err := h.deps.Matches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap("api.get_matches", err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
