// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the tournament service.
type Dependencies interface {
	StatsProvider
	StandingsDependencies
	CompetitorDependencies
	MatchesDependencies
}

// Standing mirrors the read shape returned by standings queries.
type Standing = types.Standing

// Match mirrors the read shape returned by match queries.
type Match = types.Match

// Server wires HTTP routes for the status API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	standingsHandler  *StandingsHandler
	competitorHandler *CompetitorHandler
	matchesHandler    *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		standingsHandler:  NewStandingsHandler(deps, maxLimit),
		competitorHandler: NewCompetitorHandler(deps),
		matchesHandler:    NewMatchesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/competitors/", MetricsMiddleware(s.competitorHandler.HandleGetCompetitor, "competitors"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
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

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
