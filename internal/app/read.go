package service

import (
	"context"
	"fmt"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/types"
)

// Status returns a snapshot of the loop's recent health.
func (t *Tournament) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// GetStats returns run statistics for the status API.
func (t *Tournament) GetStats() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := map[string]interface{}{
		"tournament":           t.ref,
		"tournament_id":        t.info.ID,
		"name":                 t.info.Name,
		"state":                string(t.info.State),
		"format":               string(t.format),
		"running":              t.running,
		"ticks":                t.status.Ticks,
		"consecutive_failures": t.status.ConsecutiveFailures,
		"last_error":           t.status.LastError,
		"competitors":          0,
		"matches":              0,
		"dirty_rows":           0,
	}
	if !t.status.LastAttempt.IsZero() {
		stats["last_attempt"] = t.status.LastAttempt
	}
	if !t.status.LastSuccess.IsZero() {
		stats["last_success"] = t.status.LastSuccess
	}
	if t.dir != nil {
		stats["competitors"] = len(t.dir.Competitors())
		stats["matches"] = t.ledger.Len()
		stats["dirty_rows"] = t.ledger.Dirty()
	}
	return stats
}

// Standings returns individuals by rating, highest first. limit <= 0 means all.
func (t *Tournament) Standings(_ context.Context, limit int) ([]types.Standing, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dir == nil {
		return []types.Standing{}, nil
	}
	inds := t.dir.Individuals()
	if limit > 0 && limit < len(inds) {
		inds = inds[:limit]
	}
	out := make([]types.Standing, len(inds))
	for i, ind := range inds {
		out[i] = standing(i+1, ind)
	}
	return out, nil
}

// Competitor returns one individual with its current rank.
func (t *Tournament) Competitor(_ context.Context, name string) (types.Standing, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dir != nil {
		for i, ind := range t.dir.Individuals() {
			if ind.Name() == name {
				return standing(i+1, ind), nil
			}
		}
	}
	return types.Standing{}, fmt.Errorf("%w: %s", ErrCompetitorNotFound, name)
}

// Matches returns every tracked match in first-seen order.
func (t *Tournament) Matches(_ context.Context) ([]types.Match, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.ledger == nil {
		return []types.Match{}, nil
	}
	views := t.ledger.Matches()
	out := make([]types.Match, len(views))
	for i, v := range views {
		out[i] = types.Match{
			ID:           v.ID,
			State:        string(v.State),
			Side1:        v.Side1,
			Side2:        v.Side2,
			Winner:       v.Winner,
			Delta1:       v.Delta1,
			Delta2:       v.Delta2,
			NotifiedOpen: v.NotifiedOpen,
			Untracked:    v.Untracked,
			UpdatedAt:    v.UpdatedAt,
		}
	}
	return out, nil
}

func standing(rank int, ind *competitor.Individual) types.Standing {
	st := ind.Stats()
	return types.Standing{
		Rank:              rank,
		Name:              ind.Name(),
		Rating:            ind.Rating(),
		Calibration:       ind.CalibrationRemaining(),
		MatchesPlayed:     st.MatchesPlayed,
		MatchesWon:        st.MatchesWon,
		TournamentsPlayed: st.TournamentsPlayed,
	}
}
