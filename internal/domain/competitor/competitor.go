// Package competitor models the two kinds of bracket participant: individuals
// and teams whose rating is derived from their members.
package competitor

import (
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
)

// Stats are the match counters kept per competitor.
type Stats struct {
	MatchesPlayed     int
	MatchesWon        int
	TournamentsPlayed int
}

// Outcome records one applied (or would-be) match result for a side.
// Refund replays it in reverse. For a team, Members holds one Outcome per
// member, in member order.
type Outcome struct {
	Delta            int
	Won              bool
	CalibrationSpent bool
	Members          []Outcome
}

// Competitor is the capability set the match ledger needs from either side.
type Competitor interface {
	ID() string
	Name() string
	Rating() int
	CalibrationRemaining() int
	Stats() Stats

	// Pending returns the deltas last computed against the current opponent.
	Pending() rating.Deltas
	SetPending(d rating.Deltas)

	IsWinner() bool
	ClearWinner()

	// Apply awards the pending win or lose delta and bumps the counters.
	Apply(won bool) Outcome
	// Preview returns what Apply would record, without touching state.
	Preview(won bool) Outcome
	// Refund reverses a previously recorded Outcome.
	Refund(o Outcome) error

	// Individuals returns the persisted records touched by a result.
	Individuals() []*Individual
}

// Individual is a single player with a persisted row.
type Individual struct {
	id          string
	name        string
	rating      int
	calibration int
	// ceiling is the calibration the run started with; refunds never exceed it.
	ceiling int
	stats   Stats
	pending rating.Deltas
	winner  bool
}

// NewIndividual builds an Individual bound to id from a persisted row.
func NewIndividual(id string, row model.Row) *Individual {
	cal := row.Calibration
	if cal < 0 {
		cal = 0
	}
	return &Individual{
		id:          id,
		name:        row.Name,
		rating:      row.Rating,
		calibration: cal,
		ceiling:     cal,
		stats: Stats{
			MatchesPlayed:     row.MatchesPlayed,
			MatchesWon:        row.MatchesWon,
			TournamentsPlayed: row.TournamentsPlayed,
		},
	}
}

// Fresh returns the row of a competitor never seen before.
func Fresh(name string) model.Row {
	return model.Row{
		Name:              name,
		Rating:            rating.InitialRating,
		Calibration:       rating.CalibrationMatches,
		TournamentsPlayed: 1,
	}
}

func (i *Individual) ID() string                 { return i.id }
func (i *Individual) Name() string               { return i.name }
func (i *Individual) Rating() int                { return i.rating }
func (i *Individual) CalibrationRemaining() int  { return i.calibration }
func (i *Individual) Stats() Stats               { return i.stats }
func (i *Individual) Pending() rating.Deltas     { return i.pending }
func (i *Individual) SetPending(d rating.Deltas) { i.pending = d }
func (i *Individual) IsWinner() bool             { return i.winner }
func (i *Individual) ClearWinner()               { i.winner = false }
func (i *Individual) Individuals() []*Individual { return []*Individual{i} }

// Rebind points the Individual at a new remote id.
func (i *Individual) Rebind(id string) { i.id = id }

// Row returns the persisted shape of the Individual.
func (i *Individual) Row() model.Row {
	return model.Row{
		Name:              i.name,
		Rating:            i.rating,
		Calibration:       i.calibration,
		MatchesPlayed:     i.stats.MatchesPlayed,
		MatchesWon:        i.stats.MatchesWon,
		TournamentsPlayed: i.stats.TournamentsPlayed,
	}
}

func (i *Individual) Apply(won bool) Outcome {
	return i.apply(i.pending.Pick(won), won)
}

func (i *Individual) Preview(won bool) Outcome {
	return Outcome{Delta: i.pending.Pick(won), Won: won}
}

func (i *Individual) Refund(o Outcome) error {
	i.refund(o)
	return nil
}

func (i *Individual) apply(delta int, won bool) Outcome {
	o := Outcome{Delta: delta, Won: won}
	i.rating += delta
	if i.calibration > 0 {
		i.calibration--
		o.CalibrationSpent = true
	}
	i.stats.MatchesPlayed++
	if won {
		i.stats.MatchesWon++
	}
	i.winner = won
	return o
}

func (i *Individual) refund(o Outcome) {
	i.rating -= o.Delta
	if o.CalibrationSpent && i.calibration < i.ceiling {
		i.calibration++
	}
	if i.stats.MatchesPlayed > 0 {
		i.stats.MatchesPlayed--
	}
	if o.Won && i.stats.MatchesWon > 0 {
		i.stats.MatchesWon--
	}
	i.winner = false
}
