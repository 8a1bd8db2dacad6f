package competitor

import (
	"fmt"

	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
)

// Team is a bracket slot made of Individuals owned by the directory.
// It has no rating of its own: Rating is the truncated member average.
type Team struct {
	id      string
	name    string
	members []*Individual
	stats   Stats
	pending rating.Deltas
	winner  bool
}

// NewTeam builds a team over the given members, keeping their order.
func NewTeam(id, name string, members ...*Individual) *Team {
	return &Team{id: id, name: name, members: append([]*Individual(nil), members...)}
}

func (t *Team) ID() string                 { return t.id }
func (t *Team) Name() string               { return t.name }
func (t *Team) Stats() Stats               { return t.stats }
func (t *Team) Pending() rating.Deltas     { return t.pending }
func (t *Team) SetPending(d rating.Deltas) { t.pending = d }
func (t *Team) IsWinner() bool             { return t.winner }
func (t *Team) ClearWinner()               { t.winner = false }

// CalibrationRemaining is always zero for a team; members calibrate through
// the scaled share of the team delta.
func (t *Team) CalibrationRemaining() int { return 0 }

// Members returns the team members in lineup order.
func (t *Team) Members() []*Individual { return append([]*Individual(nil), t.members...) }

func (t *Team) Individuals() []*Individual { return t.Members() }

func (t *Team) Rating() int {
	ratings := make([]int, len(t.members))
	for i, m := range t.members {
		ratings[i] = m.rating
	}
	return rating.Average(ratings)
}

func (t *Team) Apply(won bool) Outcome {
	delta := t.pending.Pick(won)
	o := Outcome{Delta: delta, Won: won, Members: make([]Outcome, len(t.members))}
	for i, m := range t.members {
		o.Members[i] = m.apply(rating.ScaleForMember(delta, m.calibration), won)
	}
	t.stats.MatchesPlayed++
	if won {
		t.stats.MatchesWon++
	}
	t.winner = won
	return o
}

func (t *Team) Preview(won bool) Outcome {
	delta := t.pending.Pick(won)
	o := Outcome{Delta: delta, Won: won, Members: make([]Outcome, len(t.members))}
	for i, m := range t.members {
		o.Members[i] = Outcome{Delta: rating.ScaleForMember(delta, m.calibration), Won: won}
	}
	return o
}

func (t *Team) Refund(o Outcome) error {
	if len(o.Members) != len(t.members) {
		return fmt.Errorf("%w: team %s has %d members, outcome has %d",
			ErrOutcomeMismatch, t.name, len(t.members), len(o.Members))
	}
	for i, m := range t.members {
		m.refund(o.Members[i])
	}
	if t.stats.MatchesPlayed > 0 {
		t.stats.MatchesPlayed--
	}
	if o.Won && t.stats.MatchesWon > 0 {
		t.stats.MatchesWon--
	}
	t.winner = false
	return nil
}
