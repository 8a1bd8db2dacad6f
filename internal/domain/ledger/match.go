package ledger

import (
	"time"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// Kind names what an observation did to the ledger.
type Kind string

// Transition kinds.
const (
	KindCreated   Kind = "created"
	KindSkipped   Kind = "skipped"
	KindNoop      Kind = "noop"
	KindReset     Kind = "reset"
	KindUpcoming  Kind = "upcoming"
	KindFinished  Kind = "finished"
	KindCorrected Kind = "corrected"
)

// Announces reports whether the transition produces a notification.
func (k Kind) Announces() bool {
	return k == KindUpcoming || k == KindFinished || k == KindCorrected
}

// Transition is the result of one observation.
type Transition struct {
	Kind     Kind
	MatchID  string
	Side1    competitor.Competitor
	Side2    competitor.Competitor
	WinnerID string
	Refunded bool
}

// result is the applied (or backfilled) outcome of a complete match.
type result struct {
	winnerID string
	side1    competitor.Competitor
	side2    competitor.Competitor
	out1     competitor.Outcome
	out2     competitor.Outcome
}

// entry is the local view of one remote match.
type entry struct {
	id           string
	side1        competitor.Competitor
	side2        competitor.Competitor
	state        model.MatchState
	winnerID     string
	updatedAt    time.Time
	stamped      bool
	notifiedOpen bool
	// untracked marks a match first seen complete without a recordable result.
	untracked bool
	result    *result
}

// MatchView is a read-only snapshot of a ledger entry.
type MatchView struct {
	ID           string           `json:"id"`
	State        model.MatchState `json:"state"`
	Side1        string           `json:"side1,omitempty"`
	Side2        string           `json:"side2,omitempty"`
	Winner       string           `json:"winner,omitempty"`
	Delta1       int              `json:"delta1"`
	Delta2       int              `json:"delta2"`
	NotifiedOpen bool             `json:"notified_open"`
	Untracked    bool             `json:"untracked,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (e *entry) view() MatchView {
	v := MatchView{
		ID:           e.id,
		State:        e.state,
		Side1:        name(e.side1),
		Side2:        name(e.side2),
		NotifiedOpen: e.notifiedOpen,
		Untracked:    e.untracked,
		UpdatedAt:    e.updatedAt,
	}
	if e.result != nil {
		v.Delta1 = e.result.out1.Delta
		v.Delta2 = e.result.out2.Delta
		switch {
		case e.result.out1.Won:
			v.Winner = name(e.result.side1)
		case e.result.out2.Won:
			v.Winner = name(e.result.side2)
		}
	}
	return v
}

func name(c competitor.Competitor) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
