// Package ledger keeps the local view of every match in a tournament run and
// turns remote snapshots into rating applications and refunds.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/internal/domain/rating"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	"github.com/Xarpp/ChallongeExportData/pkg/metrics"
)

// Directory is what the ledger needs from the competitor directory.
type Directory interface {
	Lookup(id string) (competitor.Competitor, bool)
	Persist(ctx context.Context, inds ...*competitor.Individual) ([]*competitor.Individual, error)
}

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used by the ledger.
func WithLogger(l logger.Logger) Option {
	return func(lg *Ledger) {
		if l != nil {
			lg.log = l
		}
	}
}

// Ledger is the per-run match state machine. It is not safe for concurrent use.
type Ledger struct {
	dir Directory
	log logger.Logger

	entries map[string]*entry
	order   []*entry

	dirty      map[*competitor.Individual]struct{}
	dirtyOrder []*competitor.Individual
}

// New creates an empty Ledger resolving competitors through dir.
func New(dir Directory, opts ...Option) *Ledger {
	l := &Ledger{
		dir:     dir,
		log:     logger.Nop(),
		entries: make(map[string]*entry),
		dirty:   make(map[*competitor.Individual]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Observe feeds one remote match through the state machine.
//
// ErrUnresolvedCompetitor and ErrUnknownWinner leave the entry untouched so the
// match is retried on the next snapshot. ErrLedgerCorrupted is not recoverable.
func (l *Ledger) Observe(ctx context.Context, rm model.RemoteMatch) (Transition, error) {
	e, ok := l.entries[rm.ID]
	if !ok {
		e = l.create(ctx, rm)
		return l.record(Transition{Kind: KindCreated, MatchID: rm.ID, Side1: e.side1, Side2: e.side2}), nil
	}
	if e.stamped && e.updatedAt.Equal(rm.UpdatedAt) {
		return Transition{Kind: KindSkipped, MatchID: rm.ID}, nil
	}

	side1, side2 := l.lookup(rm.Player1ID), l.lookup(rm.Player2ID)
	if rm.State != model.StatePending && (side1 == nil || side2 == nil) {
		return Transition{}, fmt.Errorf("%w: match %s players %q/%q", ErrUnresolvedCompetitor, rm.ID, rm.Player1ID, rm.Player2ID)
	}
	if rm.State == model.StateComplete && rm.WinnerID != side1.ID() && rm.WinnerID != side2.ID() {
		return Transition{}, fmt.Errorf("%w: match %s winner %q", ErrUnknownWinner, rm.ID, rm.WinnerID)
	}

	t := Transition{Kind: KindNoop, MatchID: rm.ID, Side1: side1, Side2: side2, WinnerID: rm.WinnerID}
	var err error
	switch rm.State {
	case model.StatePending:
		if e.state == model.StateComplete {
			if t.Refunded, err = l.refund(ctx, e); err != nil {
				return Transition{}, err
			}
			t.Kind = KindReset
		}
	case model.StateOpen:
		if e.state == model.StateOpen && e.notifiedOpen {
			break
		}
		if e.state == model.StateComplete {
			if t.Refunded, err = l.refund(ctx, e); err != nil {
				return Transition{}, err
			}
			e.notifiedOpen = false
		}
		predict(side1, side2)
		e.notifiedOpen = true
		t.Kind = KindUpcoming
	case model.StateComplete:
		if e.state == model.StateComplete {
			if e.winnerID == rm.WinnerID {
				break
			}
			if t.Refunded, err = l.refund(ctx, e); err != nil {
				return Transition{}, err
			}
			t.Kind = KindCorrected
		} else {
			t.Kind = KindFinished
		}
		l.apply(ctx, e, side1, side2, rm.WinnerID)
	}

	e.side1, e.side2 = side1, side2
	e.state = rm.State
	e.winnerID = rm.WinnerID
	e.updatedAt = rm.UpdatedAt
	e.stamped = true
	return l.record(t), nil
}

func (l *Ledger) record(t Transition) Transition {
	metrics.RecordTransition(string(t.Kind))
	return t
}

func (l *Ledger) lookup(id string) competitor.Competitor {
	if id == "" {
		return nil
	}
	c, ok := l.dir.Lookup(id)
	if !ok {
		return nil
	}
	return c
}

// create registers a match seen for the first time. The entry stays unstamped
// so the next snapshot evaluates it.
func (l *Ledger) create(ctx context.Context, rm model.RemoteMatch) *entry {
	e := &entry{
		id:       rm.ID,
		side1:    l.lookup(rm.Player1ID),
		side2:    l.lookup(rm.Player2ID),
		state:    rm.State,
		winnerID: rm.WinnerID,
	}
	l.entries[rm.ID] = e
	l.order = append(l.order, e)
	metrics.UpdateMatches(len(l.order))

	resolved := e.side1 != nil && e.side2 != nil
	if resolved {
		predict(e.side1, e.side2)
	}
	if e.state == model.StateComplete {
		won1 := resolved && rm.WinnerID == e.side1.ID()
		won2 := resolved && rm.WinnerID == e.side2.ID()
		if won1 || won2 {
			e.result = &result{
				winnerID: rm.WinnerID,
				side1:    e.side1,
				side2:    e.side2,
				out1:     e.side1.Preview(won1),
				out2:     e.side2.Preview(won2),
			}
		} else {
			e.untracked = true
		}
	}
	l.log.Debug(ctx, "match created",
		logger.String("match", rm.ID), logger.String("state", string(rm.State)),
		logger.Bool("backfilled", e.result != nil), logger.Bool("untracked", e.untracked))
	return e
}

// predict stores the deltas each side would gain against the other.
func predict(a, b competitor.Competitor) {
	a.SetPending(rating.Compute(a.Rating(), b.Rating(), a.CalibrationRemaining()))
	b.SetPending(rating.Compute(b.Rating(), a.Rating(), b.CalibrationRemaining()))
}

// apply awards the result for winnerID from the current ratings.
func (l *Ledger) apply(ctx context.Context, e *entry, side1, side2 competitor.Competitor, winnerID string) {
	predict(side1, side2)
	won1 := winnerID == side1.ID()
	e.result = &result{
		winnerID: winnerID,
		side1:    side1,
		side2:    side2,
		out1:     side1.Apply(won1),
		out2:     side2.Apply(!won1),
	}
	e.untracked = false
	l.log.Info(ctx, "match result applied",
		logger.String("match", e.id),
		logger.String("side1", side1.Name()), logger.Int("delta1", e.result.out1.Delta),
		logger.String("side2", side2.Name()), logger.Int("delta2", e.result.out2.Delta))
	l.persist(ctx, side1, side2)
}

// refund reverses the recorded result of e. It reports false when there was
// nothing to reverse because the match was never tracked.
func (l *Ledger) refund(ctx context.Context, e *entry) (bool, error) {
	r := e.result
	if r == nil {
		if e.untracked {
			l.log.Warn(ctx, "refund skipped for untracked match", logger.String("match", e.id))
			e.untracked = false
			return false, nil
		}
		return false, fmt.Errorf("%w: match %s has no recorded result", ErrLedgerCorrupted, e.id)
	}
	if err := r.side1.Refund(r.out1); err != nil {
		return false, fmt.Errorf("%w: match %s: %w", ErrLedgerCorrupted, e.id, err)
	}
	if err := r.side2.Refund(r.out2); err != nil {
		return false, fmt.Errorf("%w: match %s: %w", ErrLedgerCorrupted, e.id, err)
	}
	r.side1.ClearWinner()
	r.side2.ClearWinner()
	e.result = nil
	metrics.RecordRefund()
	l.log.Info(ctx, "match result refunded",
		logger.String("match", e.id),
		logger.String("side1", r.side1.Name()), logger.Int("delta1", r.out1.Delta),
		logger.String("side2", r.side2.Name()), logger.Int("delta2", r.out2.Delta))
	l.persist(ctx, r.side1, r.side2)
	return true, nil
}

// persist writes the individuals behind the given sides. Failures are kept in
// the dirty set for Flush.
func (l *Ledger) persist(ctx context.Context, sides ...competitor.Competitor) {
	var inds []*competitor.Individual
	for _, s := range sides {
		inds = append(inds, s.Individuals()...)
	}
	left, err := l.dir.Persist(ctx, inds...)
	l.settle(inds, left)
	if err != nil {
		l.log.Warn(ctx, "persist deferred", logger.Int("pending_rows", len(l.dirtyOrder)), logger.Error(err))
	}
}

// settle removes written individuals from the dirty set and adds the rest.
func (l *Ledger) settle(attempted, left []*competitor.Individual) {
	failed := make(map[*competitor.Individual]struct{}, len(left))
	for _, ind := range left {
		failed[ind] = struct{}{}
	}
	for _, ind := range attempted {
		if _, bad := failed[ind]; bad {
			if _, seen := l.dirty[ind]; !seen {
				l.dirty[ind] = struct{}{}
				l.dirtyOrder = append(l.dirtyOrder, ind)
			}
			continue
		}
		delete(l.dirty, ind)
	}
	kept := l.dirtyOrder[:0]
	for _, ind := range l.dirtyOrder {
		if _, ok := l.dirty[ind]; ok {
			kept = append(kept, ind)
		}
	}
	l.dirtyOrder = kept
	metrics.UpdateDirtyRows(len(l.dirtyOrder))
}

// Flush retries writing every dirty individual.
func (l *Ledger) Flush(ctx context.Context) error {
	if len(l.dirtyOrder) == 0 {
		return nil
	}
	inds := append([]*competitor.Individual(nil), l.dirtyOrder...)
	left, err := l.dir.Persist(ctx, inds...)
	l.settle(inds, left)
	if err != nil {
		return fmt.Errorf("flush %d rows: %w", len(left), err)
	}
	return nil
}

// Dirty returns the number of individuals waiting to be persisted.
func (l *Ledger) Dirty() int { return len(l.dirtyOrder) }

// Len returns the number of tracked matches.
func (l *Ledger) Len() int { return len(l.order) }

// Matches returns a snapshot of every entry in first-seen order.
func (l *Ledger) Matches() []MatchView {
	out := make([]MatchView, len(l.order))
	for i, e := range l.order {
		out[i] = e.view()
	}
	return out
}

// IsDataError reports whether err is a per-match inconsistency that is retried
// on the next snapshot.
func IsDataError(err error) bool {
	return errors.Is(err, ErrUnresolvedCompetitor) || errors.Is(err, ErrUnknownWinner)
}
