package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Xarpp/ChallongeExportData/internal/domain/ledger"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

var errFlaky = errors.New("connection reset")

// fakeSource replays scripted tournament states and match snapshots. The last
// entry of each script repeats.
type fakeSource struct {
	mu           sync.Mutex
	tournament   model.Tournament
	states       []model.MatchState
	participants []model.Participant
	snapshots    [][]model.RemoteMatch
	failMatches  int
	showErr      error
	shows        int
	lists        int
}

func (f *fakeSource) ShowTournament(_ context.Context, ref string) (model.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.showErr != nil {
		return model.Tournament{}, f.showErr
	}
	t := f.tournament
	t.State = f.states[min(f.shows, len(f.states)-1)]
	f.shows++
	return t, nil
}

func (f *fakeSource) ListParticipants(_ context.Context, _ string) ([]model.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Participant(nil), f.participants...), nil
}

func (f *fakeSource) ListMatches(_ context.Context, _ string) ([]model.RemoteMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMatches > 0 {
		f.failMatches--
		return nil, errFlaky
	}
	snap := f.snapshots[min(f.lists, len(f.snapshots)-1)]
	f.lists++
	return append([]model.RemoteMatch(nil), snap...), nil
}

// fakeNotifier records delivered messages. failures holds how many times a
// title is rejected before it goes through; err rejects everything.
type fakeNotifier struct {
	mu       sync.Mutex
	sent     []model.Message
	calls    int
	failures map[string]int
	err      error
}

func (n *fakeNotifier) Send(_ context.Context, msg model.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.err != nil {
		return n.err
	}
	if n.failures[msg.Title] > 0 {
		n.failures[msg.Title]--
		return errors.New("webhook 502")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) messages() []model.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Message(nil), n.sent...)
}

var (
	ts1 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ts2 = ts1.Add(time.Minute)
)

func match(id string, state model.MatchState, winner string, at time.Time) model.RemoteMatch {
	return model.RemoteMatch{ID: id, Player1ID: "p1", Player2ID: "p2", State: state, WinnerID: winner, UpdatedAt: at}
}

func fastOptions() []Option {
	return []Option{
		WithPollInterval(time.Millisecond),
		WithStartPollInterval(time.Millisecond),
		WithBackoff(time.Millisecond, 4*time.Millisecond, 2),
		WithNotifySpacing(0),
	}
}

// brokenLedger fails every observation with an invariant violation.
type brokenLedger struct {
	observed int
}

func (l *brokenLedger) Observe(_ context.Context, rm model.RemoteMatch) (ledger.Transition, error) {
	l.observed++
	return ledger.Transition{}, fmt.Errorf("%w: match %s has no recorded outcome", ledger.ErrLedgerCorrupted, rm.ID)
}

func (l *brokenLedger) Flush(context.Context) error { return nil }
func (l *brokenLedger) Len() int                    { return 0 }
func (l *brokenLedger) Dirty() int                  { return 0 }
func (l *brokenLedger) Matches() []ledger.MatchView { return nil }
