// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// MatchState is the lifecycle state of a remote match or tournament.
type MatchState string

// Remote states. Tournaments use the same vocabulary; anything that is not
// pending or complete is treated as in progress.
const (
	StatePending  MatchState = "pending"
	StateOpen     MatchState = "open"
	StateComplete MatchState = "complete"
)

// ParseMatchState validates a remote match state.
func ParseMatchState(s string) (MatchState, error) {
	switch st := MatchState(strings.ToLower(strings.TrimSpace(s))); st {
	case StatePending, StateOpen, StateComplete:
		return st, nil
	default:
		return "", fmt.Errorf("%w: match state %q", ErrInvalidRecord, s)
	}
}

// Priority orders matches inside a tick: pending first, then complete, then open.
// Refunds land before applications, and finished results before new predictions.
func (s MatchState) Priority() int {
	switch s {
	case StatePending:
		return 0
	case StateComplete:
		return 1
	default:
		return 2
	}
}

// Tournament is the remote tournament header.
type Tournament struct {
	ID    string
	URL   string
	Name  string
	State MatchState
}

// Participant is one bracket slot: a player in solo mode or a team in team mode.
type Participant struct {
	ID   string
	Name string
}

// RemoteMatch is one match as reported by the tournament source.
// Player ids and WinnerID are empty when not yet known.
type RemoteMatch struct {
	ID        string
	Player1ID string
	Player2ID string
	State     MatchState
	WinnerID  string
	UpdatedAt time.Time
}

// Row is the persisted shape of one individual competitor.
type Row struct {
	Name              string
	Rating            int
	Calibration       int
	MatchesPlayed     int
	MatchesWon        int
	TournamentsPlayed int
}

// Message is a human-readable notification.
type Message struct {
	Title       string
	Description string
	Footer      string
}
