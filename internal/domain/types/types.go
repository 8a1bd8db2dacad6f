// Package types contains the read shapes served by the status API.
package types

import "time"

// Standing is one individual in the rating table.
type Standing struct {
	Rank              int    `json:"rank"`
	Name              string `json:"name"`
	Rating            int    `json:"rating"`
	Calibration       int    `json:"calibration"`
	MatchesPlayed     int    `json:"matches_played"`
	MatchesWon        int    `json:"matches_won"`
	TournamentsPlayed int    `json:"tournaments_played"`
}

// Match is one tracked match as the ledger sees it.
type Match struct {
	ID           string    `json:"id"`
	State        string    `json:"state"`
	Side1        string    `json:"side1,omitempty"`
	Side2        string    `json:"side2,omitempty"`
	Winner       string    `json:"winner,omitempty"`
	Delta1       int       `json:"delta1"`
	Delta2       int       `json:"delta2"`
	NotifiedOpen bool      `json:"notified_open"`
	Untracked    bool      `json:"untracked,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WinRate returns won/played, zero before the first match.
func (s Standing) WinRate() float64 {
	if s.MatchesPlayed == 0 {
		return 0
	}
	return float64(s.MatchesWon) / float64(s.MatchesPlayed)
}
