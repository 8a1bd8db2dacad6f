package challonge

import "time"

type tournamentEnvelope struct {
	Tournament tournamentResponse `json:"tournament"`
}

type tournamentResponse struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type participantEnvelope struct {
	Participant participantResponse `json:"participant"`
}

type participantResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

type matchEnvelope struct {
	Match matchResponse `json:"match"`
}

// Player and winner ids are null until the bracket fills them in.
type matchResponse struct {
	ID        int64      `json:"id"`
	State     string     `json:"state"`
	Player1ID *int64     `json:"player1_id"`
	Player2ID *int64     `json:"player2_id"`
	WinnerID  *int64     `json:"winner_id"`
	UpdatedAt *time.Time `json:"updated_at"`
}
