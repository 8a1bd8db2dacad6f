package challonge

import (
	"fmt"
	"strconv"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// mapTournamentState folds the many remote tournament states onto the three
// the engine cares about.
func mapTournamentState(s string) model.MatchState {
	switch s {
	case "pending":
		return model.StatePending
	case "complete":
		return model.StateComplete
	default:
		return model.StateOpen
	}
}

func mapTournament(t tournamentResponse) model.Tournament {
	return model.Tournament{
		ID:    formatID(t.ID),
		URL:   t.URL,
		Name:  t.Name,
		State: mapTournamentState(t.State),
	}
}

func mapParticipant(p participantResponse) model.Participant {
	name := p.Name
	if name == "" {
		name = p.DisplayName
	}
	if name == "" {
		name = p.Username
	}
	return model.Participant{ID: formatID(p.ID), Name: name}
}

func mapMatch(m matchResponse) (model.RemoteMatch, error) {
	state, err := model.ParseMatchState(m.State)
	if err != nil {
		return model.RemoteMatch{}, fmt.Errorf("match %d: %w", m.ID, err)
	}
	if m.UpdatedAt == nil {
		return model.RemoteMatch{}, fmt.Errorf("%w: match %d has no updated_at", model.ErrInvalidRecord, m.ID)
	}
	return model.RemoteMatch{
		ID:        formatID(m.ID),
		Player1ID: optionalID(m.Player1ID),
		Player2ID: optionalID(m.Player2ID),
		State:     state,
		WinnerID:  optionalID(m.WinnerID),
		UpdatedAt: *m.UpdatedAt,
	}, nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func optionalID(id *int64) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}
