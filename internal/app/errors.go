package service

import (
	"errors"
	"fmt"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// Sentinel errors for the tournament service.
var (
	ErrAlreadyRunning     = errors.New("tournament run already in progress")
	ErrUnknownTeam        = errors.New("team has no configured members")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrCompetitorNotFound = fmt.Errorf("competitor %w", model.ErrNotFound)
)
