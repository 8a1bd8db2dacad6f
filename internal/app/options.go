package service

import (
	"time"

	"github.com/Xarpp/ChallongeExportData/pkg/logger"
)

// Format selects how participants map to competitors.
type Format string

// Formats.
const (
	FormatSolo Format = "solo"
	FormatTeam Format = "team"
)

const (
	defaultPollInterval      = 2 * time.Second
	defaultStartPollInterval = 2 * time.Second
	defaultRetryDelay        = 5 * time.Second
	defaultMaxRetryDelay     = 60 * time.Second
	defaultRetryMultiplier   = 2.0
	defaultNotifySpacing     = time.Second
)

// Option applies a configuration option to the Tournament.
type Option func(*Tournament)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(t *Tournament) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithFormat selects solo or team resolution.
func WithFormat(f Format) Option {
	return func(t *Tournament) {
		if f == FormatSolo || f == FormatTeam {
			t.format = f
		}
	}
}

// WithTeams sets the team roster keyed by the participant name of each team.
func WithTeams(teams map[string][]string) Option {
	return func(t *Tournament) {
		t.teams = make(map[string][]string, len(teams))
		for name, members := range teams {
			t.teams[name] = append([]string(nil), members...)
		}
	}
}

// WithPollInterval sets the pause between ticks.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tournament) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithStartPollInterval sets the pause between checks while the tournament is pending.
func WithStartPollInterval(d time.Duration) Option {
	return func(t *Tournament) {
		if d > 0 {
			t.startPollInterval = d
		}
	}
}

// WithBackoff configures retry delays for transient failures.
func WithBackoff(initial, maxDelay time.Duration, multiplier float64) Option {
	return func(t *Tournament) {
		if initial > 0 {
			t.retryDelay = initial
		}
		if maxDelay > 0 {
			t.maxRetryDelay = maxDelay
		}
		if multiplier >= 1 {
			t.retryMultiplier = multiplier
		}
	}
}

// WithNotifySpacing sets the pause between two notifications.
func WithNotifySpacing(d time.Duration) Option {
	return func(t *Tournament) {
		if d >= 0 {
			t.notifySpacing = d
		}
	}
}

// WithDirectoryIDs overrides how team members get synthetic ids. Tests only.
func WithDirectoryIDs(gen func() string) Option {
	return func(t *Tournament) {
		t.newID = gen
	}
}
