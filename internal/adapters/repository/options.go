package repository

import "time"

// Option applies a configuration option to the PostgresStore.
type Option func(*PostgresStore)

// WithRoster scopes every query to one roster.
func WithRoster(roster string) Option {
	return func(s *PostgresStore) {
		if roster != "" {
			s.roster = roster
		}
	}
}

// WithQueryTimeout bounds each statement.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *PostgresStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxConns caps the pool size.
func WithMaxConns(n int32) Option {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxConns = n
		}
	}
}
