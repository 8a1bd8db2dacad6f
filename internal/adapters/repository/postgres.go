package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

//go:embed schema.sql
var schema embed.FS

const (
	defaultRoster       = "default"
	defaultQueryTimeout = 5 * time.Second
	uniqueViolation     = "23505"
)

// PostgresStore keeps rows in a competitor_rows table, scoped by roster.
type PostgresStore struct {
	pool     *pgxpool.Pool
	roster   string
	timeout  time.Duration
	maxConns int32
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	s := &PostgresStore{roster: defaultRoster, timeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if s.maxConns > 0 {
		cfg.MaxConns = s.maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadAllRows(ctx context.Context) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
		SELECT name, rating, calibration, matches_played, matches_won, tournaments_played
		  FROM competitor_rows
		 WHERE roster = $1
		 ORDER BY position
	`, s.roster)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Row])
	if err != nil {
		return nil, fmt.Errorf("scan rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AppendRow(ctx context.Context, row model.Row) error {
	if err := validate(row); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO competitor_rows(roster, name, rating, calibration, matches_played, matches_won, tournaments_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.roster, row.Name, row.Rating, row.Calibration, row.MatchesPlayed, row.MatchesWon, row.TournamentsPlayed)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateRow, row.Name)
	}
	if err != nil {
		return fmt.Errorf("append %s: %w", row.Name, err)
	}
	return nil
}

func (s *PostgresStore) UpdateRowByName(ctx context.Context, row model.Row) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
		UPDATE competitor_rows
		   SET rating = $3,
		       calibration = $4,
		       matches_played = $5,
		       matches_won = $6,
		       tournaments_played = $7,
		       updated_at = now()
		 WHERE roster = $1 AND name = $2
	`, s.roster, row.Name, row.Rating, row.Calibration, row.MatchesPlayed, row.MatchesWon, row.TournamentsPlayed)
	if err != nil {
		return fmt.Errorf("update %s: %w", row.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, row.Name)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
