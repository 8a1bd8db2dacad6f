// Package challonge reads tournaments, participants and matches from the
// Challonge v1 REST API.
package challonge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	"github.com/Xarpp/ChallongeExportData/pkg/metrics"
)

// Config controls how the client reaches the API.
type Config struct {
	BaseURL    string
	Username   string
	APIKey     string
	HTTPClient *http.Client
	// Logger receives warnings about records that are skipped. Defaults to a no-op.
	Logger logger.Logger
}

// Client is a read-only Challonge API client.
type Client struct {
	baseURL    string
	username   string
	apiKey     string
	httpClient httpDoer
	log        logger.Logger
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		log:        resolveLogger(cfg.Logger),
	}
}

// ShowTournament fetches a tournament by numeric id or url slug.
func (c *Client) ShowTournament(ctx context.Context, urlOrID string) (model.Tournament, error) {
	var env tournamentEnvelope
	if err := c.get(ctx, "show_tournament", "/tournaments/"+url.PathEscape(urlOrID)+".json", &env); err != nil {
		return model.Tournament{}, err
	}
	return mapTournament(env.Tournament), nil
}

// ListParticipants fetches the bracket slots of a tournament.
func (c *Client) ListParticipants(ctx context.Context, tournamentID string) ([]model.Participant, error) {
	var envs []participantEnvelope
	if err := c.get(ctx, "list_participants", "/tournaments/"+url.PathEscape(tournamentID)+"/participants.json", &envs); err != nil {
		return nil, err
	}
	out := make([]model.Participant, 0, len(envs))
	for _, e := range envs {
		out = append(out, mapParticipant(e.Participant))
	}
	return out, nil
}

// ListMatches fetches every match of a tournament in remote order. Records
// that fail validation are skipped and logged so the rest of the bracket
// still reconciles.
func (c *Client) ListMatches(ctx context.Context, tournamentID string) ([]model.RemoteMatch, error) {
	var envs []matchEnvelope
	if err := c.get(ctx, "list_matches", "/tournaments/"+url.PathEscape(tournamentID)+"/matches.json", &envs); err != nil {
		return nil, err
	}
	out := make([]model.RemoteMatch, 0, len(envs))
	for _, e := range envs {
		m, err := mapMatch(e.Match)
		if err != nil {
			metrics.RecordErrorByComponent("challonge", "invalid_match")
			c.log.Warn(ctx, "match record skipped", logger.String("tournament", tournamentID), logger.Error(err))
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, into any) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordSourceRequest(op, float64(time.Since(start).Microseconds())/1000, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" || c.apiKey != "" {
		req.SetBasicAuth(c.username, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("challonge %s: %w", op, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("challonge %s %s: %w", op, path, model.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w %d on %s: %s", ErrUnexpectedStatus, resp.StatusCode, op, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: decode %s: %w", model.ErrInvalidRecord, op, err)
	}
	return nil
}

func resolveLogger(l logger.Logger) logger.Logger {
	if l != nil {
		return l
	}
	return logger.Nop()
}
