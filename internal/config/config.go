// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Durations are configured in milliseconds and exposed as time.Duration helpers.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Tournament formats.
const (
	FormatSolo = "solo"
	FormatTeam = "team"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Console log streams.
const (
	LogOutputStdout = "stdout"
	LogOutputStderr = "stderr"
)

// Notifier kinds.
const (
	NotifierDiscord = "discord"
	NotifierLog     = "log"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFile mirrors logs into a file when set.
	LogFile string `koanf:"log_file"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogOutput is the console stream: stdout or stderr.
	LogOutput string `koanf:"log_output"`

	// Addr configures the HTTP status listen address, e.g. ":9080". Empty disables it.
	Addr string `koanf:"addr"`
	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// Tournament is the remote tournament id or url slug.
	Tournament string `koanf:"tournament"`
	// Roster scopes persisted rows, e.g. one sheet per league.
	Roster string `koanf:"roster"`
	// Format is solo or team.
	Format string `koanf:"format"`
	// Teams maps a remote team name to its ordered member names.
	Teams map[string][]string `koanf:"teams"`

	ChallongeBaseURL  string `koanf:"challonge_base_url"`
	ChallongeUsername string `koanf:"challonge_username"`
	ChallongeAPIKey   string `koanf:"challonge_api_key"`

	// Store is memory or postgres.
	Store       string `koanf:"store"`
	DatabaseURL string `koanf:"database_url"`

	// Notifier is discord or log.
	Notifier   string `koanf:"notifier"`
	WebhookURL string `koanf:"webhook_url"`
	EmbedColor int    `koanf:"embed_color"`

	PollIntervalMS      int     `koanf:"poll_interval_ms"`
	StartPollIntervalMS int     `koanf:"start_poll_interval_ms"`
	RetryDelayMS        int     `koanf:"retry_delay_ms"`
	MaxRetryDelayMS     int     `koanf:"max_retry_delay_ms"`
	RetryMultiplier     float64 `koanf:"retry_multiplier"`
	NotifySpacingMS     int     `koanf:"notify_spacing_ms"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		LogOutput:           LogOutputStdout,
		Addr:                ":9080",
		MaxStandingsLimit:   100,
		Roster:              "default",
		Format:              FormatSolo,
		Store:               StoreMemory,
		Notifier:            NotifierLog,
		EmbedColor:          0x3498DB,
		PollIntervalMS:      2000,
		StartPollIntervalMS: 2000,
		RetryDelayMS:        5000,
		MaxRetryDelayMS:     60000,
		RetryMultiplier:     2,
		NotifySpacingMS:     1000,
	}
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// PollInterval is the pause between ticks.
func (c *Config) PollInterval() time.Duration { return ms(c.PollIntervalMS) }

// StartPollInterval is the pause between checks while the tournament has not started.
func (c *Config) StartPollInterval() time.Duration { return ms(c.StartPollIntervalMS) }

// RetryDelay is the first backoff delay after a failed tick.
func (c *Config) RetryDelay() time.Duration { return ms(c.RetryDelayMS) }

// MaxRetryDelay caps the backoff delay.
func (c *Config) MaxRetryDelay() time.Duration { return ms(c.MaxRetryDelayMS) }

// NotifySpacing is the pause between two notifications.
func (c *Config) NotifySpacing() time.Duration { return ms(c.NotifySpacingMS) }
