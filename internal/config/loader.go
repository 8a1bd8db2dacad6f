package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "CHEX_"
	envConfigFile = envPrefix + "CONFIG"
	envDotFile    = envPrefix + "ENV_FILE"
	defaultDotEnv = ".env"
)

// Load builds a Config by layering defaults, optional dotenv, optional file,
// and env vars. Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. .env file (or CHEX_ENV_FILE) exported into the environment, never
//     overriding variables that are already set
//  3. file (YAML) if CHEX_CONFIG is set
//  4. env (prefix CHEX_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CHEX_POLL_INTERVAL_MS -> poll_interval_ms (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv(envDotFile)
	if path == "" {
		path = defaultDotEnv
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
}

// Validate checks the configuration for a run.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	c.LogOutput = strings.ToLower(strings.TrimSpace(c.LogOutput))

	if strings.TrimSpace(c.Tournament) == "" {
		return invalid("tournament must not be empty")
	}
	if c.Roster == "" {
		return invalid("roster must not be empty")
	}

	if c.LogOutput != LogOutputStdout && c.LogOutput != LogOutputStderr {
		return invalid("unknown log_output %q", c.LogOutput)
	}

	switch c.Format {
	case FormatSolo:
	case FormatTeam:
		if len(c.Teams) == 0 {
			return invalid("team format needs at least one team")
		}
		for name, members := range c.Teams {
			if len(members) == 0 {
				return invalid("team %q has no members", name)
			}
		}
	default:
		return invalid("unknown format %q", c.Format)
	}

	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return invalid("postgres store needs database_url")
		}
	default:
		return invalid("unknown store %q", c.Store)
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierDiscord:
		if c.WebhookURL == "" {
			return invalid("discord notifier needs webhook_url")
		}
	default:
		return invalid("unknown notifier %q", c.Notifier)
	}

	if c.PollIntervalMS <= 0 || c.StartPollIntervalMS <= 0 || c.RetryDelayMS <= 0 {
		return invalid("poll and retry intervals must be positive")
	}
	if c.MaxRetryDelayMS < c.RetryDelayMS {
		return invalid("max_retry_delay_ms must be >= retry_delay_ms")
	}
	if c.RetryMultiplier < 1 {
		return invalid("retry_multiplier must be >= 1")
	}
	if c.NotifySpacingMS < 0 {
		return invalid("notify_spacing_ms must not be negative")
	}
	if c.MaxStandingsLimit <= 0 {
		return invalid("max_standings_limit must be positive")
	}
	return nil
}
