package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Xarpp/ChallongeExportData/internal/adapters/http/api"
	"github.com/Xarpp/ChallongeExportData/internal/adapters/notify"
	"github.com/Xarpp/ChallongeExportData/internal/adapters/repository"
	"github.com/Xarpp/ChallongeExportData/internal/adapters/source/challonge"
	app "github.com/Xarpp/ChallongeExportData/internal/app"
	"github.com/Xarpp/ChallongeExportData/internal/config"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	"github.com/Xarpp/ChallongeExportData/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		os.Stderr.WriteString("chex: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(
		logger.WithOutput(logOutput(cfg)),
		logger.WithFile(cfg.LogFile),
		logger.WithFormat(cfg.LogFormat),
	); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Get()

	if err := metrics.Init(metrics.WithConstLabels(map[string]string{"tournament": cfg.Tournament})); err != nil {
		log.Warn(ctx, "metrics already initialized", logger.Error(err))
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return err
	}

	source := challonge.NewClient(challonge.Config{
		BaseURL:  cfg.ChallongeBaseURL,
		Username: cfg.ChallongeUsername,
		APIKey:   cfg.ChallongeAPIKey,
		Logger:   log.Named("challonge"),
	})

	svc := app.New(cfg.Tournament, source, store, notifier,
		app.WithLogger(log.Named("tournament")),
		app.WithFormat(app.Format(cfg.Format)),
		app.WithTeams(cfg.Teams),
		app.WithPollInterval(cfg.PollInterval()),
		app.WithStartPollInterval(cfg.StartPollInterval()),
		app.WithBackoff(cfg.RetryDelay(), cfg.MaxRetryDelay(), cfg.RetryMultiplier),
		app.WithNotifySpacing(cfg.NotifySpacing()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		log.Info(gctx, "tournament run starting", logger.String("tournament", cfg.Tournament), logger.String("format", cfg.Format))
		return svc.Run(gctx)
	})

	if cfg.Addr != "" {
		srv := newHTTPServer(gctx, cfg, svc)
		g.Go(func() error {
			log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%w: %w", api.ErrServe, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(gctx, "server shutdown failed", logger.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	log.Info(context.Background(), "stopped", logger.Any("stats", svc.GetStats()))
	return err
}

func newHTTPServer(ctx context.Context, cfg *config.Config, svc api.Dependencies) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, cfg.MaxStandingsLimit).Register(ctx, mux)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func logOutput(cfg *config.Config) io.Writer {
	if cfg.LogOutput == config.LogOutputStderr {
		return os.Stderr
	}
	return os.Stdout
}

// openStore opens the configured rating store. The memory store forgets every
// rating when the process exits, so choosing it is logged at warn.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	if cfg.Store != config.StorePostgres {
		log.Warn(ctx, "memory store in use, ratings are not kept between runs", logger.String("roster", cfg.Roster))
		return repository.NewMemoryStore(), nil
	}
	pg, err := repository.OpenPostgres(ctx, cfg.DatabaseURL, repository.WithRoster(cfg.Roster))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return pg, nil
}

// newNotifier picks the configured announcement sink.
func newNotifier(cfg *config.Config, log logger.Logger) (app.Notifier, error) {
	if cfg.Notifier != config.NotifierDiscord {
		return notify.NewLogNotifier(log.Named("notify")), nil
	}
	d, err := notify.NewDiscord(cfg.WebhookURL, notify.WithColor(cfg.EmbedColor))
	if err != nil {
		return nil, fmt.Errorf("discord notifier: %w", err)
	}
	return d, nil
}
