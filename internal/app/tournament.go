// Package service runs one tournament: it resolves the bracket against the
// rating directory, polls the tournament source and reconciles every match
// through the ledger, announcing what changed.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Xarpp/ChallongeExportData/internal/domain/directory"
	"github.com/Xarpp/ChallongeExportData/internal/domain/ledger"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	"github.com/Xarpp/ChallongeExportData/pkg/metrics"
)

// Source is the remote tournament API.
type Source interface {
	ShowTournament(ctx context.Context, urlOrID string) (model.Tournament, error)
	ListParticipants(ctx context.Context, tournamentID string) ([]model.Participant, error)
	ListMatches(ctx context.Context, tournamentID string) ([]model.RemoteMatch, error)
}

// Notifier delivers announcements.
type Notifier interface {
	Send(ctx context.Context, msg model.Message) error
}

// Ledger is the match state machine a run feeds snapshots through.
type Ledger interface {
	Observe(ctx context.Context, rm model.RemoteMatch) (ledger.Transition, error)
	Flush(ctx context.Context) error
	Len() int
	Dirty() int
	Matches() []ledger.MatchView
}

func newLedger(dir ledger.Directory, opts ...ledger.Option) Ledger {
	return ledger.New(dir, opts...)
}

// Status describes the recent health of the reconciliation loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Ticks               int
}

// Tournament owns one run. Reads from the HTTP layer take the read lock;
// the loop mutates the directory and ledger under the write lock.
type Tournament struct {
	mu sync.RWMutex

	// Core components
	ref      string
	source   Source
	store    directory.RowStore
	notifier Notifier

	// Configuration
	format            Format
	teams             map[string][]string
	newID             func() string
	newLedger         func(dir ledger.Directory, opts ...ledger.Option) Ledger
	pollInterval      time.Duration
	startPollInterval time.Duration
	retryDelay        time.Duration
	maxRetryDelay     time.Duration
	retryMultiplier   float64
	notifySpacing     time.Duration

	// State
	running bool
	info    model.Tournament
	dir     *directory.Directory
	ledger  Ledger
	status  Status

	// Logging
	logger logger.Logger
}

// New creates a Tournament for the given url or id.
func New(ref string, source Source, store directory.RowStore, notifier Notifier, opts ...Option) *Tournament {
	t := &Tournament{
		ref:               ref,
		source:            source,
		store:             store,
		notifier:          notifier,
		format:            FormatSolo,
		teams:             map[string][]string{},
		pollInterval:      defaultPollInterval,
		startPollInterval: defaultStartPollInterval,
		retryDelay:        defaultRetryDelay,
		maxRetryDelay:     defaultMaxRetryDelay,
		retryMultiplier:   defaultRetryMultiplier,
		notifySpacing:     defaultNotifySpacing,
		newLedger:         newLedger,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// stepError tags a transient failure with the step that produced it.
type stepError struct {
	kind string
	err  error
}

func (e *stepError) Error() string { return e.kind + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func step(kind string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return backoff.Permanent(err)
	}
	return &stepError{kind: kind, err: err}
}

// Run drives the tournament until it completes, the context is cancelled or
// an unrecoverable error occurs. A tournament that is already complete
// returns immediately.
func (t *Tournament) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.running = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	info, err := t.showTournament(ctx, t.ref)
	if err != nil {
		return err
	}
	t.setInfo(info)
	if info.State == model.StateComplete {
		t.logger.Info(ctx, "tournament already complete", logger.String("tournament", info.ID))
		return nil
	}

	dir := directory.New(t.store, t.directoryOptions()...)
	if err := dir.Load(ctx); err != nil {
		return fmt.Errorf("load directory: %w", err)
	}

	if info, err = t.waitStart(ctx, info); err != nil {
		return err
	}
	if err := t.resolve(ctx, dir, info.ID); err != nil {
		return err
	}
	t.logger.Info(ctx, "tournament started", logger.String("tournament", info.ID), logger.String("name", info.Name))
	if err := t.announce(ctx, []model.Message{t.roster(TitleLineup)}); err != nil {
		return err
	}

	if err := t.loop(ctx, info.ID); err != nil {
		return err
	}
	t.logger.Info(ctx, "tournament is over", logger.String("tournament", info.ID))
	return t.announce(ctx, []model.Message{t.roster(TitleFinal)})
}

func (t *Tournament) directoryOptions() []directory.Option {
	opts := []directory.Option{directory.WithLogger(t.logger.Named("directory"))}
	if t.newID != nil {
		opts = append(opts, directory.WithIDGenerator(t.newID))
	}
	return opts
}

func (t *Tournament) showTournament(ctx context.Context, ref string) (model.Tournament, error) {
	var info model.Tournament
	err := t.retry(ctx, func() error {
		var err error
		info, err = t.source.ShowTournament(ctx, ref)
		switch {
		case errors.Is(err, model.ErrNotFound):
			return backoff.Permanent(fmt.Errorf("%w: %s: %w", ErrTournamentNotFound, ref, err))
		case err != nil:
			return step("state", err)
		}
		return nil
	})
	return info, err
}

// waitStart polls while the tournament is still pending.
func (t *Tournament) waitStart(ctx context.Context, info model.Tournament) (model.Tournament, error) {
	for info.State == model.StatePending {
		t.logger.Debug(ctx, "waiting for tournament start", logger.String("tournament", info.ID))
		if err := sleep(ctx, t.startPollInterval); err != nil {
			return info, err
		}
		var err error
		if info, err = t.showTournament(ctx, info.ID); err != nil {
			return info, err
		}
		t.setInfo(info)
	}
	return info, nil
}

// resolve binds every participant to a competitor. Persistence failures here
// are fatal.
func (t *Tournament) resolve(ctx context.Context, dir *directory.Directory, id string) error {
	var participants []model.Participant
	err := t.retry(ctx, func() error {
		var err error
		if participants, err = t.source.ListParticipants(ctx, id); err != nil {
			return step("participants", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range participants {
		if t.format == FormatTeam {
			members := t.teams[p.Name]
			if len(members) == 0 {
				return fmt.Errorf("%w: %s", ErrUnknownTeam, p.Name)
			}
			if _, err := dir.ResolveTeam(ctx, p.ID, p.Name, members); err != nil {
				return fmt.Errorf("resolve team %s: %w", p.Name, err)
			}
			continue
		}
		if _, err := dir.ResolveIndividual(ctx, p.ID, p.Name); err != nil {
			return fmt.Errorf("resolve participant %s: %w", p.Name, err)
		}
	}
	if len(participants) == 0 {
		t.logger.Warn(ctx, "tournament has no participants", logger.String("tournament", id))
	}

	t.mu.Lock()
	t.dir = dir
	t.ledger = t.newLedger(dir, ledger.WithLogger(t.logger.Named("ledger")))
	t.mu.Unlock()
	metrics.UpdateCompetitors(len(dir.Competitors()))
	return nil
}

func (t *Tournament) loop(ctx context.Context, id string) error {
	for {
		var done bool
		err := t.retry(ctx, func() error {
			var err error
			done, err = t.tick(ctx, id)
			return err
		})
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := sleep(ctx, t.pollInterval); err != nil {
			return err
		}
	}
}

// tick runs one reconciliation pass and reports whether the tournament is complete.
func (t *Tournament) tick(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	matches, err := t.source.ListMatches(ctx, id)
	if err != nil {
		return false, step("fetch", err)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].State.Priority() < matches[j].State.Priority()
	})

	msgs, err := t.reconcile(ctx, matches)
	if err != nil {
		t.logger.Error(ctx, "ledger corrupted, aborting run", logger.Error(err))
		return false, backoff.Permanent(err)
	}
	flushErr := t.flush(ctx)
	if err := t.announce(ctx, msgs); err != nil {
		return false, backoff.Permanent(err)
	}
	if flushErr != nil {
		return false, step("flush", flushErr)
	}

	info, err := t.source.ShowTournament(ctx, id)
	if err != nil {
		return false, step("state", err)
	}
	t.mu.Lock()
	t.info = info
	t.status.Ticks++
	t.mu.Unlock()
	metrics.RecordTick(float64(time.Since(start).Microseconds()) / 1000)
	return info.State == model.StateComplete, nil
}

// reconcile feeds a snapshot through the ledger and renders the announcements
// while ratings still reflect this pass.
func (t *Tournament) reconcile(ctx context.Context, matches []model.RemoteMatch) ([]model.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var msgs []model.Message
	for _, rm := range matches {
		tr, err := t.ledger.Observe(ctx, rm)
		if err != nil {
			if ledger.IsDataError(err) {
				metrics.RecordTickError("data")
				t.logger.Warn(ctx, "match skipped", logger.String("match", rm.ID), logger.Error(err))
				continue
			}
			return nil, err
		}
		if msg, ok := transitionMessage(tr, t.format); ok {
			t.logger.Info(ctx, "match transition",
				logger.String("match", tr.MatchID),
				logger.String("kind", string(tr.Kind)),
				logger.Bool("refunded", tr.Refunded),
			)
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// flush retries rows left unwritten by earlier passes.
func (t *Tournament) flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Flush(ctx)
}

// announce sends messages in order, pausing between them. A failed send is
// retried with backoff until it is delivered; only cancellation stops it.
func (t *Tournament) announce(ctx context.Context, msgs []model.Message) error {
	for i, msg := range msgs {
		if i > 0 {
			if err := sleep(ctx, t.notifySpacing); err != nil {
				return err
			}
		}
		err := t.retry(ctx, func() error {
			err := t.notifier.Send(ctx, msg)
			metrics.RecordNotification(err)
			if err != nil {
				return step("notify", fmt.Errorf("send %q: %w", msg.Title, err))
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tournament) roster(title string) model.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return rosterMessage(title, t.dir.Competitors(), t.format)
}

// retry runs op until it succeeds, returns a permanent error or ctx ends.
func (t *Tournament) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.retryDelay
	b.Multiplier = t.retryMultiplier
	b.MaxInterval = t.maxRetryDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0

	attempt := func() error {
		start := time.Now()
		t.recordAttempt(start)
		if err := op(); err != nil {
			return err
		}
		t.recordSuccess(start)
		return nil
	}
	notify := func(err error, next time.Duration) {
		kind := "unknown"
		var se *stepError
		if errors.As(err, &se) {
			kind = se.kind
		}
		metrics.RecordTickError(kind)
		t.recordFailure(err)
		t.logger.Warn(ctx, "transient failure, retrying",
			logger.String("step", kind),
			logger.Duration("retry_in", next),
			logger.Error(err),
		)
	}
	return backoff.RetryNotify(attempt, backoff.WithContext(b, ctx), notify)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (t *Tournament) setInfo(info model.Tournament) {
	t.mu.Lock()
	t.info = info
	t.mu.Unlock()
}

func (t *Tournament) recordAttempt(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.LastAttempt = at
}

func (t *Tournament) recordSuccess(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ConsecutiveFailures = 0
	t.status.LastError = ""
	t.status.LastSuccess = at
}

func (t *Tournament) recordFailure(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ConsecutiveFailures++
	if err != nil {
		t.status.LastError = err.Error()
	}
}
