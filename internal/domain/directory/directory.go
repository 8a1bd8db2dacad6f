// Package directory owns the competitors of one tournament run and keeps them
// in step with the persisted rows.
package directory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Xarpp/ChallongeExportData/internal/domain/competitor"
	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	"github.com/Xarpp/ChallongeExportData/pkg/metrics"
)

// RowStore persists one row per individual, keyed by name.
type RowStore interface {
	ReadAllRows(ctx context.Context) ([]model.Row, error)
	AppendRow(ctx context.Context, row model.Row) error
	UpdateRowByName(ctx context.Context, row model.Row) error
}

// Directory resolves remote participants to competitors. It is not safe for
// concurrent use; the owning service serializes access.
type Directory struct {
	store RowStore
	log   logger.Logger
	newID func() string

	rows   map[string]model.Row
	byName map[string]*competitor.Individual
	byID   map[string]competitor.Competitor
	slots  []competitor.Competitor
	people []*competitor.Individual
	loaded bool
}

// New creates a Directory over store.
func New(store RowStore, opts ...Option) *Directory {
	d := &Directory{
		store:  store,
		log:    logger.Nop(),
		newID:  defaultIDGenerator,
		rows:   make(map[string]model.Row),
		byName: make(map[string]*competitor.Individual),
		byID:   make(map[string]competitor.Competitor),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load reads the persisted rows. Blank names are ignored and the first row
// wins when a name repeats.
func (d *Directory) Load(ctx context.Context) error {
	start := time.Now()
	rows, err := d.store.ReadAllRows(ctx)
	metrics.RecordPersistence("read_all", sinceMs(start), err)
	if err != nil {
		return fmt.Errorf("%w: read rows: %w", ErrDirectoryUnavailable, err)
	}
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		if _, dup := d.rows[r.Name]; dup {
			d.log.Warn(ctx, "duplicate persisted row ignored", logger.String("name", r.Name))
			continue
		}
		d.rows[r.Name] = r
	}
	d.loaded = true
	d.log.Debug(ctx, "persisted rows loaded", logger.Int("rows", len(d.rows)))
	return nil
}

// ResolveIndividual binds a remote solo participant to an Individual.
func (d *Directory) ResolveIndividual(ctx context.Context, remoteID, name string) (*competitor.Individual, error) {
	ind, err := d.resolve(ctx, remoteID, name)
	if err != nil {
		return nil, err
	}
	d.register(remoteID, ind)
	return ind, nil
}

// ResolveTeam binds a remote team participant to a Team over the named members.
// Members get synthetic ids; only the team is addressable by remote id.
func (d *Directory) ResolveTeam(ctx context.Context, remoteID, name string, memberNames []string) (*competitor.Team, error) {
	if existing, ok := d.byID[remoteID].(*competitor.Team); ok {
		return existing, nil
	}
	members := make([]*competitor.Individual, 0, len(memberNames))
	for _, m := range memberNames {
		ind, err := d.resolve(ctx, d.newID(), m)
		if err != nil {
			return nil, err
		}
		members = append(members, ind)
	}
	team := competitor.NewTeam(remoteID, name, members...)
	d.register(remoteID, team)
	d.log.Debug(ctx, "team resolved",
		logger.String("team", name), logger.Int("members", len(members)), logger.Int("rating", team.Rating()))
	return team, nil
}

func (d *Directory) resolve(ctx context.Context, id, name string) (*competitor.Individual, error) {
	if !d.loaded {
		if err := d.Load(ctx); err != nil {
			return nil, err
		}
	}
	if ind, ok := d.byName[name]; ok {
		ind.Rebind(id)
		return ind, nil
	}

	row, known := d.rows[name]
	var ind *competitor.Individual
	if known {
		row.TournamentsPlayed++
		ind = competitor.NewIndividual(id, row)
		if err := d.call(ctx, "update", row, d.store.UpdateRowByName); err != nil {
			return nil, err
		}
		d.log.Debug(ctx, "competitor hydrated", logger.String("name", name), logger.Int("rating", row.Rating))
	} else {
		row = competitor.Fresh(name)
		ind = competitor.NewIndividual(id, row)
		if err := d.call(ctx, "append", row, d.store.AppendRow); err != nil {
			return nil, err
		}
		d.log.Debug(ctx, "competitor created", logger.String("name", name))
	}
	d.rows[name] = row
	d.byName[name] = ind
	d.people = append(d.people, ind)
	return ind, nil
}

func (d *Directory) register(id string, c competitor.Competitor) {
	if _, seen := d.byID[id]; !seen {
		d.slots = append(d.slots, c)
	}
	d.byID[id] = c
}

func (d *Directory) call(ctx context.Context, op string, row model.Row, fn func(context.Context, model.Row) error) error {
	start := time.Now()
	err := fn(ctx, row)
	metrics.RecordPersistence(op, sinceMs(start), err)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrDirectoryUnavailable, op, row.Name, err)
	}
	return nil
}

// Lookup returns the competitor bound to a remote participant id.
func (d *Directory) Lookup(id string) (competitor.Competitor, bool) {
	c, ok := d.byID[id]
	return c, ok
}

// Competitors returns the bracket slots in resolution order.
func (d *Directory) Competitors() []competitor.Competitor {
	return append([]competitor.Competitor(nil), d.slots...)
}

// Individuals returns every resolved individual, highest rating first.
// Ties keep resolution order.
func (d *Directory) Individuals() []*competitor.Individual {
	out := append([]*competitor.Individual(nil), d.people...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating() > out[j].Rating() })
	return out
}

// Individual finds a resolved individual by name.
func (d *Directory) Individual(name string) (*competitor.Individual, bool) {
	ind, ok := d.byName[name]
	return ind, ok
}

// Persist writes the current row of each individual. It stops at the first
// failure and reports which individuals were not written.
func (d *Directory) Persist(ctx context.Context, inds ...*competitor.Individual) ([]*competitor.Individual, error) {
	for i, ind := range inds {
		if err := d.call(ctx, "update", ind.Row(), d.store.UpdateRowByName); err != nil {
			return inds[i:], err
		}
		d.rows[ind.Name()] = ind.Row()
	}
	return nil, nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
