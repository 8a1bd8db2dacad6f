package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// MemoryStore keeps rows in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  []model.Row
	index map[string]int
}

// NewMemoryStore creates a store seeded with rows. Later duplicates are dropped.
func NewMemoryStore(seed ...model.Row) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int, len(seed))}
	for _, r := range seed {
		if _, dup := s.index[r.Name]; dup {
			continue
		}
		s.index[r.Name] = len(s.rows)
		s.rows = append(s.rows, r)
	}
	return s
}

func (s *MemoryStore) ReadAllRows(ctx context.Context) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Row(nil), s.rows...), nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, row model.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(row); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.index[row.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRow, row.Name)
	}
	s.index[row.Name] = len(s.rows)
	s.rows = append(s.rows, row)
	return nil
}

func (s *MemoryStore) UpdateRowByName(ctx context.Context, row model.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[row.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, row.Name)
	}
	s.rows[i] = row
	return nil
}

// Row returns the stored row for name.
func (s *MemoryStore) Row(name string) (model.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[name]
	if !ok {
		return model.Row{}, false
	}
	return s.rows[i], true
}

// Close is a no-op.
func (s *MemoryStore) Close() {}
