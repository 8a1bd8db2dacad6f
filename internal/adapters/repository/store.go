// Package repository persists competitor rows: one row per individual, keyed
// by name within a roster.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// Store provides read/write access to the persisted rows of one roster.
type Store interface {
	// ReadAllRows returns every row in insertion order.
	ReadAllRows(ctx context.Context) ([]model.Row, error)
	// AppendRow adds a new row. Returns ErrDuplicateRow if the name exists.
	AppendRow(ctx context.Context, row model.Row) error
	// UpdateRowByName overwrites the counters of an existing row.
	// Returns ErrNotFound if the name is unknown.
	UpdateRowByName(ctx context.Context, row model.Row) error
	// Close releases resources held by the store.
	Close()
}

func validate(row model.Row) error {
	if strings.TrimSpace(row.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRow)
	}
	return nil
}
