package repository

import (
	"errors"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

// Sentinel kinds for row store errors.
var (
	ErrNotFound     = model.ErrNotFound
	ErrDuplicateRow = errors.New("row already exists")
	ErrInvalidRow   = errors.New("invalid row")
)
