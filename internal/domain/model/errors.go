package model

import "errors"

// Sentinel errors shared by adapters.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid remote record")
)
