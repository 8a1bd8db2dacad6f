package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrAlreadyInitialized = errors.New("metrics already initialized")
)
