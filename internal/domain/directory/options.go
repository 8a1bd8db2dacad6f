package directory

import (
	"github.com/google/uuid"

	"github.com/Xarpp/ChallongeExportData/pkg/logger"
)

// Option applies a configuration option to the Directory.
type Option func(*Directory)

// WithLogger sets the logger used by the directory.
func WithLogger(l logger.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.log = l
		}
	}
}

// WithIDGenerator replaces the synthetic id source used for team members.
func WithIDGenerator(gen func() string) Option {
	return func(d *Directory) {
		if gen != nil {
			d.newID = gen
		}
	}
}

func defaultIDGenerator() string { return uuid.NewString() }
